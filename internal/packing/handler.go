package packing

import (
	"net/http"

	"theatre-production-manager/internal/errors"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type CreatePackingListRequest struct {
	ShowID string `json:"showId" binding:"required"`
	Name   string `json:"name" binding:"required"`
}

func (h *Handler) Create(c *gin.Context) {
	var req CreatePackingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	list := &PackingList{ShowID: req.ShowID, Name: req.Name}
	if err := h.service.CreatePackingList(c.Request.Context(), userID.(uint64), list); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, list)
}

func (h *Handler) Get(c *gin.Context) {
	tree, err := h.service.GetPackingListTree(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, tree)
}

func (h *Handler) ListByShow(c *gin.Context) {
	lists, err := h.service.ListShowPackingLists(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": lists})
}

type AddBoxRequest struct {
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description"`
	Weight      float64      `json:"weight"`
	Props       []PackedProp `json:"props"`
}

func (h *Handler) AddBox(c *gin.Context) {
	var req AddBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")
	plan, _ := c.Get("user_plan")

	box := &Box{
		Name:        req.Name,
		Description: req.Description,
		Weight:      req.Weight,
		Props:       req.Props,
	}
	err := h.service.AddBox(c.Request.Context(), c.Param("id"), userID.(uint64), plan.(string), box)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, box)
}

func (h *Handler) UpdateBox(c *gin.Context) {
	var partial map[string]any
	if err := c.ShouldBindJSON(&partial); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	err := h.service.UpdateBox(
		c.Request.Context(),
		c.Param("boxId"),
		c.Param("id"),
		userID.(uint64),
		partial,
	)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "box updated"})
}

func (h *Handler) Delete(c *gin.Context) {
	userID, _ := c.Get("user_id")

	if err := h.service.DeletePackingList(c.Request.Context(), c.Param("id"), userID.(uint64)); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
