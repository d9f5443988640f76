package prop

import (
	"net/http"

	"theatre-production-manager/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	// register the status enum with gin's validator engine
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("propstatus", func(fl validator.FieldLevel) bool {
			switch fl.Field().String() {
			case "", StatusInUse, StatusMaintenance, StatusRetired,
				StatusOnDelivery, StatusWithMaker, StatusCutFromShow:
				return true
			}
			return false
		})
	}
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type CreatePropRequest struct {
	ShowID      string     `json:"showId" binding:"required"`
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Quantity    int        `json:"quantity"`
	Dimensions  Dimensions `json:"dimensions"`
	Weight      Weight     `json:"weight"`
	Source      string     `json:"source"`
	Status      string     `json:"status" binding:"propstatus"`
	Act         int        `json:"act"`
	Scene       int        `json:"scene"`
	Images      []Image    `json:"images"`
}

func (h *Handler) Create(c *gin.Context) {
	var req CreatePropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")
	plan, _ := c.Get("user_plan")

	prop := &Prop{
		ShowID:      req.ShowID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Quantity:    req.Quantity,
		Dimensions:  req.Dimensions,
		Weight:      req.Weight,
		Source:      req.Source,
		Status:      req.Status,
		Act:         req.Act,
		Scene:       req.Scene,
		Images:      req.Images,
	}

	if err := h.service.CreateProp(c.Request.Context(), userID.(uint64), plan.(string), prop); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, prop)
}

func (h *Handler) Get(c *gin.Context) {
	prop, err := h.service.GetProp(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, prop)
}

func (h *Handler) ListByShow(c *gin.Context) {
	userID, _ := c.Get("user_id")

	props, err := h.service.ListShowProps(c.Request.Context(), c.Param("id"), userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": props})
}

func (h *Handler) Update(c *gin.Context) {
	var partial map[string]any
	if err := c.ShouldBindJSON(&partial); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	if err := h.service.UpdateProp(c.Request.Context(), c.Param("id"), userID.(uint64), partial); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "prop updated"})
}

func (h *Handler) Delete(c *gin.Context) {
	userID, _ := c.Get("user_id")

	if err := h.service.DeleteProp(c.Request.Context(), c.Param("id"), userID.(uint64)); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
