package board

import (
	"net/http"
	"time"

	"theatre-production-manager/internal/errors"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type CreateBoardRequest struct {
	ShowID string `json:"showId" binding:"required"`
	Name   string `json:"name" binding:"required"`
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")
	plan, _ := c.Get("user_plan")

	board := &Board{ShowID: req.ShowID, Name: req.Name}
	if err := h.service.CreateBoard(c.Request.Context(), userID.(uint64), plan.(string), board); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, board)
}

func (h *Handler) Get(c *gin.Context) {
	tree, err := h.service.GetBoardTree(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, tree)
}

func (h *Handler) ListByShow(c *gin.Context) {
	boards, err := h.service.ListShowBoards(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": boards})
}

func (h *Handler) Delete(c *gin.Context) {
	userID, _ := c.Get("user_id")

	if err := h.service.DeleteBoard(c.Request.Context(), c.Param("id"), userID.(uint64)); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

type CreateListRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) CreateList(c *gin.Context) {
	var req CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	list := &List{Name: req.Name}
	if err := h.service.CreateList(c.Request.Context(), c.Param("id"), userID.(uint64), list); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, list)
}

type CreateCardRequest struct {
	Title     string     `json:"title" binding:"required"`
	Assignees []string   `json:"assignees"`
	Status    string     `json:"status" binding:"omitempty,oneof=todo done archived"`
	DueDate   *time.Time `json:"dueDate"`
}

func (h *Handler) CreateCard(c *gin.Context) {
	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	card := &Card{
		Title:     req.Title,
		Assignees: req.Assignees,
		Status:    req.Status,
		DueDate:   req.DueDate,
	}
	err := h.service.CreateCard(
		c.Request.Context(),
		c.Param("listId"),
		c.Param("id"),
		userID.(uint64),
		card,
	)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, card)
}

func (h *Handler) UpdateCard(c *gin.Context) {
	var partial map[string]any
	if err := c.ShouldBindJSON(&partial); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	err := h.service.UpdateCard(
		c.Request.Context(),
		c.Param("cardId"),
		userID.(uint64),
		c.Param("id"),
		partial,
	)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "card updated"})
}
