package show

import (
	"net/http"
	"time"

	"theatre-production-manager/internal/errors"
	"theatre-production-manager/internal/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type CreateShowRequest struct {
	Name          string     `json:"name" binding:"required"`
	Description   string     `json:"description"`
	StartDate     *time.Time `json:"startDate"`
	EndDate       *time.Time `json:"endDate"`
	Venue         string     `json:"venue"`
	Address       string     `json:"address"`
	IsTouringShow bool       `json:"isTouringShow"`
	Acts          []Act      `json:"acts"`
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateShowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")
	plan, _ := c.Get("user_plan")

	show := &Show{
		Name:          req.Name,
		Description:   req.Description,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Venue:         req.Venue,
		Address:       req.Address,
		IsTouringShow: req.IsTouringShow,
		Acts:          req.Acts,
	}

	if err := h.service.CreateShow(c.Request.Context(), userID.(uint64), plan.(string), show); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, show)
}

func (h *Handler) List(c *gin.Context) {
	userID, _ := c.Get("user_id")
	page, pageSize := utils.GetPaginationParams(c)

	shows, err := h.service.ListUserShows(c.Request.Context(), userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": utils.Paginate(shows, page, pageSize),
		"meta": gin.H{"total": len(shows), "page": page, "per_page": pageSize},
	})
}

func (h *Handler) Get(c *gin.Context) {
	userID, _ := c.Get("user_id")

	show, err := h.service.GetShow(c.Request.Context(), c.Param("id"), userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, show)
}

func (h *Handler) Update(c *gin.Context) {
	var partial map[string]any
	if err := c.ShouldBindJSON(&partial); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	if err := h.service.UpdateShow(c.Request.Context(), c.Param("id"), userID.(uint64), partial); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "show updated"})
}

func (h *Handler) Delete(c *gin.Context) {
	userID, _ := c.Get("user_id")

	if err := h.service.DeleteShow(c.Request.Context(), c.Param("id"), userID.(uint64)); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListCollaborators(c *gin.Context) {
	userID, _ := c.Get("user_id")

	collabs, err := h.service.ListCollaborators(c.Request.Context(), c.Param("id"), userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": collabs})
}

type AddCollaboratorRequest struct {
	UserID uint64 `json:"user_id" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
	Role   string `json:"role" binding:"required,oneof=editor viewer"`
}

func (h *Handler) AddCollaborator(c *gin.Context) {
	var req AddCollaboratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	requesterID, _ := c.Get("user_id")
	plan, _ := c.Get("user_plan")

	collab := &Collaborator{
		UserID: req.UserID,
		Email:  req.Email,
		Role:   req.Role,
	}

	err := h.service.AddCollaborator(
		c.Request.Context(),
		c.Param("id"),
		requesterID.(uint64),
		plan.(string),
		collab,
	)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, collab)
}

type ChangeCollaboratorRoleRequest struct {
	Role         string `json:"role" binding:"required,oneof=editor viewer"`
	TargetUserID uint64 `json:"user_id" binding:"required"`
}

func (h *Handler) ChangeCollaboratorRole(c *gin.Context) {
	var req ChangeCollaboratorRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	requesterID, _ := c.Get("user_id")

	err := h.service.ChangeCollaboratorRole(
		c.Request.Context(),
		c.Param("id"),
		requesterID.(uint64),
		req.TargetUserID,
		req.Role,
	)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "role updated"})
}

func (h *Handler) RemoveCollaborator(c *gin.Context) {
	targetUserID, ok := parseUserParam(c, "userId")
	if !ok {
		return
	}

	requesterID, _ := c.Get("user_id")

	err := h.service.RemoveCollaborator(
		c.Request.Context(),
		c.Param("id"),
		requesterID.(uint64),
		targetUserID,
	)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "collaborator removed"})
}
