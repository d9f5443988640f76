// Package shopping covers the shopping lists attached to a show. The feature
// is small enough to live in one file.
package shopping

import (
	"context"
	defError "errors"
	"net/http"
	"time"

	"theatre-production-manager/internal/errors"
	"theatre-production-manager/internal/store"

	"github.com/gin-gonic/gin"
)

type Item struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity,omitempty"`
	Purchased   bool   `json:"purchased"`
	PropID      string `json:"propId,omitempty"`
}

type ShoppingList struct {
	ID     string `json:"id,omitempty"`
	ShowID string `json:"showId"`
	Name   string `json:"name"`
	Items  []Item `json:"items,omitempty"`

	CreatedBy uint64    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Archived   bool       `json:"archived,omitempty"`
	ArchiveID  string     `json:"archiveId,omitempty"`
	ArchivedAt *time.Time `json:"archivedAt,omitempty"`
	Restored   bool       `json:"restored,omitempty"`
	RestoredAt *time.Time `json:"restoredAt,omitempty"`
}

type AccessChecker interface {
	CanEdit(ctx context.Context, showID string, userID uint64) (bool, error)
}

type Service interface {
	CreateList(ctx context.Context, userID uint64, list *ShoppingList) error
	ListShowLists(ctx context.Context, showID string) ([]ShoppingList, error)
	UpdateList(ctx context.Context, listID string, userID uint64, partial map[string]any) error
	DeleteList(ctx context.Context, listID string, userID uint64) error
}

type DefaultService struct {
	store  store.Store
	access AccessChecker
	clock  store.Clock
}

func NewService(st store.Store, access AccessChecker, clock store.Clock) Service {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &DefaultService{store: st, access: access, clock: clock}
}

func (s *DefaultService) CreateList(ctx context.Context, userID uint64, list *ShoppingList) error {
	allowed, err := s.access.CanEdit(ctx, list.ShowID, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return errors.Forbidden("No edit rights on this show", nil)
	}

	now := s.clock()
	list.CreatedBy = userID
	list.CreatedAt = now
	list.UpdatedAt = now
	list.ID = ""

	id, err := s.store.AddDocument(ctx, store.ShoppingLists, list)
	if err != nil {
		return err
	}
	list.ID = id
	return nil
}

func (s *DefaultService) ListShowLists(ctx context.Context, showID string) ([]ShoppingList, error) {
	docs, err := s.store.GetDocuments(ctx, store.ShoppingLists, store.Where("showId", "==", showID))
	if err != nil {
		return nil, err
	}

	lists := make([]ShoppingList, 0, len(docs))
	for _, doc := range docs {
		var list ShoppingList
		if err := doc.DataTo(&list); err != nil {
			return nil, err
		}
		list.ID = doc.ID
		lists = append(lists, list)
	}
	return lists, nil
}

func (s *DefaultService) UpdateList(ctx context.Context, listID string, userID uint64, partial map[string]any) error {
	list, err := s.listOf(ctx, listID)
	if err != nil {
		return err
	}

	allowed, err := s.access.CanEdit(ctx, list.ShowID, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return errors.Forbidden("No edit rights on this show", nil)
	}

	delete(partial, "showId")
	partial["updatedAt"] = s.clock()
	return s.store.UpdateDocument(ctx, store.ShoppingLists, listID, partial)
}

func (s *DefaultService) DeleteList(ctx context.Context, listID string, userID uint64) error {
	list, err := s.listOf(ctx, listID)
	if err != nil {
		return err
	}

	allowed, err := s.access.CanEdit(ctx, list.ShowID, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return errors.Forbidden("No edit rights on this show", nil)
	}

	return s.store.DeleteDocument(ctx, store.ShoppingLists, listID)
}

func (s *DefaultService) listOf(ctx context.Context, listID string) (*ShoppingList, error) {
	doc, err := s.store.GetDocument(ctx, store.ShoppingLists, listID)
	if defError.Is(err, store.ErrNotFound) {
		return nil, errors.NotFound("Shopping list not found", err)
	}
	if err != nil {
		return nil, err
	}

	var list ShoppingList
	if err := doc.DataTo(&list); err != nil {
		return nil, err
	}
	list.ID = doc.ID
	return &list, nil
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type CreateListRequest struct {
	ShowID string `json:"showId" binding:"required"`
	Name   string `json:"name" binding:"required"`
	Items  []Item `json:"items"`
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	list := &ShoppingList{ShowID: req.ShowID, Name: req.Name, Items: req.Items}
	if err := h.service.CreateList(c.Request.Context(), userID.(uint64), list); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, list)
}

func (h *Handler) ListByShow(c *gin.Context) {
	lists, err := h.service.ListShowLists(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": lists})
}

func (h *Handler) Update(c *gin.Context) {
	var partial map[string]any
	if err := c.ShouldBindJSON(&partial); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	if err := h.service.UpdateList(c.Request.Context(), c.Param("id"), userID.(uint64), partial); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "shopping list updated"})
}

func (h *Handler) Delete(c *gin.Context) {
	userID, _ := c.Get("user_id")

	if err := h.service.DeleteList(c.Request.Context(), c.Param("id"), userID.(uint64)); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
