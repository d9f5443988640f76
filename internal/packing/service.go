package packing

import (
	"context"
	defError "errors"
	"time"

	"theatre-production-manager/internal/errors"
	"theatre-production-manager/internal/store"
	"theatre-production-manager/internal/subscription"
)

type AccessChecker interface {
	CanEdit(ctx context.Context, showID string, userID uint64) (bool, error)
}

type Service interface {
	CreatePackingList(ctx context.Context, userID uint64, list *PackingList) error
	GetPackingListTree(ctx context.Context, listID string) (*PackingListTree, error)
	ListShowPackingLists(ctx context.Context, showID string) ([]PackingList, error)
	AddBox(ctx context.Context, listID string, userID uint64, plan string, box *Box) error
	UpdateBox(ctx context.Context, boxID string, listID string, userID uint64, partial map[string]any) error
	DeletePackingList(ctx context.Context, listID string, userID uint64) error
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

func (s *DefaultService) CreatePackingList(ctx context.Context, userID uint64, list *PackingList) error {
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

	id, err := s.store.AddDocument(ctx, store.PackingLists, list)
	if err != nil {
		return err
	}
	list.ID = id
	return nil
}

// GetPackingListTree expands a packing list with its boxes
func (s *DefaultService) GetPackingListTree(ctx context.Context, listID string) (*PackingListTree, error) {
	list, err := s.listOf(ctx, listID)
	if err != nil {
		return nil, err
	}

	boxDocs, err := s.store.GetDocuments(ctx, store.Boxes, store.Where("packingListId", "==", listID))
	if err != nil {
		return nil, err
	}

	boxes := make([]Box, 0, len(boxDocs))
	for _, doc := range boxDocs {
		var box Box
		if err := doc.DataTo(&box); err != nil {
			return nil, err
		}
		box.ID = doc.ID
		boxes = append(boxes, box)
	}
	return &PackingListTree{PackingList: *list, Boxes: boxes}, nil
}

func (s *DefaultService) ListShowPackingLists(ctx context.Context, showID string) ([]PackingList, error) {
	docs, err := s.store.GetDocuments(ctx, store.PackingLists, store.Where("showId", "==", showID))
	if err != nil {
		return nil, err
	}

	lists := make([]PackingList, 0, len(docs))
	for _, doc := range docs {
		var list PackingList
		if err := doc.DataTo(&list); err != nil {
			return nil, err
		}
		list.ID = doc.ID
		lists = append(lists, list)
	}
	return lists, nil
}

func (s *DefaultService) AddBox(ctx context.Context, listID string, userID uint64, plan string, box *Box) error {
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

	count, err := s.store.CountDocuments(ctx, store.Boxes, store.Where("packingListId", "==", listID))
	if err != nil {
		return err
	}
	if !subscription.CanCreate(plan, subscription.ResourcePackingBoxes, count) {
		return errors.QuotaExceeded(subscription.ResourcePackingBoxes, subscription.Limit(plan, subscription.ResourcePackingBoxes))
	}

	box.PackingListID = listID
	box.ID = ""

	id, err := s.store.AddDocument(ctx, store.Boxes, box)
	if err != nil {
		return err
	}
	box.ID = id
	return nil
}

func (s *DefaultService) UpdateBox(ctx context.Context, boxID string, listID string, userID uint64, partial map[string]any) error {
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

	delete(partial, "packingListId")
	return s.store.UpdateDocument(ctx, store.Boxes, boxID, partial)
}

// DeletePackingList removes a packing list together with its boxes
func (s *DefaultService) DeletePackingList(ctx context.Context, listID string, userID uint64) error {
	tree, err := s.GetPackingListTree(ctx, listID)
	if err != nil {
		return err
	}

	allowed, err := s.access.CanEdit(ctx, tree.PackingList.ShowID, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return errors.Forbidden("No edit rights on this show", nil)
	}

	for _, box := range tree.Boxes {
		if err := s.store.DeleteDocument(ctx, store.Boxes, box.ID); err != nil {
			return err
		}
	}
	return s.store.DeleteDocument(ctx, store.PackingLists, listID)
}

func (s *DefaultService) listOf(ctx context.Context, listID string) (*PackingList, error) {
	doc, err := s.store.GetDocument(ctx, store.PackingLists, listID)
	if defError.Is(err, store.ErrNotFound) {
		return nil, errors.NotFound("Packing list not found", err)
	}
	if err != nil {
		return nil, err
	}

	var list PackingList
	if err := doc.DataTo(&list); err != nil {
		return nil, err
	}
	list.ID = doc.ID
	return &list, nil
}
