package prop

import (
	"context"
	defError "errors"
	"time"

	"theatre-production-manager/internal/errors"
	"theatre-production-manager/internal/store"
	"theatre-production-manager/internal/subscription"
)

// AccessChecker tells whether a user may edit a show's contents
type AccessChecker interface {
	CanEdit(ctx context.Context, showID string, userID uint64) (bool, error)
}

type Service interface {
	CreateProp(ctx context.Context, userID uint64, plan string, prop *Prop) error
	GetProp(ctx context.Context, propID string) (*Prop, error)
	ListShowProps(ctx context.Context, showID string, userID uint64) ([]Prop, error)
	UpdateProp(ctx context.Context, propID string, userID uint64, partial map[string]any) error
	DeleteProp(ctx context.Context, propID string, userID uint64) error
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

func (s *DefaultService) CreateProp(ctx context.Context, userID uint64, plan string, prop *Prop) error {
	allowed, err := s.access.CanEdit(ctx, prop.ShowID, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return errors.Forbidden("No edit rights on this show", nil)
	}

	count, err := s.store.CountDocuments(ctx, store.Props, store.Where("showId", "==", prop.ShowID))
	if err != nil {
		return err
	}
	if !subscription.CanCreate(plan, subscription.ResourceProps, count) {
		return errors.QuotaExceeded(subscription.ResourceProps, subscription.Limit(plan, subscription.ResourceProps))
	}

	now := s.clock()
	prop.CreatedBy = userID
	prop.CreatedAt = now
	prop.UpdatedAt = now
	prop.ID = ""
	if prop.Quantity == 0 {
		prop.Quantity = 1
	}

	id, err := s.store.AddDocument(ctx, store.Props, prop)
	if err != nil {
		return err
	}
	prop.ID = id
	return nil
}

func (s *DefaultService) GetProp(ctx context.Context, propID string) (*Prop, error) {
	doc, err := s.store.GetDocument(ctx, store.Props, propID)
	if defError.Is(err, store.ErrNotFound) {
		return nil, errors.NotFound("Prop not found", err)
	}
	if err != nil {
		return nil, err
	}

	var prop Prop
	if err := doc.DataTo(&prop); err != nil {
		return nil, err
	}
	prop.ID = doc.ID
	return &prop, nil
}

func (s *DefaultService) ListShowProps(ctx context.Context, showID string, userID uint64) ([]Prop, error) {
	docs, err := s.store.GetDocuments(ctx, store.Props, store.Where("showId", "==", showID))
	if err != nil {
		return nil, err
	}

	props := make([]Prop, 0, len(docs))
	for _, doc := range docs {
		var p Prop
		if err := doc.DataTo(&p); err != nil {
			return nil, err
		}
		p.ID = doc.ID
		props = append(props, p)
	}
	return props, nil
}

func (s *DefaultService) UpdateProp(ctx context.Context, propID string, userID uint64, partial map[string]any) error {
	prop, err := s.GetProp(ctx, propID)
	if err != nil {
		return err
	}

	allowed, err := s.access.CanEdit(ctx, prop.ShowID, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return errors.Forbidden("No edit rights on this show", nil)
	}

	delete(partial, "showId")
	delete(partial, "archiveId")
	delete(partial, "archived")
	partial["updatedAt"] = s.clock()

	return s.store.UpdateDocument(ctx, store.Props, propID, partial)
}

func (s *DefaultService) DeleteProp(ctx context.Context, propID string, userID uint64) error {
	prop, err := s.GetProp(ctx, propID)
	if err != nil {
		return err
	}

	allowed, err := s.access.CanEdit(ctx, prop.ShowID, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return errors.Forbidden("No edit rights on this show", nil)
	}

	return s.store.DeleteDocument(ctx, store.Props, propID)
}
