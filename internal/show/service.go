package show

import (
	"context"
	defError "errors"
	"fmt"
	"time"

	"theatre-production-manager/internal/cache"
	"theatre-production-manager/internal/errors"
	"theatre-production-manager/internal/store"
	"theatre-production-manager/internal/subscription"
	"theatre-production-manager/internal/worker"
)

type Service interface {
	CreateShow(ctx context.Context, userID uint64, plan string, show *Show) error
	GetShow(ctx context.Context, showID string, userID uint64) (*Show, error)
	ListUserShows(ctx context.Context, userID uint64) ([]Show, error)
	UpdateShow(ctx context.Context, showID string, userID uint64, partial map[string]any) error
	DeleteShow(ctx context.Context, showID string, userID uint64) error
	CanEdit(ctx context.Context, showID string, userID uint64) (bool, error)
	ListCollaborators(ctx context.Context, showID string, requesterID uint64) ([]Collaborator, error)
	AddCollaborator(ctx context.Context, showID string, requesterID uint64, plan string, collab *Collaborator) error
	ChangeCollaboratorRole(ctx context.Context, showID string, requesterID uint64, targetUserID uint64, role string) error
	RemoveCollaborator(ctx context.Context, showID string, requesterID uint64, targetUserID uint64) error
}

type DefaultService struct {
	store store.Store
	cache *cache.Cache
	pool  *worker.Pool
	clock store.Clock
}

func NewService(st store.Store, cache *cache.Cache, pool *worker.Pool, clock store.Clock) Service {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &DefaultService{store: st, cache: cache, pool: pool, clock: clock}
}

func (s *DefaultService) CreateShow(ctx context.Context, userID uint64, plan string, show *Show) error {
	count, err := s.store.CountDocuments(ctx, store.Shows,
		store.Where("userId", "==", userID),
		store.Where("status", "==", StatusActive),
	)
	if err != nil {
		return err
	}
	if !subscription.CanCreate(plan, subscription.ResourceShows, count) {
		return errors.QuotaExceeded(subscription.ResourceShows, subscription.Limit(plan, subscription.ResourceShows))
	}

	now := s.clock()
	show.UserID = userID
	show.Status = StatusActive
	show.CreatedAt = now
	show.UpdatedAt = now
	show.ID = ""

	id, err := s.store.AddDocument(ctx, store.Shows, show)
	if err != nil {
		return err
	}
	show.ID = id

	s.bumpListVersion(userID)
	return nil
}

func (s *DefaultService) GetShow(ctx context.Context, showID string, userID uint64) (*Show, error) {
	show, err := s.loadShow(ctx, showID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.hasAccess(ctx, show, userID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, errors.Forbidden("No access to this show", nil)
	}
	return show, nil
}

func (s *DefaultService) ListUserShows(ctx context.Context, userID uint64) ([]Show, error) {
	versionKey := fmt.Sprintf("user:%d:shows:version", userID)
	v := s.cache.GetVersion(ctx, versionKey)
	cacheKey := fmt.Sprintf("shows:u:%d:v:%d", userID, v)

	var cached []Show
	found, _ := s.cache.Get(ctx, cacheKey, &cached)
	if found {
		return cached, nil
	}

	docs, err := s.store.GetDocuments(ctx, store.Shows, store.Where("userId", "==", userID))
	if err != nil {
		return nil, err
	}

	shows := make([]Show, 0, len(docs))
	for _, doc := range docs {
		var sh Show
		if err := doc.DataTo(&sh); err != nil {
			return nil, err
		}
		sh.ID = doc.ID
		shows = append(shows, sh)
	}

	// set value to cache off the request path
	s.pool.Submit(func(ctx context.Context) error {
		return s.cache.Set(ctx, cacheKey, shows, 24*time.Hour)
	})

	return shows, nil
}

func (s *DefaultService) UpdateShow(ctx context.Context, showID string, userID uint64, partial map[string]any) error {
	allowed, err := s.CanEdit(ctx, showID, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return errors.Forbidden("No edit rights on this show", nil)
	}

	// lifecycle fields are owned by the archive flow
	delete(partial, "status")
	delete(partial, "archiveId")
	delete(partial, "userId")
	partial["updatedAt"] = s.clock()

	if err := s.store.UpdateDocument(ctx, store.Shows, showID, partial); err != nil {
		if defError.Is(err, store.ErrNotFound) {
			return errors.NotFound("Show not found", err)
		}
		return err
	}

	s.bumpListVersion(userID)
	return nil
}

// DeleteShow marks a show deleted. Hard deletion goes through the archive
// service's permanent delete.
func (s *DefaultService) DeleteShow(ctx context.Context, showID string, userID uint64) error {
	show, err := s.loadShow(ctx, showID)
	if err != nil {
		return err
	}
	if show.UserID != userID {
		return errors.Forbidden("Only the owner can delete a show", nil)
	}

	err = s.store.UpdateDocument(ctx, store.Shows, showID, map[string]any{
		"status":    StatusDeleted,
		"updatedAt": s.clock(),
	})
	if err != nil {
		return err
	}

	s.bumpListVersion(userID)
	return nil
}

// CanEdit reports whether the user owns the show or collaborates with the
// editor role.
func (s *DefaultService) CanEdit(ctx context.Context, showID string, userID uint64) (bool, error) {
	show, err := s.loadShow(ctx, showID)
	if err != nil {
		return false, err
	}
	if show.UserID == userID {
		return true, nil
	}

	collabs, err := s.collaboratorsOf(ctx, showID)
	if err != nil {
		return false, err
	}
	for _, c := range collabs {
		if c.UserID == userID && c.Role == "editor" {
			return true, nil
		}
	}
	return false, nil
}

func (s *DefaultService) ListCollaborators(ctx context.Context, showID string, requesterID uint64) ([]Collaborator, error) {
	show, err := s.loadShow(ctx, showID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.hasAccess(ctx, show, requesterID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, errors.Forbidden("No access to this show", nil)
	}

	return s.collaboratorsOf(ctx, showID)
}

func (s *DefaultService) AddCollaborator(ctx context.Context, showID string, requesterID uint64, plan string, collab *Collaborator) error {
	show, err := s.loadShow(ctx, showID)
	if err != nil {
		return err
	}
	if show.UserID != requesterID {
		return errors.Forbidden("Only the owner can add collaborators", nil)
	}

	count, err := s.store.CountDocuments(ctx, store.Collaborators, store.Where("showId", "==", showID))
	if err != nil {
		return err
	}
	if !subscription.CanCreate(plan, subscription.ResourceCollaborators, count) {
		return errors.QuotaExceeded(subscription.ResourceCollaborators, subscription.Limit(plan, subscription.ResourceCollaborators))
	}

	collab.ShowID = showID
	collab.AddedBy = requesterID
	collab.AddedAt = s.clock()
	collab.ID = ""

	id, err := s.store.AddDocument(ctx, store.Collaborators, collab)
	if err != nil {
		return err
	}
	collab.ID = id
	return nil
}

func (s *DefaultService) ChangeCollaboratorRole(ctx context.Context, showID string, requesterID uint64, targetUserID uint64, role string) error {
	show, err := s.loadShow(ctx, showID)
	if err != nil {
		return err
	}
	if show.UserID != requesterID {
		return errors.Forbidden("Only the owner can change roles", nil)
	}

	collab, err := s.findCollaborator(ctx, showID, targetUserID)
	if err != nil {
		return err
	}
	return s.store.UpdateDocument(ctx, store.Collaborators, collab.ID, map[string]any{"role": role})
}

func (s *DefaultService) RemoveCollaborator(ctx context.Context, showID string, requesterID uint64, targetUserID uint64) error {
	show, err := s.loadShow(ctx, showID)
	if err != nil {
		return err
	}
	if show.UserID != requesterID && requesterID != targetUserID {
		return errors.Forbidden("Only the owner can remove collaborators", nil)
	}

	collab, err := s.findCollaborator(ctx, showID, targetUserID)
	if err != nil {
		return err
	}
	return s.store.DeleteDocument(ctx, store.Collaborators, collab.ID)
}

func (s *DefaultService) loadShow(ctx context.Context, showID string) (*Show, error) {
	doc, err := s.store.GetDocument(ctx, store.Shows, showID)
	if defError.Is(err, store.ErrNotFound) {
		return nil, errors.NotFound("Show not found", err)
	}
	if err != nil {
		return nil, err
	}

	var show Show
	if err := doc.DataTo(&show); err != nil {
		return nil, err
	}
	show.ID = doc.ID
	return &show, nil
}

func (s *DefaultService) collaboratorsOf(ctx context.Context, showID string) ([]Collaborator, error) {
	docs, err := s.store.GetDocuments(ctx, store.Collaborators, store.Where("showId", "==", showID))
	if err != nil {
		return nil, err
	}

	collabs := make([]Collaborator, 0, len(docs))
	for _, doc := range docs {
		var c Collaborator
		if err := doc.DataTo(&c); err != nil {
			return nil, err
		}
		c.ID = doc.ID
		collabs = append(collabs, c)
	}
	return collabs, nil
}

func (s *DefaultService) findCollaborator(ctx context.Context, showID string, userID uint64) (*Collaborator, error) {
	collabs, err := s.collaboratorsOf(ctx, showID)
	if err != nil {
		return nil, err
	}
	for i := range collabs {
		if collabs[i].UserID == userID {
			return &collabs[i], nil
		}
	}
	return nil, errors.NotFound("Collaborator not found", nil)
}

func (s *DefaultService) hasAccess(ctx context.Context, show *Show, userID uint64) (bool, error) {
	if show.UserID == userID {
		return true, nil
	}
	collabs, err := s.collaboratorsOf(ctx, show.ID)
	if err != nil {
		return false, err
	}
	for _, c := range collabs {
		if c.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *DefaultService) bumpListVersion(userID uint64) {
	versionKey := fmt.Sprintf("user:%d:shows:version", userID)
	s.pool.Submit(func(ctx context.Context) error {
		s.cache.IncrementVersion(ctx, versionKey)
		return nil
	})
}
