// Package archive orchestrates the three lifecycle transitions of a show:
// archive (snapshot + soft delete), restore (re-materialize under a new
// identity) and permanent delete. None of the flows is atomic: a failure
// partway leaves the store in a mixed state and the error is returned to the
// caller unchanged.
package archive

import (
	"context"
	"encoding/json"
	defError "errors"
	"time"

	"theatre-production-manager/internal/board"
	"theatre-production-manager/internal/errors"
	"theatre-production-manager/internal/events"
	"theatre-production-manager/internal/packing"
	"theatre-production-manager/internal/prop"
	"theatre-production-manager/internal/shopping"
	"theatre-production-manager/internal/show"
	"theatre-production-manager/internal/store"
	"theatre-production-manager/internal/worker"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Service interface {
	ArchiveShow(ctx context.Context, showID string, userID uint64, archivedShowsLimit int) (string, error)
	RestoreShow(ctx context.Context, archiveID string, userID uint64) (string, error)
	PermanentlyDeleteShow(ctx context.Context, showID string, userID uint64) error
	GetArchive(ctx context.Context, archiveID string) (*ShowArchive, error)
	ListUserArchives(ctx context.Context, userID uint64) ([]ShowArchive, error)
}

type ArchiveService struct {
	store     store.Store
	log       *logrus.Logger
	clock     store.Clock
	publisher *events.Publisher
	pool      *worker.Pool
}

// NewService creates the archive service. publisher and pool may be nil, in
// which case lifecycle events are not emitted.
func NewService(st store.Store, log *logrus.Logger, clock store.Clock, publisher *events.Publisher, pool *worker.Pool) Service {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &ArchiveService{
		store:     st,
		log:       log,
		clock:     clock,
		publisher: publisher,
		pool:      pool,
	}
}

// ArchiveShow snapshots a show with all its associated data into a
// ShowArchive row, then soft-deletes the show and the top-level associated
// rows. Returns the new archive's id.
func (s *ArchiveService) ArchiveShow(ctx context.Context, showID string, userID uint64, archivedShowsLimit int) (string, error) {
	// quota check comes before any other read or write
	count, err := s.store.CountDocuments(ctx, store.ShowArchives, store.Where("archivedBy", "==", userID))
	if err != nil {
		s.log.WithError(err).Error("archive: counting user archives failed")
		return "", err
	}
	if count >= int64(archivedShowsLimit) {
		err := errors.QuotaExceeded("archived shows", archivedShowsLimit)
		s.log.WithField("user_id", userID).Info(err.Message)
		return "", err
	}

	sh, err := s.loadShow(ctx, showID)
	if err != nil {
		s.log.WithError(err).WithField("show_id", showID).Error("archive: loading show failed")
		return "", err
	}

	associated, err := s.collectAssociatedData(ctx, showID)
	if err != nil {
		s.log.WithError(err).WithField("show_id", showID).Error("archive: collecting associated data failed")
		return "", err
	}

	now := s.clock()
	record := ShowArchive{
		ShowID:          showID,
		ArchivedAt:      now,
		ArchivedBy:      userID,
		Show:            *sh,
		AssociatedData:  *associated,
		ArchiveMetadata: buildMetadata(sh, associated),
		CanRestore:      true,
	}

	archiveID, err := s.store.AddDocument(ctx, store.ShowArchives, record)
	if err != nil {
		s.log.WithError(err).WithField("show_id", showID).Error("archive: writing snapshot failed")
		return "", err
	}

	err = s.store.UpdateDocument(ctx, store.Shows, showID, map[string]any{
		"status":     show.StatusArchived,
		"archivedAt": now,
		"archivedBy": userID,
		"archiveId":  archiveID,
	})
	if err != nil {
		s.log.WithError(err).WithField("show_id", showID).Error("archive: marking show archived failed")
		return "", err
	}

	// soft-delete fan-out over the top-level rows; nested lists, cards and
	// boxes are only reachable through their parents and are not marked
	if err := s.markAssociatedArchived(ctx, associated, archiveID, now); err != nil {
		s.log.WithError(err).WithField("show_id", showID).Error("archive: marking associated rows failed")
		return "", err
	}

	s.publishEvent(events.QueueShowArchived, events.ShowLifecycleEvent{
		ShowID:     showID,
		ShowName:   sh.Name,
		UserID:     userID,
		ArchiveID:  archiveID,
		OccurredAt: now.Format(time.RFC3339),
	})

	return archiveID, nil
}

// RestoreShow re-creates a show and every associated record from an archive
// snapshot under freshly generated identifiers. The original show id is
// retired; the restored show comes back as "completed", never "active".
func (s *ArchiveService) RestoreShow(ctx context.Context, archiveID string, userID uint64) (string, error) {
	record, err := s.GetArchive(ctx, archiveID)
	if err != nil {
		s.log.WithError(err).WithField("archive_id", archiveID).Error("restore: loading archive failed")
		return "", err
	}

	now := s.clock()

	restored := record.Show
	restored.ID = ""
	restored.Status = show.StatusCompleted
	restored.ArchiveID = ""
	restored.RestoredAt = &now
	restored.RestoredBy = userID

	newShowID, err := s.store.AddDocument(ctx, store.Shows, restored)
	if err != nil {
		s.log.WithError(err).WithField("archive_id", archiveID).Error("restore: creating show failed")
		return "", err
	}

	if err := s.recreateAssociatedData(ctx, &record.AssociatedData, newShowID, now); err != nil {
		s.log.WithError(err).WithField("archive_id", archiveID).Error("restore: recreating associated data failed")
		return "", err
	}

	err = s.store.UpdateDocument(ctx, store.ShowArchives, archiveID, map[string]any{
		"canRestore":     false,
		"lastRestoredAt": now,
		"restoredBy":     userID,
	})
	if err != nil {
		s.log.WithError(err).WithField("archive_id", archiveID).Error("restore: updating restoration info failed")
		return "", err
	}

	s.publishEvent(events.QueueShowRestored, events.ShowLifecycleEvent{
		ShowID:     newShowID,
		ShowName:   restored.Name,
		UserID:     userID,
		ArchiveID:  archiveID,
		OccurredAt: now.Format(time.RFC3339),
	})

	return newShowID, nil
}

// PermanentlyDeleteShow hard-deletes the show and every top-level associated
// row, then appends a deletion log. Lists, cards and boxes are not
// enumerated by this path and stay behind as orphans; see DESIGN.md.
func (s *ArchiveService) PermanentlyDeleteShow(ctx context.Context, showID string, userID uint64) error {
	type target struct {
		collection string
		id         string
	}

	var targets []target
	for _, collection := range []string{
		store.Props,
		store.Boards,
		store.PackingLists,
		store.Collaborators,
		store.ShoppingLists,
	} {
		docs, err := s.store.GetDocuments(ctx, collection, store.Where("showId", "==", showID))
		if err != nil {
			s.log.WithError(err).WithField("show_id", showID).Error("delete: collecting associated ids failed")
			return err
		}
		for _, doc := range docs {
			targets = append(targets, target{collection: collection, id: doc.ID})
		}
	}

	// fail fast: the first delete error aborts, rows already gone stay gone
	for _, t := range targets {
		if err := s.store.DeleteDocument(ctx, t.collection, t.id); err != nil {
			s.log.WithError(err).WithField("show_id", showID).Error("delete: deleting associated row failed")
			return err
		}
	}

	if err := s.store.DeleteDocument(ctx, store.Shows, showID); err != nil {
		s.log.WithError(err).WithField("show_id", showID).Error("delete: deleting show failed")
		return err
	}

	now := s.clock()
	_, err := s.store.AddDocument(ctx, store.DeletionLogs, DeletionLog{
		ShowID:              showID,
		DeletedBy:           userID,
		DeletedAt:           now,
		AssociatedDataCount: len(targets),
	})
	if err != nil {
		s.log.WithError(err).WithField("show_id", showID).Error("delete: writing deletion log failed")
		return err
	}

	s.publishEvent(events.QueueShowDeleted, events.ShowLifecycleEvent{
		ShowID:     showID,
		UserID:     userID,
		OccurredAt: now.Format(time.RFC3339),
	})

	return nil
}

func (s *ArchiveService) GetArchive(ctx context.Context, archiveID string) (*ShowArchive, error) {
	doc, err := s.store.GetDocument(ctx, store.ShowArchives, archiveID)
	if defError.Is(err, store.ErrNotFound) {
		return nil, errors.NotFound("Archive not found", err)
	}
	if err != nil {
		return nil, err
	}

	var record ShowArchive
	if err := doc.DataTo(&record); err != nil {
		return nil, err
	}
	record.ID = doc.ID
	return &record, nil
}

func (s *ArchiveService) ListUserArchives(ctx context.Context, userID uint64) ([]ShowArchive, error) {
	docs, err := s.store.GetDocuments(ctx, store.ShowArchives, store.Where("archivedBy", "==", userID))
	if err != nil {
		return nil, err
	}

	archives := make([]ShowArchive, 0, len(docs))
	for _, doc := range docs {
		var record ShowArchive
		if err := doc.DataTo(&record); err != nil {
			return nil, err
		}
		record.ID = doc.ID
		archives = append(archives, record)
	}
	return archives, nil
}

// collectAssociatedData issues the five top-level queries concurrently.
// Expanding each board into lists-then-cards, and each packing list into its
// boxes, runs as a sequential chain per parent row.
func (s *ArchiveService) collectAssociatedData(ctx context.Context, showID string) (*AssociatedData, error) {
	var data AssociatedData

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		props, err := decodeAll[prop.Prop](s.store, ctx, store.Props, showID, "showId")
		data.Props = props
		return err
	})

	g.Go(func() error {
		boards, err := decodeAll[board.Board](s.store, ctx, store.Boards, showID, "showId")
		if err != nil {
			return err
		}
		trees := make([]board.BoardTree, 0, len(boards))
		for _, b := range boards {
			lists, err := decodeAll[board.List](s.store, ctx, store.Lists, b.ID, "boardId")
			if err != nil {
				return err
			}
			listTrees := make([]board.ListTree, 0, len(lists))
			for _, l := range lists {
				cards, err := decodeAll[board.Card](s.store, ctx, store.Cards, l.ID, "listId")
				if err != nil {
					return err
				}
				listTrees = append(listTrees, board.ListTree{List: l, Cards: cards})
			}
			trees = append(trees, board.BoardTree{Board: b, Lists: listTrees})
		}
		data.Boards = trees
		return nil
	})

	g.Go(func() error {
		lists, err := decodeAll[packing.PackingList](s.store, ctx, store.PackingLists, showID, "showId")
		if err != nil {
			return err
		}
		trees := make([]packing.PackingListTree, 0, len(lists))
		for _, l := range lists {
			boxes, err := decodeAll[packing.Box](s.store, ctx, store.Boxes, l.ID, "packingListId")
			if err != nil {
				return err
			}
			trees = append(trees, packing.PackingListTree{PackingList: l, Boxes: boxes})
		}
		data.PackingLists = trees
		return nil
	})

	g.Go(func() error {
		collabs, err := decodeAll[show.Collaborator](s.store, ctx, store.Collaborators, showID, "showId")
		data.Collaborators = collabs
		return err
	})

	g.Go(func() error {
		lists, err := decodeAll[shopping.ShoppingList](s.store, ctx, store.ShoppingLists, showID, "showId")
		data.ShoppingLists = lists
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

func (s *ArchiveService) markAssociatedArchived(ctx context.Context, data *AssociatedData, archiveID string, now time.Time) error {
	mark := map[string]any{
		"archived":   true,
		"archiveId":  archiveID,
		"archivedAt": now,
	}

	for _, p := range data.Props {
		if err := s.store.UpdateDocument(ctx, store.Props, p.ID, mark); err != nil {
			return err
		}
	}
	for _, tree := range data.Boards {
		if err := s.store.UpdateDocument(ctx, store.Boards, tree.Board.ID, mark); err != nil {
			return err
		}
	}
	for _, tree := range data.PackingLists {
		if err := s.store.UpdateDocument(ctx, store.PackingLists, tree.PackingList.ID, mark); err != nil {
			return err
		}
	}
	for _, c := range data.Collaborators {
		if err := s.store.UpdateDocument(ctx, store.Collaborators, c.ID, mark); err != nil {
			return err
		}
	}
	for _, l := range data.ShoppingLists {
		if err := s.store.UpdateDocument(ctx, store.ShoppingLists, l.ID, mark); err != nil {
			return err
		}
	}
	return nil
}

// recreateAssociatedData inserts every archived record under the new show id.
// Old identifiers are dropped; boards and packing lists remap their nested
// children onto the freshly generated parent ids.
func (s *ArchiveService) recreateAssociatedData(ctx context.Context, data *AssociatedData, newShowID string, now time.Time) error {
	for _, p := range data.Props {
		p.ID = ""
		p.ShowID = newShowID
		p.Archived = false
		p.ArchiveID = ""
		p.ArchivedAt = nil
		p.Restored = true
		p.RestoredAt = &now
		if _, err := s.store.AddDocument(ctx, store.Props, p); err != nil {
			return err
		}
	}

	for _, tree := range data.Boards {
		b := tree.Board
		b.ID = ""
		b.ShowID = newShowID
		b.Archived = false
		b.ArchiveID = ""
		b.ArchivedAt = nil
		b.Restored = true
		b.RestoredAt = &now
		newBoardID, err := s.store.AddDocument(ctx, store.Boards, b)
		if err != nil {
			return err
		}

		for _, listTree := range tree.Lists {
			l := listTree.List
			l.ID = ""
			l.BoardID = newBoardID
			newListID, err := s.store.AddDocument(ctx, store.Lists, l)
			if err != nil {
				return err
			}

			for _, card := range listTree.Cards {
				card.ID = ""
				card.ListID = newListID
				if _, err := s.store.AddDocument(ctx, store.Cards, card); err != nil {
					return err
				}
			}
		}
	}

	for _, tree := range data.PackingLists {
		pl := tree.PackingList
		pl.ID = ""
		pl.ShowID = newShowID
		pl.Archived = false
		pl.ArchiveID = ""
		pl.ArchivedAt = nil
		pl.Restored = true
		pl.RestoredAt = &now
		newListID, err := s.store.AddDocument(ctx, store.PackingLists, pl)
		if err != nil {
			return err
		}

		for _, box := range tree.Boxes {
			box.ID = ""
			box.PackingListID = newListID
			if _, err := s.store.AddDocument(ctx, store.Boxes, box); err != nil {
				return err
			}
		}
	}

	for _, c := range data.Collaborators {
		c.ID = ""
		c.ShowID = newShowID
		c.Archived = false
		c.ArchiveID = ""
		c.ArchivedAt = nil
		c.Restored = true
		c.RestoredAt = &now
		if _, err := s.store.AddDocument(ctx, store.Collaborators, c); err != nil {
			return err
		}
	}

	for _, l := range data.ShoppingLists {
		l.ID = ""
		l.ShowID = newShowID
		l.Archived = false
		l.ArchiveID = ""
		l.ArchivedAt = nil
		l.Restored = true
		l.RestoredAt = &now
		if _, err := s.store.AddDocument(ctx, store.ShoppingLists, l); err != nil {
			return err
		}
	}

	return nil
}

func (s *ArchiveService) loadShow(ctx context.Context, showID string) (*show.Show, error) {
	doc, err := s.store.GetDocument(ctx, store.Shows, showID)
	if defError.Is(err, store.ErrNotFound) {
		return nil, errors.NotFound("Show not found", err)
	}
	if err != nil {
		return nil, err
	}

	var sh show.Show
	if err := doc.DataTo(&sh); err != nil {
		return nil, err
	}
	sh.ID = doc.ID
	return &sh, nil
}

func (s *ArchiveService) publishEvent(queue string, event events.ShowLifecycleEvent) {
	if s.publisher == nil || s.pool == nil {
		return
	}
	s.pool.Submit(func(ctx context.Context) error {
		return s.publisher.Publish(ctx, queue, event)
	})
}

func buildMetadata(sh *show.Show, data *AssociatedData) Metadata {
	totalTasks := 0
	for _, tree := range data.Boards {
		for _, listTree := range tree.Lists {
			totalTasks += len(listTree.Cards)
		}
	}

	totalBoxes := 0
	for _, tree := range data.PackingLists {
		totalBoxes += len(tree.Boxes)
	}

	return Metadata{
		TotalProps:         len(data.Props),
		TotalTasks:         totalTasks,
		TotalPackingBoxes:  totalBoxes,
		TotalCollaborators: len(data.Collaborators) + len(sh.TeamMembers),
		EstimatedSizeBytes: estimateSize(sh, data),
	}
}

// estimateSize approximates the archive payload as the combined length of
// the serialized show and associated-data tree.
func estimateSize(sh *show.Show, data *AssociatedData) int {
	size := 0
	if raw, err := json.Marshal(sh); err == nil {
		size += len(raw)
	}
	if raw, err := json.Marshal(data); err == nil {
		size += len(raw)
	}
	return size
}

// decodeAll queries a collection by a parent-id field and unmarshals every
// document, keeping the store-assigned id on the decoded value.
func decodeAll[T any](st store.Store, ctx context.Context, collection, parentID, field string) ([]T, error) {
	docs, err := st.GetDocuments(ctx, collection, store.Where(field, "==", parentID))
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, err
		}
		setID(&v, doc.ID)
		out = append(out, v)
	}
	return out, nil
}
