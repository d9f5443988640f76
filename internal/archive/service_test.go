package archive

import (
	"context"
	defError "errors"
	"fmt"
	"io"
	"testing"
	"time"

	"theatre-production-manager/internal/board"
	"theatre-production-manager/internal/packing"
	"theatre-production-manager/internal/prop"
	"theatre-production-manager/internal/show"
	"theatre-production-manager/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func sequentialIDs() store.IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("doc-%d", n)
	}
}

func newTestService(st store.Store) Service {
	return NewService(st, testLogger(), func() time.Time { return fixedTime }, nil, nil)
}

// seedShow builds a show with 2 props, 1 board holding 1 list with 2 cards,
// 1 packing list with 2 boxes, 1 collaborator and 1 shopping list.
func seedShow(t *testing.T, st store.Store, userID uint64) (showID string) {
	t.Helper()
	ctx := context.Background()

	showID, err := st.AddDocument(ctx, store.Shows, show.Show{
		UserID: userID,
		Name:   "The Tempest",
		Status: show.StatusActive,
		TeamMembers: []show.TeamMember{
			{Email: "sm@example.com", Role: "stage-manager"},
		},
	})
	require.NoError(t, err)

	for _, name := range []string{"Prospero's staff", "Magic book"} {
		_, err := st.AddDocument(ctx, store.Props, prop.Prop{ShowID: showID, Name: name, Status: prop.StatusInUse})
		require.NoError(t, err)
	}

	boardID, err := st.AddDocument(ctx, store.Boards, board.Board{ShowID: showID, Name: "Build tasks"})
	require.NoError(t, err)
	listID, err := st.AddDocument(ctx, store.Lists, board.List{BoardID: boardID, Name: "To do"})
	require.NoError(t, err)
	for _, title := range []string{"Paint staff", "Age the book"} {
		_, err := st.AddDocument(ctx, store.Cards, board.Card{ListID: listID, Title: title, Status: board.CardTodo})
		require.NoError(t, err)
	}

	packingListID, err := st.AddDocument(ctx, store.PackingLists, packing.PackingList{ShowID: showID, Name: "Tour crates"})
	require.NoError(t, err)
	for _, name := range []string{"Crate A", "Crate B"} {
		_, err := st.AddDocument(ctx, store.Boxes, packing.Box{PackingListID: packingListID, Name: name})
		require.NoError(t, err)
	}

	_, err = st.AddDocument(ctx, store.Collaborators, show.Collaborator{ShowID: showID, UserID: 7, Email: "props@example.com", Role: "editor"})
	require.NoError(t, err)

	_, err = st.AddDocument(ctx, store.ShoppingLists, map[string]any{"showId": showID, "name": "Hardware run"})
	require.NoError(t, err)

	return showID
}

func TestArchiveShow_QuotaExceededBeforeAnyRead(t *testing.T) {
	st := store.NewMemoryStore(sequentialIDs())
	ctx := context.Background()

	// two archives already held by the user
	for i := 0; i < 2; i++ {
		_, err := st.AddDocument(ctx, store.ShowArchives, ShowArchive{ShowID: fmt.Sprintf("old-%d", i), ArchivedBy: 1})
		require.NoError(t, err)
	}

	tracked := &trackingStore{Store: st}
	service := newTestService(tracked)

	_, err := service.ArchiveShow(ctx, "some-show", 1, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2", "rejection message must carry the numeric limit")

	// the show itself was never read and nothing was written
	assert.Empty(t, tracked.gets)
	assert.Zero(t, tracked.writes)
}

func TestArchiveShow_SnapshotAndMetadata(t *testing.T) {
	st := store.NewMemoryStore(sequentialIDs())
	ctx := context.Background()
	showID := seedShow(t, st, 1)

	service := newTestService(st)

	archiveID, err := service.ArchiveShow(ctx, showID, 1, 5)
	require.NoError(t, err)
	require.NotEmpty(t, archiveID)

	doc, err := st.GetDocument(ctx, store.ShowArchives, archiveID)
	require.NoError(t, err)
	var record ShowArchive
	require.NoError(t, doc.DataTo(&record))

	assert.Equal(t, showID, record.ShowID)
	assert.Equal(t, uint64(1), record.ArchivedBy)
	assert.True(t, record.CanRestore)
	assert.Equal(t, fixedTime, record.ArchivedAt)

	meta := record.ArchiveMetadata
	assert.Equal(t, 2, meta.TotalProps)
	assert.Equal(t, 2, meta.TotalTasks)
	assert.Equal(t, 2, meta.TotalPackingBoxes)
	// 1 collaborator row + 1 inline team member
	assert.Equal(t, 2, meta.TotalCollaborators)
	assert.Greater(t, meta.EstimatedSizeBytes, 0)
}

func TestArchiveShow_SideEffects(t *testing.T) {
	st := store.NewMemoryStore(sequentialIDs())
	ctx := context.Background()
	showID := seedShow(t, st, 1)

	service := newTestService(st)

	archiveID, err := service.ArchiveShow(ctx, showID, 1, 5)
	require.NoError(t, err)

	doc, err := st.GetDocument(ctx, store.Shows, showID)
	require.NoError(t, err)
	var sh show.Show
	require.NoError(t, doc.DataTo(&sh))
	assert.Equal(t, show.StatusArchived, sh.Status)
	assert.Equal(t, archiveID, sh.ArchiveID)
	assert.Equal(t, uint64(1), sh.ArchivedBy)

	// every top-level associated row is soft-deleted with a back reference
	for _, collection := range []string{store.Props, store.Boards, store.PackingLists, store.Collaborators, store.ShoppingLists} {
		docs, err := st.GetDocuments(ctx, collection, store.Where("showId", "==", showID))
		require.NoError(t, err)
		require.NotEmpty(t, docs, collection)
		for _, d := range docs {
			var marked struct {
				Archived  bool   `json:"archived"`
				ArchiveID string `json:"archiveId"`
			}
			require.NoError(t, d.DataTo(&marked))
			assert.True(t, marked.Archived, collection)
			assert.Equal(t, archiveID, marked.ArchiveID, collection)
		}
	}

	// nested lists, cards and boxes are not individually marked
	listDocs, err := st.GetDocuments(ctx, store.Lists)
	require.NoError(t, err)
	for _, d := range listDocs {
		var marked struct {
			Archived bool `json:"archived"`
		}
		require.NoError(t, d.DataTo(&marked))
		assert.False(t, marked.Archived)
	}
}

func TestArchiveShow_ShowNotFound(t *testing.T) {
	st := store.NewMemoryStore(sequentialIDs())
	service := newTestService(st)

	_, err := service.ArchiveShow(context.Background(), "missing", 1, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRestoreShow_NewIdentityAndStatus(t *testing.T) {
	st := store.NewMemoryStore(sequentialIDs())
	ctx := context.Background()
	showID := seedShow(t, st, 1)
	service := newTestService(st)

	archiveID, err := service.ArchiveShow(ctx, showID, 1, 5)
	require.NoError(t, err)

	newShowID, err := service.RestoreShow(ctx, archiveID, 1)
	require.NoError(t, err)
	assert.NotEqual(t, showID, newShowID)

	doc, err := st.GetDocument(ctx, store.Shows, newShowID)
	require.NoError(t, err)
	var restored show.Show
	require.NoError(t, doc.DataTo(&restored))
	assert.Equal(t, show.StatusCompleted, restored.Status)
	assert.Empty(t, restored.ArchiveID)
	assert.Equal(t, uint64(1), restored.RestoredBy)
}

func TestRestoreShow_ReparentsChildren(t *testing.T) {
	st := store.NewMemoryStore(sequentialIDs())
	ctx := context.Background()
	showID := seedShow(t, st, 1)
	service := newTestService(st)

	archiveID, err := service.ArchiveShow(ctx, showID, 1, 5)
	require.NoError(t, err)

	newShowID, err := service.RestoreShow(ctx, archiveID, 1)
	require.NoError(t, err)

	propDocs, err := st.GetDocuments(ctx, store.Props, store.Where("showId", "==", newShowID))
	require.NoError(t, err)
	assert.Len(t, propDocs, 2)
	for _, d := range propDocs {
		var p prop.Prop
		require.NoError(t, d.DataTo(&p))
		assert.Equal(t, newShowID, p.ShowID)
		assert.True(t, p.Restored)
		assert.False(t, p.Archived)
	}

	// board -> list -> card identifier remap
	boardDocs, err := st.GetDocuments(ctx, store.Boards, store.Where("showId", "==", newShowID))
	require.NoError(t, err)
	require.Len(t, boardDocs, 1)

	listDocs, err := st.GetDocuments(ctx, store.Lists, store.Where("boardId", "==", boardDocs[0].ID))
	require.NoError(t, err)
	require.Len(t, listDocs, 1)

	cardDocs, err := st.GetDocuments(ctx, store.Cards, store.Where("listId", "==", listDocs[0].ID))
	require.NoError(t, err)
	assert.Len(t, cardDocs, 2)

	// packing list -> box remap
	packingDocs, err := st.GetDocuments(ctx, store.PackingLists, store.Where("showId", "==", newShowID))
	require.NoError(t, err)
	require.Len(t, packingDocs, 1)

	boxDocs, err := st.GetDocuments(ctx, store.Boxes, store.Where("packingListId", "==", packingDocs[0].ID))
	require.NoError(t, err)
	assert.Len(t, boxDocs, 2)

	// archive restoration info flipped
	record, err := service.GetArchive(ctx, archiveID)
	require.NoError(t, err)
	assert.False(t, record.CanRestore)
	assert.Equal(t, uint64(1), record.RestoredBy)
}

func TestRestoreShow_ArchiveNotFound(t *testing.T) {
	st := store.NewMemoryStore(sequentialIDs())
	service := newTestService(st)

	_, err := service.RestoreShow(context.Background(), "missing", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

// Restore is single-use by intent only: the canRestore flag is advisory and
// a second call happily produces a second show. This pins down current
// behavior, it does not endorse it.
func TestRestoreShow_TwiceProducesTwoShows(t *testing.T) {
	st := store.NewMemoryStore(sequentialIDs())
	ctx := context.Background()
	showID := seedShow(t, st, 1)
	service := newTestService(st)

	archiveID, err := service.ArchiveShow(ctx, showID, 1, 5)
	require.NoError(t, err)

	first, err := service.RestoreShow(ctx, archiveID, 1)
	require.NoError(t, err)
	second, err := service.RestoreShow(ctx, archiveID, 1)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	for _, id := range []string{first, second} {
		_, err := st.GetDocument(ctx, store.Shows, id)
		assert.NoError(t, err)
	}
}

func TestPermanentlyDeleteShow_RemovesRootAndLogs(t *testing.T) {
	st := store.NewMemoryStore(sequentialIDs())
	ctx := context.Background()
	showID := seedShow(t, st, 1)
	service := newTestService(st)

	require.NoError(t, service.PermanentlyDeleteShow(ctx, showID, 1))

	_, err := st.GetDocument(ctx, store.Shows, showID)
	assert.True(t, defError.Is(err, store.ErrNotFound))

	logs, err := st.GetDocuments(ctx, store.DeletionLogs, store.Where("showId", "==", showID))
	require.NoError(t, err)
	require.Len(t, logs, 1)

	var entry DeletionLog
	require.NoError(t, logs[0].DataTo(&entry))
	assert.Equal(t, uint64(1), entry.DeletedBy)
	// 2 props + 1 board + 1 packing list + 1 collaborator + 1 shopping list
	assert.Equal(t, 6, entry.AssociatedDataCount)
}

// Permanent delete enumerates top-level collections only; lists, cards and
// boxes survive as orphans. Pinned as current behavior, see DESIGN.md.
func TestPermanentlyDeleteShow_ShallowDeleteLeavesNestedRows(t *testing.T) {
	st := store.NewMemoryStore(sequentialIDs())
	ctx := context.Background()
	showID := seedShow(t, st, 1)
	service := newTestService(st)

	require.NoError(t, service.PermanentlyDeleteShow(ctx, showID, 1))

	for collection, want := range map[string]int{
		store.Lists: 1,
		store.Cards: 2,
		store.Boxes: 2,
	} {
		docs, err := st.GetDocuments(ctx, collection)
		require.NoError(t, err)
		assert.Len(t, docs, want, collection)
	}
}

func TestPermanentlyDeleteShow_FailFast(t *testing.T) {
	st := store.NewMemoryStore(sequentialIDs())
	ctx := context.Background()
	showID := seedShow(t, st, 1)

	boom := defError.New("store exploded")
	failing := &failingDeleteStore{Store: st, failAt: 3, err: boom}
	service := newTestService(failing)

	err := service.PermanentlyDeleteShow(ctx, showID, 1)
	require.ErrorIs(t, err, boom)

	// no deletion log when the fan-out aborts
	logs, err := st.GetDocuments(ctx, store.DeletionLogs)
	require.NoError(t, err)
	assert.Empty(t, logs)

	// the show row survives because the fan-out never reached it
	_, err = st.GetDocument(ctx, store.Shows, showID)
	assert.NoError(t, err)
}

// trackingStore records reads and writes so tests can assert ordering
// guarantees like "quota check happens first".
type trackingStore struct {
	store.Store
	gets   []string
	writes int
}

func (s *trackingStore) GetDocument(ctx context.Context, collection, id string) (*store.Document, error) {
	s.gets = append(s.gets, collection)
	return s.Store.GetDocument(ctx, collection, id)
}

func (s *trackingStore) AddDocument(ctx context.Context, collection string, data any) (string, error) {
	s.writes++
	return s.Store.AddDocument(ctx, collection, data)
}

func (s *trackingStore) UpdateDocument(ctx context.Context, collection, id string, partial map[string]any) error {
	s.writes++
	return s.Store.UpdateDocument(ctx, collection, id, partial)
}

func (s *trackingStore) DeleteDocument(ctx context.Context, collection, id string) error {
	s.writes++
	return s.Store.DeleteDocument(ctx, collection, id)
}

// failingDeleteStore rejects the n-th delete call
type failingDeleteStore struct {
	store.Store
	failAt int
	calls  int
	err    error
}

func (s *failingDeleteStore) DeleteDocument(ctx context.Context, collection, id string) error {
	s.calls++
	if s.calls == s.failAt {
		return s.err
	}
	return s.Store.DeleteDocument(ctx, collection, id)
}
