package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_AddAndGet(t *testing.T) {
	st := NewMemoryStore(nil)
	ctx := context.Background()

	id, err := st.AddDocument(ctx, Props, map[string]any{"name": "Sword", "showId": "s1"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := st.GetDocument(ctx, Props, id)
	require.NoError(t, err)

	var decoded struct {
		Name   string `json:"name"`
		ShowID string `json:"showId"`
	}
	require.NoError(t, doc.DataTo(&decoded))
	assert.Equal(t, "Sword", decoded.Name)
	assert.Equal(t, "s1", decoded.ShowID)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	st := NewMemoryStore(nil)

	_, err := st.GetDocument(context.Background(), Props, "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStore_FilterAndCount(t *testing.T) {
	st := NewMemoryStore(nil)
	ctx := context.Background()

	for _, showID := range []string{"s1", "s1", "s2"} {
		_, err := st.AddDocument(ctx, Props, map[string]any{"showId": showID})
		require.NoError(t, err)
	}

	docs, err := st.GetDocuments(ctx, Props, Where("showId", "==", "s1"))
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	count, err := st.CountDocuments(ctx, Props, Where("showId", "==", "s2"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// absent field never matches
	docs, err = st.GetDocuments(ctx, Props, Where("missing", "==", "x"))
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestMemoryStore_FilterNumericValue(t *testing.T) {
	st := NewMemoryStore(nil)
	ctx := context.Background()

	_, err := st.AddDocument(ctx, ShowArchives, map[string]any{"archivedBy": uint64(42)})
	require.NoError(t, err)

	// numbers survive the json round trip and still match as text
	count, err := st.CountDocuments(ctx, ShowArchives, Where("archivedBy", "==", uint64(42)))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemoryStore_UpdateMergesShallow(t *testing.T) {
	st := NewMemoryStore(nil)
	ctx := context.Background()

	id, err := st.AddDocument(ctx, Shows, map[string]any{"name": "Hamlet", "status": "active"})
	require.NoError(t, err)

	err = st.UpdateDocument(ctx, Shows, id, map[string]any{"status": "archived", "archiveId": "a1"})
	require.NoError(t, err)

	doc, err := st.GetDocument(ctx, Shows, id)
	require.NoError(t, err)

	var decoded struct {
		Name      string `json:"name"`
		Status    string `json:"status"`
		ArchiveID string `json:"archiveId"`
	}
	require.NoError(t, doc.DataTo(&decoded))
	assert.Equal(t, "Hamlet", decoded.Name)
	assert.Equal(t, "archived", decoded.Status)
	assert.Equal(t, "a1", decoded.ArchiveID)
}

func TestMemoryStore_UpdateMissing(t *testing.T) {
	st := NewMemoryStore(nil)

	err := st.UpdateDocument(context.Background(), Shows, "nope", map[string]any{"status": "archived"})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStore_DeleteIsIdempotent(t *testing.T) {
	st := NewMemoryStore(nil)
	ctx := context.Background()

	id, err := st.AddDocument(ctx, Shows, map[string]any{"name": "Macbeth"})
	require.NoError(t, err)

	require.NoError(t, st.DeleteDocument(ctx, Shows, id))
	require.NoError(t, st.DeleteDocument(ctx, Shows, id))

	_, err = st.GetDocument(ctx, Shows, id)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStore_UnsupportedOperator(t *testing.T) {
	st := NewMemoryStore(nil)

	_, err := st.GetDocuments(context.Background(), Props, Where("showId", ">", "s1"))
	assert.Error(t, err)
}
