package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

type memoryDoc struct {
	id   string
	data json.RawMessage
}

// MemoryStore is a map-backed Store used by tests and local development when
// no database is reachable. Documents keep insertion order per collection.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]*memoryDoc
	idGen       IDGenerator
}

// NewMemoryStore creates an in-memory document store. A nil idGen falls back
// to random uuids.
func NewMemoryStore(idGen IDGenerator) *MemoryStore {
	if idGen == nil {
		idGen = func() string { return uuid.NewString() }
	}
	return &MemoryStore{
		collections: make(map[string][]*memoryDoc),
		idGen:       idGen,
	}
}

func (s *MemoryStore) AddDocument(ctx context.Context, collection string, data any) (string, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := &memoryDoc{id: s.idGen(), data: body}
	s.collections[collection] = append(s.collections[collection], doc)
	return doc.id, nil
}

func (s *MemoryStore) GetDocument(ctx context.Context, collection, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, doc := range s.collections[collection] {
		if doc.id == id {
			return &Document{ID: doc.id, Data: doc.data}, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetDocuments(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var documents []Document
	for _, doc := range s.collections[collection] {
		ok, err := matches(doc.data, filters)
		if err != nil {
			return nil, err
		}
		if ok {
			documents = append(documents, Document{ID: doc.id, Data: doc.data})
		}
	}
	return documents, nil
}

func (s *MemoryStore) UpdateDocument(ctx context.Context, collection, id string, partial map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range s.collections[collection] {
		if doc.id != id {
			continue
		}

		var merged map[string]any
		if err := json.Unmarshal(doc.data, &merged); err != nil {
			return err
		}
		for field, value := range partial {
			merged[field] = value
		}
		body, err := json.Marshal(merged)
		if err != nil {
			return err
		}
		doc.data = body
		return nil
	}
	return ErrNotFound
}

func (s *MemoryStore) DeleteDocument(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	for i, doc := range docs {
		if doc.id == id {
			s.collections[collection] = append(docs[:i], docs[i+1:]...)
			return nil
		}
	}
	// deleting an absent document is not an error, matching the sql adapter
	return nil
}

func (s *MemoryStore) CountDocuments(ctx context.Context, collection string, filters ...Filter) (int64, error) {
	documents, err := s.GetDocuments(ctx, collection, filters...)
	if err != nil {
		return 0, err
	}
	return int64(len(documents)), nil
}

// matches applies filters the way the jsonb adapter does: text comparison on
// the top-level field, absent fields never match.
func matches(data json.RawMessage, filters []Filter) (bool, error) {
	if len(filters) == 0 {
		return true, nil
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return false, err
	}

	for _, f := range filters {
		if f.Op != "==" {
			return false, fmt.Errorf("unsupported filter operator %q", f.Op)
		}
		value, ok := fields[f.Field]
		if !ok || value == nil {
			return false, nil
		}
		if fmt.Sprint(value) != fmt.Sprint(f.Value) {
			return false, nil
		}
	}
	return true, nil
}
