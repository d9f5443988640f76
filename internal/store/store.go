package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Collections referenced by the application.
const (
	Shows         = "shows"
	Props         = "props"
	Boards        = "todo_boards"
	Lists         = "lists"
	Cards         = "cards"
	PackingLists  = "packing_lists"
	Boxes         = "boxes"
	Collaborators = "collaborators"
	ShoppingLists = "shopping_lists"
	ShowArchives  = "show_archives"
	DeletionLogs  = "deletion_logs"
)

// ErrNotFound is returned when a document does not exist in a collection
var ErrNotFound = errors.New("document not found")

// Document is a single record read back from a collection
type Document struct {
	ID   string
	Data json.RawMessage
}

// DataTo unmarshals the document body into v
func (d *Document) DataTo(v any) error {
	return json.Unmarshal(d.Data, v)
}

// Filter is a single field predicate. Only the "==" operator is supported.
type Filter struct {
	Field string
	Op    string
	Value any
}

// Where builds a filter
func Where(field, op string, value any) Filter {
	return Filter{Field: field, Op: op, Value: value}
}

// Store is the document-store boundary. All domain data except user accounts
// lives behind this interface as schemaless JSON documents keyed by
// (collection, id).
type Store interface {
	AddDocument(ctx context.Context, collection string, data any) (string, error)
	GetDocument(ctx context.Context, collection, id string) (*Document, error)
	GetDocuments(ctx context.Context, collection string, filters ...Filter) ([]Document, error)
	UpdateDocument(ctx context.Context, collection, id string, partial map[string]any) error
	DeleteDocument(ctx context.Context, collection, id string) error
	CountDocuments(ctx context.Context, collection string, filters ...Filter) (int64, error)
}

// Clock supplies timestamps so services can be tested deterministically
type Clock func() time.Time

// IDGenerator supplies identifiers for new documents
type IDGenerator func() string
