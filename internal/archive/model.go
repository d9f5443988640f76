package archive

import (
	"time"

	"theatre-production-manager/internal/board"
	"theatre-production-manager/internal/packing"
	"theatre-production-manager/internal/prop"
	"theatre-production-manager/internal/shopping"
	"theatre-production-manager/internal/show"
)

// AssociatedData is the fully expanded tree of everything referencing a show.
// Boards carry their lists and cards, packing lists carry their boxes.
type AssociatedData struct {
	Props         []prop.Prop               `json:"props"`
	Boards        []board.BoardTree         `json:"todoBoards"`
	PackingLists  []packing.PackingListTree `json:"packingLists"`
	Collaborators []show.Collaborator       `json:"collaborators"`
	ShoppingLists []shopping.ShoppingList   `json:"shoppingLists"`
}

// Metadata is derived at archive time from the associated-data tree. The
// size is the length of the JSON serialization, an approximation rather
// than an exact byte count.
type Metadata struct {
	TotalProps         int `json:"totalProps"`
	TotalTasks         int `json:"totalTasks"`
	TotalPackingBoxes  int `json:"totalPackingBoxes"`
	TotalCollaborators int `json:"totalCollaborators"`
	EstimatedSizeBytes int `json:"estimatedSizeBytes"`
}

// ShowArchive is a point-in-time snapshot of a show and everything attached
// to it.
type ShowArchive struct {
	ID         string    `json:"id,omitempty"`
	ShowID     string    `json:"showId"`
	ArchivedAt time.Time `json:"archivedAt"`
	ArchivedBy uint64    `json:"archivedBy"`

	Show            show.Show      `json:"show"`
	AssociatedData  AssociatedData `json:"associatedData"`
	ArchiveMetadata Metadata       `json:"archiveMetadata"`

	// CanRestore is advisory: it is flipped after a restore completes but
	// nothing re-checks it atomically before a second restore starts.
	CanRestore     bool       `json:"canRestore"`
	LastRestoredAt *time.Time `json:"lastRestoredAt,omitempty"`
	RestoredBy     uint64     `json:"restoredBy,omitempty"`
}

// DeletionLog records a permanent delete
type DeletionLog struct {
	ID                  string    `json:"id,omitempty"`
	ShowID              string    `json:"showId"`
	DeletedBy           uint64    `json:"deletedBy"`
	DeletedAt           time.Time `json:"deletedAt"`
	AssociatedDataCount int       `json:"associatedDataCount"`
}
