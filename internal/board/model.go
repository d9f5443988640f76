package board

import (
	"time"
)

// Card statuses.
const (
	CardTodo     = "todo"
	CardDone     = "done"
	CardArchived = "archived"
)

// Board is a task board belonging to one show. Lists and cards live in their
// own collections keyed by boardId and listId.
type Board struct {
	ID     string `json:"id,omitempty"`
	ShowID string `json:"showId"`
	Name   string `json:"name"`

	CreatedBy uint64    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Archived   bool       `json:"archived,omitempty"`
	ArchiveID  string     `json:"archiveId,omitempty"`
	ArchivedAt *time.Time `json:"archivedAt,omitempty"`
	Restored   bool       `json:"restored,omitempty"`
	RestoredAt *time.Time `json:"restoredAt,omitempty"`
}

// List is a column on a board
type List struct {
	ID       string `json:"id,omitempty"`
	BoardID  string `json:"boardId"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// Card is a task on a list
type Card struct {
	ID        string     `json:"id,omitempty"`
	ListID    string     `json:"listId"`
	Title     string     `json:"title"`
	Assignees []string   `json:"assignees,omitempty"`
	Status    string     `json:"status"`
	DueDate   *time.Time `json:"dueDate,omitempty"`
	Position  int        `json:"position"`

	CreatedAt time.Time `json:"createdAt"`
}

// BoardTree is a board expanded with its lists and cards
type BoardTree struct {
	Board Board      `json:"board"`
	Lists []ListTree `json:"lists"`
}

type ListTree struct {
	List  List   `json:"list"`
	Cards []Card `json:"cards"`
}
