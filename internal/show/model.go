package show

import (
	"time"
)

// Lifecycle statuses for a show.
const (
	StatusActive    = "active"
	StatusArchived  = "archived"
	StatusDeleted   = "deleted"
	StatusCompleted = "completed" // restored shows land here, never on active
)

// ContactInfo is a personnel entry (stage manager, props supervisor, ...)
type ContactInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Scene struct {
	Name string `json:"name"`
}

type Act struct {
	Name   string  `json:"name"`
	Scenes []Scene `json:"scenes"`
}

// TeamMember is an inline team record on the show itself, distinct from the
// collaborators collection.
type TeamMember struct {
	Email   string    `json:"email"`
	Role    string    `json:"role"`
	AddedBy uint64    `json:"addedBy"`
	AddedAt time.Time `json:"addedAt"`
}

// Show is the root aggregate. Props, boards, packing lists, collaborators and
// shopping lists reference it by showId.
type Show struct {
	ID          string `json:"id,omitempty"`
	UserID      uint64 `json:"userId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Venue     string     `json:"venue,omitempty"`
	Address   string     `json:"address,omitempty"`

	StageManager      ContactInfo `json:"stageManager,omitempty"`
	PropsSupervisor   ContactInfo `json:"propsSupervisor,omitempty"`
	ProductionContact ContactInfo `json:"productionContact,omitempty"`

	IsTouringShow bool         `json:"isTouringShow"`
	Acts          []Act        `json:"acts,omitempty"`
	TeamMembers   []TeamMember `json:"teamMembers,omitempty"`

	Status    string `json:"status"`
	ArchiveID string `json:"archiveId,omitempty"`

	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	ArchivedAt *time.Time `json:"archivedAt,omitempty"`
	ArchivedBy uint64     `json:"archivedBy,omitempty"`
	RestoredAt *time.Time `json:"restoredAt,omitempty"`
	RestoredBy uint64     `json:"restoredBy,omitempty"`
}

// Collaborator is a row in the collaborators collection granting a user edit
// or read rights on a show.
type Collaborator struct {
	ID      string    `json:"id,omitempty"`
	ShowID  string    `json:"showId"`
	UserID  uint64    `json:"userId"`
	Email   string    `json:"email"`
	Role    string    `json:"role"` // editor or viewer
	AddedBy uint64    `json:"addedBy"`
	AddedAt time.Time `json:"addedAt"`

	Archived   bool       `json:"archived,omitempty"`
	ArchiveID  string     `json:"archiveId,omitempty"`
	ArchivedAt *time.Time `json:"archivedAt,omitempty"`
	Restored   bool       `json:"restored,omitempty"`
	RestoredAt *time.Time `json:"restoredAt,omitempty"`
}
