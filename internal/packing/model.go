package packing

import (
	"time"
)

// PackingList belongs to one show; boxes live in their own collection keyed
// by packingListId.
type PackingList struct {
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

// PackedProp is a reference to a prop inside a box with the weight captured
// at packing time.
type PackedProp struct {
	PropID string  `json:"propId"`
	Weight float64 `json:"weight,omitempty"`
}

type Box struct {
	ID            string `json:"id,omitempty"`
	PackingListID string `json:"packingListId"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`

	Weight float64      `json:"weight,omitempty"`
	Props  []PackedProp `json:"props,omitempty"`
}

// PackingListTree is a packing list expanded with its boxes
type PackingListTree struct {
	PackingList PackingList `json:"packingList"`
	Boxes       []Box       `json:"boxes"`
}
