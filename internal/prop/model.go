package prop

import (
	"time"
)

// Prop statuses, free-form in the source data but validated on input.
const (
	StatusInUse       = "in-use"
	StatusMaintenance = "maintenance"
	StatusRetired     = "retired"
	StatusOnDelivery  = "on-delivery"
	StatusWithMaker   = "with-maker"
	StatusCutFromShow = "cut-from-show"
)

// Image is a single image record on a prop
type Image struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
	IsMain  bool   `json:"isMain"`
}

// Dimensions with a unit field; mixed units are left to the user
type Dimensions struct {
	Length float64 `json:"length,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Unit   string  `json:"unit,omitempty"`
}

type Weight struct {
	Value float64 `json:"value,omitempty"`
	Unit  string  `json:"unit,omitempty"`
}

// Prop belongs to exactly one show and is never independently owned
type Prop struct {
	ID          string `json:"id,omitempty"`
	ShowID      string `json:"showId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Quantity    int    `json:"quantity,omitempty"`

	Dimensions Dimensions `json:"dimensions,omitempty"`
	Weight     Weight     `json:"weight,omitempty"`
	Source     string     `json:"source,omitempty"`
	Status     string     `json:"status,omitempty"`

	Act   int `json:"act,omitempty"`
	Scene int `json:"scene,omitempty"`

	Images        []Image  `json:"images,omitempty"`
	DigitalAssets []string `json:"digitalAssets,omitempty"`
	Videos        []string `json:"videos,omitempty"`

	MaintenanceNotes string `json:"maintenanceNotes,omitempty"`
	SafetyNotes      string `json:"safetyNotes,omitempty"`
	PreShowSetup     string `json:"preShowSetup,omitempty"`
	RentalSource     string `json:"rentalSource,omitempty"`
	RentalDueDate    string `json:"rentalDueDate,omitempty"`
	ReplacementCost  string `json:"replacementCost,omitempty"`

	CreatedBy uint64    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Archived   bool       `json:"archived,omitempty"`
	ArchiveID  string     `json:"archiveId,omitempty"`
	ArchivedAt *time.Time `json:"archivedAt,omitempty"`
	Restored   bool       `json:"restored,omitempty"`
	RestoredAt *time.Time `json:"restoredAt,omitempty"`
}
