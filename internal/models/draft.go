package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WizardStage is one of the six ordered listing-creation stages.
type WizardStage int

const (
	StageAddress WizardStage = iota + 1
	StageDetails
	StagePhotos
	StagePricing
	StagePay
	StageSubmit
)

// Name returns the display name of the stage
func (s WizardStage) Name() string {
	switch s {
	case StageAddress:
		return "Address"
	case StageDetails:
		return "Details"
	case StagePhotos:
		return "Photos"
	case StagePricing:
		return "Pricing"
	case StagePay:
		return "Pay"
	case StageSubmit:
		return "Submit"
	}
	return "Unknown"
}

// ListingDraft is the accumulating wizard state, one active draft per seller.
// ListingID is captured by the first checkpoint and reused by every later one.
type ListingDraft struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	UserID       uint             `gorm:"uniqueIndex;not null" json:"user_id"`
	Stage        WizardStage      `gorm:"not null;default:1" json:"stage"`
	Address      string           `gorm:"size:500" json:"address"`
	Suburb       string           `gorm:"size:255" json:"suburb"`
	State        string           `gorm:"size:100" json:"state"`
	Postcode     string           `gorm:"size:20" json:"postcode"`
	Lat          *float64         `json:"lat,omitempty"`
	Lng          *float64         `json:"lng,omitempty"`
	PropertyType string           `gorm:"size:100" json:"property_type"`
	Beds         *int             `json:"beds,omitempty"`
	Baths        *int             `json:"baths,omitempty"`
	Parking      *int             `json:"parking,omitempty"`
	LandSize     *decimal.Decimal `gorm:"type:decimal(12,2)" json:"land_size,omitempty"`
	Description  string           `gorm:"type:text" json:"description"`
	PhotoKeys    []string         `gorm:"serializer:json" json:"photo_keys"`
	PriceMin     *int64           `json:"price_min,omitempty"`
	PriceMax     *int64           `json:"price_max,omitempty"`
	ListingID    *uuid.UUID       `gorm:"type:uuid;index" json:"listing_id,omitempty"`
	Paid         bool             `gorm:"not null;default:false" json:"paid"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// TableName specifies the table name for ListingDraft model
func (ListingDraft) TableName() string {
	return "listing_drafts"
}
