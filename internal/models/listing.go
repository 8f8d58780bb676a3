package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListingStatus string

const (
	ListingStatusReview   ListingStatus = "REVIEW"
	ListingStatusLive     ListingStatus = "LIVE"
	ListingStatusPaused   ListingStatus = "PAUSED"
	ListingStatusRejected ListingStatus = "REJECTED"
	ListingStatusSold     ListingStatus = "SOLD"
)

// Listing represents a sale offer for a property by a seller.
// Status moves out of REVIEW only through moderation, never in-process.
type Listing struct {
	ID                uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	PropertyID        uint          `gorm:"not null;index" json:"property_id"`
	Property          *Property     `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	UserID            uint          `gorm:"not null;index" json:"user_id"`
	User              *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Description       string        `gorm:"type:text" json:"description"`
	PhotoKeys         []string      `gorm:"serializer:json" json:"photo_keys"`
	PriceMin          *int64        `json:"price_min,omitempty"`
	PriceMax          *int64        `json:"price_max,omitempty"`
	Paid              bool          `gorm:"not null;default:false" json:"paid"`
	OwnershipVerified bool          `gorm:"not null;default:false" json:"ownership_verified"`
	Status            ListingStatus `gorm:"size:50;not null;default:'REVIEW';index" json:"status"`
	CreatedAt         time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// TableName specifies the table name for Listing model
func (Listing) TableName() string {
	return "listings"
}

// BeforeCreate assigns the listing id when the caller has not
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// PaymentEvent records a processed payment-processor notification.
// Duplicate deliveries for a listing are recorded, never re-applied.
type PaymentEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   string    `gorm:"size:255;uniqueIndex;not null" json:"event_id"`
	ListingID uuid.UUID `gorm:"type:uuid;not null;index" json:"listing_id"`
	EventType string    `gorm:"size:100;not null" json:"event_type"`
	CreatedAt time.Time `json:"created_at"`
}

func (PaymentEvent) TableName() string {
	return "payment_events"
}
