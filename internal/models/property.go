package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Property represents the physical parcel a listing is attached to.
// Properties are shared: repeat listings at the same address reuse the row.
type Property struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	Address      string           `gorm:"size:500;not null;index:idx_property_identity" json:"address"`
	Suburb       string           `gorm:"size:255;not null;index:idx_property_identity" json:"suburb"`
	State        string           `gorm:"size:100;not null;index:idx_property_identity" json:"state"`
	Postcode     string           `gorm:"size:20" json:"postcode"`
	Lat          *float64         `json:"lat,omitempty"`
	Lng          *float64         `json:"lng,omitempty"`
	PropertyType string           `gorm:"size:100;index" json:"property_type"`
	Beds         *int             `json:"beds,omitempty"`
	Baths        *int             `json:"baths,omitempty"`
	Parking      *int             `json:"parking,omitempty"`
	LandSize     *decimal.Decimal `gorm:"type:decimal(12,2)" json:"land_size,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// TableName specifies the table name for Property model
func (Property) TableName() string {
	return "properties"
}
