package models

import (
	"time"
)

// User represents a seller account synced from the identity provider
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ExternalID string    `gorm:"uniqueIndex;not null" json:"external_id"`
	Email      string    `gorm:"uniqueIndex;not null" json:"email"`
	Name       *string   `gorm:"size:255" json:"name,omitempty"`
	KycStatus  *string   `gorm:"size:50" json:"kyc_status,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// Moderator marks a user as allowed to moderate listings
type Moderator struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (Moderator) TableName() string {
	return "moderators"
}
