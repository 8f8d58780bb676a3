package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"listing-market/internal/auth"
	"listing-market/internal/logger"
	"listing-market/internal/models"
)

// UserService keeps local accounts in sync with the identity provider
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new UserService
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// SyncIdentity finds or creates the local user for an identity-provider profile,
// refreshing email/name when they drift from the provider's values.
func (s *UserService) SyncIdentity(ctx context.Context, identity auth.Identity) (*models.User, error) {
	var user models.User

	result := s.db.WithContext(ctx).Where("external_id = ?", identity.ExternalID).First(&user)

	if result.Error == gorm.ErrRecordNotFound {
		user = models.User{
			ExternalID: identity.ExternalID,
			Email:      identity.Email,
			Name:       identity.Name,
			KycStatus:  nil,
		}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		logger.Log.Infof("New user created: external_id=%s (ID: %d)", identity.ExternalID, user.ID)
		return &user, nil
	}

	if result.Error != nil {
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	if user.Email != identity.Email || !equalName(user.Name, identity.Name) {
		user.Email = identity.Email
		user.Name = identity.Name
		if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to refresh user profile: %w", err)
		}
	}

	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// IsModerator reports whether the user is on the moderation allow-list
func (s *UserService) IsModerator(ctx context.Context, userID uint) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Moderator{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func equalName(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
