package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"listing-market/internal/logger"
	"listing-market/internal/models"
)

// ModerationService handles the review queue and listing status transitions.
// Moderation moves REVIEW listings to LIVE or REJECTED; owners may pause,
// resume or mark a published listing sold.
type ModerationService struct {
	db *gorm.DB
}

// NewModerationService creates a new ModerationService
func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{db: db}
}

// ReviewQueue returns listings awaiting moderation, oldest first
func (s *ModerationService) ReviewQueue(ctx context.Context, limit, offset int) ([]*models.Listing, int64, error) {
	if limit < 1 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	base := s.db.WithContext(ctx).Model(&models.Listing{}).
		Where("status = ? AND paid = ?", models.ListingStatusReview, true)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var listings []*models.Listing
	err := s.db.WithContext(ctx).
		Where("status = ? AND paid = ?", models.ListingStatusReview, true).
		Preload("Property").
		Preload("User").
		Order("updated_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&listings).Error
	if err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}

// Moderate applies a moderation decision to a listing under review
func (s *ModerationService) Moderate(ctx context.Context, listingID uuid.UUID, approve bool) error {
	var listing models.Listing
	err := s.db.WithContext(ctx).Where("id = ?", listingID).First(&listing).Error
	if err == gorm.ErrRecordNotFound {
		return ErrListingNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load listing: %w", err)
	}

	if listing.Status != models.ListingStatusReview {
		return ErrInvalidTransition
	}

	next := models.ListingStatusRejected
	if approve {
		next = models.ListingStatusLive
	}

	if err := s.db.WithContext(ctx).Model(&listing).Update("status", next).Error; err != nil {
		return fmt.Errorf("failed to moderate listing: %w", err)
	}

	logger.Log.Infof("Listing %s moderated: %s", listingID, next)
	return nil
}

// ownerTransitions are the status changes a seller may apply directly
var ownerTransitions = map[models.ListingStatus][]models.ListingStatus{
	models.ListingStatusLive:   {models.ListingStatusPaused, models.ListingStatusSold},
	models.ListingStatusPaused: {models.ListingStatusLive},
}

// SetOwnerStatus applies an owner-driven status change (pause, resume, sold)
func (s *ModerationService) SetOwnerStatus(ctx context.Context, userID uint, listingID uuid.UUID, target models.ListingStatus) error {
	var listing models.Listing
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", listingID, userID).First(&listing).Error
	if err == gorm.ErrRecordNotFound {
		return ErrListingNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load listing: %w", err)
	}

	allowed := false
	for _, next := range ownerTransitions[listing.Status] {
		if next == target {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrInvalidTransition
	}

	if err := s.db.WithContext(ctx).Model(&listing).Update("status", target).Error; err != nil {
		return fmt.Errorf("failed to update listing status: %w", err)
	}
	return nil
}

// PlatformStats summarizes the marketplace for the moderation dashboard
type PlatformStats struct {
	ListingsByStatus map[models.ListingStatus]int64 `json:"listings_by_status"`
	TotalProperties  int64                          `json:"total_properties"`
	TotalUsers       int64                          `json:"total_users"`
	AverageAsking    decimal.Decimal                `json:"average_asking_price"`
}

// GetPlatformStats computes listing counts by status and the average asking
// price (midpoint of the range) across published listings.
func (s *ModerationService) GetPlatformStats(ctx context.Context) (*PlatformStats, error) {
	stats := &PlatformStats{
		ListingsByStatus: make(map[models.ListingStatus]int64),
		AverageAsking:    decimal.Zero,
	}

	type statusCount struct {
		Status models.ListingStatus
		Count  int64
	}
	var counts []statusCount
	err := s.db.WithContext(ctx).Model(&models.Listing{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		stats.ListingsByStatus[c.Status] = c.Count
	}

	if err := s.db.WithContext(ctx).Model(&models.Property{}).Count(&stats.TotalProperties).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}

	var listings []models.Listing
	err = s.db.WithContext(ctx).
		Where("status = ? AND price_min IS NOT NULL AND price_max IS NOT NULL", models.ListingStatusLive).
		Find(&listings).Error
	if err != nil {
		return nil, err
	}

	if len(listings) > 0 {
		sum := decimal.Zero
		for _, l := range listings {
			mid := decimal.NewFromInt(*l.PriceMin).Add(decimal.NewFromInt(*l.PriceMax)).Div(decimal.NewFromInt(2))
			sum = sum.Add(mid)
		}
		stats.AverageAsking = sum.Div(decimal.NewFromInt(int64(len(listings)))).Round(2)
	}

	return stats, nil
}
