package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"listing-market/internal/logger"
	"listing-market/internal/models"
	"listing-market/internal/repository"
)

// ListingNotifier sends seller notifications. Nil-safe at the call sites so
// tests and the wizard can run without an email backend.
type ListingNotifier interface {
	SendListingSubmitted(toEmail, listingAddress string) error
}

// ListingService owns listing persistence: wizard checkpoints, ownership-scoped
// reads, the payment flag, and submission for moderation.
type ListingService struct {
	repo     *repository.Repository
	notifier ListingNotifier
}

// NewListingService creates a new ListingService
func NewListingService(repo *repository.Repository, notifier ListingNotifier) *ListingService {
	return &ListingService{repo: repo, notifier: notifier}
}

// CheckpointCreate flushes a draft to storage for the first time: the property
// is found or created by its (address, suburb, state) identity, then a new
// listing is created in REVIEW with payment unset.
func (s *ListingService) CheckpointCreate(ctx context.Context, userID uint, draft *models.ListingDraft) (uuid.UUID, error) {
	property, err := s.upsertProperty(ctx, draft)
	if err != nil {
		return uuid.Nil, err
	}

	listing := &models.Listing{
		ID:                uuid.New(),
		PropertyID:        property.ID,
		UserID:            userID,
		Description:       draft.Description,
		PhotoKeys:         draft.PhotoKeys,
		PriceMin:          draft.PriceMin,
		PriceMax:          draft.PriceMax,
		Paid:              false,
		OwnershipVerified: false,
		Status:            models.ListingStatusReview,
	}

	if err := s.repo.CreateListing(ctx, listing); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create listing: %w", err)
	}

	return listing.ID, nil
}

// CheckpointUpdate flushes a draft into its existing listing. The property is
// refreshed in place; non-owners are told not-found.
func (s *ListingService) CheckpointUpdate(ctx context.Context, userID uint, listingID uuid.UUID, draft *models.ListingDraft) error {
	listing, err := s.repo.GetOwnedListing(ctx, listingID, userID)
	if err == gorm.ErrRecordNotFound {
		return ErrListingNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load listing: %w", err)
	}

	if _, err := s.upsertProperty(ctx, draft); err != nil {
		return err
	}

	listing.Description = draft.Description
	listing.PhotoKeys = draft.PhotoKeys
	listing.PriceMin = draft.PriceMin
	listing.PriceMax = draft.PriceMax

	if err := s.repo.UpdateListing(ctx, listing); err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	return nil
}

// upsertProperty implements the find-or-create-then-update property identity rule
func (s *ListingService) upsertProperty(ctx context.Context, draft *models.ListingDraft) (*models.Property, error) {
	property, err := s.repo.FindPropertyByIdentity(ctx, draft.Address, draft.Suburb, draft.State)
	if err != nil {
		return nil, fmt.Errorf("failed to look up property: %w", err)
	}

	if property == nil {
		property = &models.Property{
			Address:      draft.Address,
			Suburb:       draft.Suburb,
			State:        draft.State,
			Postcode:     draft.Postcode,
			Lat:          draft.Lat,
			Lng:          draft.Lng,
			PropertyType: draft.PropertyType,
			Beds:         draft.Beds,
			Baths:        draft.Baths,
			Parking:      draft.Parking,
			LandSize:     draft.LandSize,
		}
		if err := s.repo.CreateProperty(ctx, property); err != nil {
			return nil, fmt.Errorf("failed to create property: %w", err)
		}
		return property, nil
	}

	// Shared row: only overwrite with values the draft actually has
	if draft.Lat != nil {
		property.Lat = draft.Lat
	}
	if draft.Lng != nil {
		property.Lng = draft.Lng
	}
	if draft.PropertyType != "" {
		property.PropertyType = draft.PropertyType
	}
	if draft.Beds != nil {
		property.Beds = draft.Beds
	}
	if draft.Baths != nil {
		property.Baths = draft.Baths
	}
	if draft.Parking != nil {
		property.Parking = draft.Parking
	}
	if draft.LandSize != nil {
		property.LandSize = draft.LandSize
	}
	if draft.Postcode != "" {
		property.Postcode = draft.Postcode
	}

	if err := s.repo.UpdateProperty(ctx, property); err != nil {
		return nil, fmt.Errorf("failed to update property: %w", err)
	}
	return property, nil
}

// Submit moves an owned, paid listing into moderation. Setting REVIEW on an
// already-REVIEW listing is a no-op, so retries are safe.
func (s *ListingService) Submit(ctx context.Context, userID uint, listingID uuid.UUID) error {
	listing, err := s.repo.GetOwnedListing(ctx, listingID, userID)
	if err == gorm.ErrRecordNotFound {
		return ErrListingNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load listing: %w", err)
	}

	if !listing.Paid {
		return ErrPaymentRequired
	}

	if listing.Status != models.ListingStatusReview {
		listing.Status = models.ListingStatusReview
		if err := s.repo.UpdateListing(ctx, listing); err != nil {
			return fmt.Errorf("failed to submit listing: %w", err)
		}
	}

	s.notifySubmitted(ctx, userID, listing)
	return nil
}

func (s *ListingService) notifySubmitted(ctx context.Context, userID uint, listing *models.Listing) {
	if s.notifier == nil {
		return
	}

	var user models.User
	if err := s.repo.DB().WithContext(ctx).First(&user, userID).Error; err != nil {
		logger.Log.Warnf("Could not load user %d for submission email: %v", userID, err)
		return
	}

	address := ""
	if listing.Property != nil {
		address = listing.Property.Address
	}

	if err := s.notifier.SendListingSubmitted(user.Email, address); err != nil {
		logger.Log.Warnf("Failed to send submission email to %s: %v", user.Email, err)
	}
}

// MarkPaid sets the payment flag exactly once. Duplicate notifications for the
// same listing leave the flag true and never error.
func (s *ListingService) MarkPaid(ctx context.Context, listingID uuid.UUID) error {
	listing, err := s.repo.GetListingByID(ctx, listingID)
	if err == gorm.ErrRecordNotFound {
		return ErrListingNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load listing: %w", err)
	}

	if listing.Paid {
		return nil
	}

	listing.Paid = true
	if err := s.repo.UpdateListing(ctx, listing); err != nil {
		return fmt.Errorf("failed to mark listing paid: %w", err)
	}

	logger.Log.Infof("Listing %s marked as paid", listingID)
	return nil
}

// GetOwnedListing returns a seller's listing or ErrListingNotFound
func (s *ListingService) GetOwnedListing(ctx context.Context, userID uint, listingID uuid.UUID) (*models.Listing, error) {
	listing, err := s.repo.GetOwnedListing(ctx, listingID, userID)
	if err == gorm.ErrRecordNotFound {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// GetUserListings returns the seller dashboard view
func (s *ListingService) GetUserListings(ctx context.Context, userID uint) ([]*models.Listing, error) {
	return s.repo.GetUserListings(ctx, userID)
}

// GetPublicListing returns a published listing by id
func (s *ListingService) GetPublicListing(ctx context.Context, listingID uuid.UUID) (*models.Listing, error) {
	listing, err := s.repo.GetListingByID(ctx, listingID)
	if err == gorm.ErrRecordNotFound {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	if listing.Status != models.ListingStatusLive {
		return nil, ErrListingNotFound
	}
	return listing, nil
}
