package repository

import (
	"context"

	"listing-market/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// DB exposes the underlying handle for query-builder callers
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// FindPropertyByIdentity looks a property up by its (address, suburb, state) identity
func (r *Repository) FindPropertyByIdentity(ctx context.Context, address, suburb, state string) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).
		Where("address = ? AND suburb = ? AND state = ?", address, suburb, state).
		First(&property).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// CreateProperty creates a new property
func (r *Repository) CreateProperty(ctx context.Context, property *models.Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

// UpdateProperty saves all property fields in place
func (r *Repository) UpdateProperty(ctx context.Context, property *models.Property) error {
	return r.db.WithContext(ctx).Save(property).Error
}

// CreateListing creates a new listing
func (r *Repository) CreateListing(ctx context.Context, listing *models.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

// UpdateListing updates a listing
func (r *Repository) UpdateListing(ctx context.Context, listing *models.Listing) error {
	return r.db.WithContext(ctx).Save(listing).Error
}

// GetListingByID retrieves a listing by ID with its property
func (r *Repository) GetListingByID(ctx context.Context, listingID uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.WithContext(ctx).
		Where("id = ?", listingID).
		Preload("Property").
		First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetOwnedListing retrieves a listing only if it belongs to the given user.
// Non-owners get gorm.ErrRecordNotFound, never an existence hint.
func (r *Repository) GetOwnedListing(ctx context.Context, listingID uuid.UUID, userID uint) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", listingID, userID).
		Preload("Property").
		First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetUserListings retrieves all listings for a seller, newest first
func (r *Repository) GetUserListings(ctx context.Context, userID uint) ([]*models.Listing, error) {
	var listings []*models.Listing
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Property").
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// GetDraftByUser retrieves the active draft for a seller
func (r *Repository) GetDraftByUser(ctx context.Context, userID uint) (*models.ListingDraft, error) {
	var draft models.ListingDraft
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&draft).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// CreateDraft creates a new draft
func (r *Repository) CreateDraft(ctx context.Context, draft *models.ListingDraft) error {
	return r.db.WithContext(ctx).Create(draft).Error
}

// UpdateDraft saves all draft fields
func (r *Repository) UpdateDraft(ctx context.Context, draft *models.ListingDraft) error {
	return r.db.WithContext(ctx).Save(draft).Error
}

// DeleteDraft removes a seller's draft
func (r *Repository) DeleteDraft(ctx context.Context, draftID uint) error {
	return r.db.WithContext(ctx).Delete(&models.ListingDraft{}, draftID).Error
}
