package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"listing-market/internal/logger"
	"listing-market/internal/models"
	"listing-market/internal/repository"
)

// DraftUpdate carries field changes from a wizard step. Nil means "unchanged";
// numeric zero values are legitimate (parking may be 0).
type DraftUpdate struct {
	Address      *string          `json:"address,omitempty"`
	Suburb       *string          `json:"suburb,omitempty"`
	State        *string          `json:"state,omitempty"`
	Postcode     *string          `json:"postcode,omitempty"`
	Lat          *float64         `json:"lat,omitempty"`
	Lng          *float64         `json:"lng,omitempty"`
	PropertyType *string          `json:"property_type,omitempty"`
	Beds         *int             `json:"beds,omitempty"`
	Baths        *int             `json:"baths,omitempty"`
	Parking      *int             `json:"parking,omitempty"`
	LandSize     *decimal.Decimal `json:"land_size,omitempty"`
	Description  *string          `json:"description,omitempty"`
	PhotoKeys    []string         `json:"photo_keys,omitempty"`
	PriceMin     *int64           `json:"price_min,omitempty"`
	PriceMax     *int64           `json:"price_max,omitempty"`
}

// WizardService drives the six-stage listing creation state machine over a
// persisted per-seller draft.
type WizardService struct {
	repo     *repository.Repository
	listings *ListingService
}

// NewWizardService creates a new WizardService
func NewWizardService(repo *repository.Repository, listings *ListingService) *WizardService {
	return &WizardService{repo: repo, listings: listings}
}

// GetDraft returns the seller's active draft, creating an empty one at the
// Address stage on first use.
func (s *WizardService) GetDraft(ctx context.Context, userID uint) (*models.ListingDraft, error) {
	draft, err := s.repo.GetDraftByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	if draft != nil {
		return draft, nil
	}

	draft = &models.ListingDraft{
		UserID: userID,
		Stage:  models.StageAddress,
	}
	if err := s.repo.CreateDraft(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}
	return draft, nil
}

// UpdateDraft merges step fields into the draft without moving stages
func (s *WizardService) UpdateDraft(ctx context.Context, userID uint, update DraftUpdate) (*models.ListingDraft, error) {
	draft, err := s.GetDraft(ctx, userID)
	if err != nil {
		return nil, err
	}

	applyUpdate(draft, update)

	if err := s.repo.UpdateDraft(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}
	return draft, nil
}

// Advance validates the current stage and moves forward one stage. Completing
// Details, Photos or Pricing flushes a checkpoint; a checkpoint failure is
// logged and does not block the advance.
func (s *WizardService) Advance(ctx context.Context, userID uint) (*models.ListingDraft, error) {
	draft, err := s.GetDraft(ctx, userID)
	if err != nil {
		return nil, err
	}

	if draft.Stage >= models.StageSubmit {
		return nil, ErrCannotAdvance
	}

	if err := validateStage(draft); err != nil {
		return nil, err
	}

	if draft.Stage >= models.StageDetails && draft.Stage <= models.StagePricing {
		s.checkpoint(ctx, userID, draft)
	}

	draft.Stage++
	if err := s.repo.UpdateDraft(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}
	return draft, nil
}

// Back moves one stage backward. Always permitted from stage 2 onward; no
// validation, no checkpoint.
func (s *WizardService) Back(ctx context.Context, userID uint) (*models.ListingDraft, error) {
	draft, err := s.GetDraft(ctx, userID)
	if err != nil {
		return nil, err
	}

	if draft.Stage <= models.StageAddress {
		return draft, nil
	}

	draft.Stage--
	if err := s.repo.UpdateDraft(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}
	return draft, nil
}

// HandlePaymentReturn is invoked when the seller comes back from the payment
// redirect with the success flag: payment is marked complete and the wizard is
// pinned to the Pay stage to show the completed state.
func (s *WizardService) HandlePaymentReturn(ctx context.Context, userID uint) (*models.ListingDraft, error) {
	draft, err := s.GetDraft(ctx, userID)
	if err != nil {
		return nil, err
	}

	draft.Paid = true
	draft.Stage = models.StagePay
	if err := s.repo.UpdateDraft(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}
	return draft, nil
}

// Submit performs the terminal submission: requires a backing listing and
// completed payment. The draft survives any failure so retry is safe; it is
// removed only after a successful submit.
func (s *WizardService) Submit(ctx context.Context, userID uint) error {
	draft, err := s.GetDraft(ctx, userID)
	if err != nil {
		return err
	}

	if draft.ListingID == nil {
		return ErrNoListingID
	}
	if !draft.Paid {
		return ErrPaymentRequired
	}

	if err := s.listings.Submit(ctx, userID, *draft.ListingID); err != nil {
		return err
	}

	if err := s.repo.DeleteDraft(ctx, draft.ID); err != nil {
		logger.Log.Warnf("Failed to clear draft %d after submission: %v", draft.ID, err)
	}
	return nil
}

// ListingID returns the draft's backing listing id, if captured
func (s *WizardService) ListingID(ctx context.Context, userID uint) (*uuid.UUID, error) {
	draft, err := s.GetDraft(ctx, userID)
	if err != nil {
		return nil, err
	}
	return draft.ListingID, nil
}

// checkpoint flushes the draft: create the first time (capturing the listing
// id for every later flush), update thereafter. Failures are logged only; the
// wizard advances optimistically.
func (s *WizardService) checkpoint(ctx context.Context, userID uint, draft *models.ListingDraft) {
	if draft.ListingID == nil {
		listingID, err := s.listings.CheckpointCreate(ctx, userID, draft)
		if err != nil {
			logger.Log.Warnf("Checkpoint create failed for user %d: %v", userID, err)
			return
		}
		draft.ListingID = &listingID
		return
	}

	if err := s.listings.CheckpointUpdate(ctx, userID, *draft.ListingID, draft); err != nil {
		logger.Log.Warnf("Checkpoint update failed for listing %s: %v", *draft.ListingID, err)
	}
}

// validateStage checks the forward precondition for the draft's current stage
func validateStage(draft *models.ListingDraft) error {
	switch draft.Stage {
	case models.StageAddress:
		if draft.Address == "" || draft.Suburb == "" || draft.State == "" || draft.Lat == nil || draft.Lng == nil {
			return ErrStageIncomplete
		}
	case models.StageDetails:
		if draft.PropertyType == "" || draft.Beds == nil || draft.Baths == nil || draft.Parking == nil {
			return ErrStageIncomplete
		}
	case models.StagePhotos:
		// No blocking precondition
	case models.StagePricing:
		if draft.PriceMin == nil || draft.PriceMax == nil || *draft.PriceMin >= *draft.PriceMax {
			return ErrStageIncomplete
		}
	case models.StagePay:
		if !draft.Paid {
			return ErrStageIncomplete
		}
	}
	return nil
}

func applyUpdate(draft *models.ListingDraft, update DraftUpdate) {
	if update.Address != nil {
		draft.Address = *update.Address
	}
	if update.Suburb != nil {
		draft.Suburb = *update.Suburb
	}
	if update.State != nil {
		draft.State = *update.State
	}
	if update.Postcode != nil {
		draft.Postcode = *update.Postcode
	}
	if update.Lat != nil {
		draft.Lat = update.Lat
	}
	if update.Lng != nil {
		draft.Lng = update.Lng
	}
	if update.PropertyType != nil {
		draft.PropertyType = *update.PropertyType
	}
	if update.Beds != nil {
		draft.Beds = update.Beds
	}
	if update.Baths != nil {
		draft.Baths = update.Baths
	}
	if update.Parking != nil {
		draft.Parking = update.Parking
	}
	if update.LandSize != nil {
		draft.LandSize = update.LandSize
	}
	if update.Description != nil {
		draft.Description = *update.Description
	}
	if update.PhotoKeys != nil {
		draft.PhotoKeys = update.PhotoKeys
	}
	if update.PriceMin != nil {
		draft.PriceMin = update.PriceMin
	}
	if update.PriceMax != nil {
		draft.PriceMax = update.PriceMax
	}
}
