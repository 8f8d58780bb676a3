package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stripe/stripe-go/v82"

	"listing-market/internal/config"
	"listing-market/internal/models"
	"listing-market/internal/repository"
)

func TestHandleCheckoutCompletedMarksPaidOnce(t *testing.T) {
	db := setupTestDB(t)
	resetTables(t, db)

	listing := seedListing(t, db, listingSeed{address: "1 Checkout St", suburb: "Sydney", state: "NSW", status: models.ListingStatusReview})
	db.Model(listing).Update("paid", false)

	listings := NewListingService(repository.NewRepository(db), nil)
	service := NewBillingService(db, listings, &config.Config{})
	ctx := context.Background()

	session := &stripe.CheckoutSession{
		ID:                "cs_test_1",
		ClientReferenceID: listing.ID.String(),
	}

	if err := service.HandleCheckoutCompleted(ctx, "evt_1", session); err != nil {
		t.Fatalf("HandleCheckoutCompleted failed: %v", err)
	}

	// Stripe retries deliveries; the duplicate must be acknowledged cleanly
	if err := service.HandleCheckoutCompleted(ctx, "evt_1", session); err != nil {
		t.Fatalf("duplicate delivery failed: %v", err)
	}

	var reloaded models.Listing
	if err := db.Where("id = ?", listing.ID).First(&reloaded).Error; err != nil {
		t.Fatalf("failed to reload listing: %v", err)
	}
	if !reloaded.Paid {
		t.Error("expected listing to be paid")
	}

	var eventCount int64
	db.Model(&models.PaymentEvent{}).Where("event_id = ?", "evt_1").Count(&eventCount)
	if eventCount != 1 {
		t.Errorf("expected 1 recorded payment event, got %d", eventCount)
	}
}

func TestHandleCheckoutCompletedRejectsBadReference(t *testing.T) {
	db := setupTestDB(t)
	resetTables(t, db)

	listings := NewListingService(repository.NewRepository(db), nil)
	service := NewBillingService(db, listings, &config.Config{})
	ctx := context.Background()

	err := service.HandleCheckoutCompleted(ctx, "evt_2", &stripe.CheckoutSession{ID: "cs_test_2"})
	if err == nil {
		t.Fatal("expected error for session without client reference")
	}

	err = service.HandleCheckoutCompleted(ctx, "evt_3", &stripe.CheckoutSession{
		ID:                "cs_test_3",
		ClientReferenceID: "not-a-uuid",
	})
	if err == nil {
		t.Fatal("expected error for malformed listing reference")
	}
}

func TestCreateListingCheckoutGuards(t *testing.T) {
	db := setupTestDB(t)
	resetTables(t, db)

	paid := seedListing(t, db, listingSeed{address: "1 Guard St", suburb: "Sydney", state: "NSW", status: models.ListingStatusReview, userID: 1})

	listings := NewListingService(repository.NewRepository(db), nil)
	service := NewBillingService(db, listings, &config.Config{})
	ctx := context.Background()

	// Already-paid listings never reach Stripe
	_, err := service.CreateListingCheckout(ctx, 1, paid.ID)
	if !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid, got %v", err)
	}

	// Non-owners get not-found
	unpaid := seedListing(t, db, listingSeed{address: "2 Guard St", suburb: "Sydney", state: "NSW", status: models.ListingStatusReview, userID: 1})
	db.Model(unpaid).Update("paid", false)
	_, err = service.CreateListingCheckout(ctx, 2, unpaid.ID)
	if !errors.Is(err, ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound for non-owner, got %v", err)
	}

	// Missing price configuration is caught before calling out
	_, err = service.CreateListingCheckout(ctx, 1, unpaid.ID)
	if !errors.Is(err, ErrPriceNotConfigured) {
		t.Fatalf("expected ErrPriceNotConfigured, got %v", err)
	}
}
