package services

import (
	"context"
	"errors"
	"testing"

	"listing-market/internal/models"
)

func TestModerateApprovesAndRejects(t *testing.T) {
	db := setupTestDB(t)
	resetTables(t, db)

	approved := seedListing(t, db, listingSeed{address: "1 Review St", suburb: "Sydney", state: "NSW", status: models.ListingStatusReview})
	rejected := seedListing(t, db, listingSeed{address: "2 Review St", suburb: "Sydney", state: "NSW", status: models.ListingStatusReview})

	service := NewModerationService(db)
	ctx := context.Background()

	if err := service.Moderate(ctx, approved.ID, true); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if err := service.Moderate(ctx, rejected.ID, false); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	var reloaded models.Listing
	db.Where("id = ?", approved.ID).First(&reloaded)
	if reloaded.Status != models.ListingStatusLive {
		t.Errorf("expected LIVE, got %s", reloaded.Status)
	}
	reloaded = models.Listing{}
	db.Where("id = ?", rejected.ID).First(&reloaded)
	if reloaded.Status != models.ListingStatusRejected {
		t.Errorf("expected REJECTED, got %s", reloaded.Status)
	}

	// Moderation only acts on listings still under review
	err := service.Moderate(ctx, approved.ID, false)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestReviewQueueSkipsUnpaid(t *testing.T) {
	db := setupTestDB(t)
	resetTables(t, db)

	paid := seedListing(t, db, listingSeed{address: "1 Queue St", suburb: "Sydney", state: "NSW", status: models.ListingStatusReview})
	unpaid := seedListing(t, db, listingSeed{address: "2 Queue St", suburb: "Sydney", state: "NSW", status: models.ListingStatusReview})
	db.Model(unpaid).Update("paid", false)
	seedListing(t, db, listingSeed{address: "3 Queue St", suburb: "Sydney", state: "NSW"}) // already LIVE

	service := NewModerationService(db)
	queue, total, err := service.ReviewQueue(context.Background(), 20, 0)
	if err != nil {
		t.Fatalf("ReviewQueue failed: %v", err)
	}

	if total != 1 {
		t.Errorf("expected total 1, got %d", total)
	}
	if len(queue) != 1 || queue[0].ID != paid.ID {
		t.Errorf("expected only the paid REVIEW listing in the queue")
	}
}

func TestOwnerStatusTransitions(t *testing.T) {
	db := setupTestDB(t)
	resetTables(t, db)

	listing := seedListing(t, db, listingSeed{address: "1 Status St", suburb: "Sydney", state: "NSW", userID: 1})

	service := NewModerationService(db)
	ctx := context.Background()

	// LIVE -> PAUSED -> LIVE -> SOLD is the allowed owner path
	if err := service.SetOwnerStatus(ctx, 1, listing.ID, models.ListingStatusPaused); err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	if err := service.SetOwnerStatus(ctx, 1, listing.ID, models.ListingStatusLive); err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	if err := service.SetOwnerStatus(ctx, 1, listing.ID, models.ListingStatusSold); err != nil {
		t.Fatalf("sold failed: %v", err)
	}

	// SOLD is terminal for owners
	err := service.SetOwnerStatus(ctx, 1, listing.ID, models.ListingStatusLive)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition from SOLD, got %v", err)
	}

	// Owners cannot touch listings under review
	reviewed := seedListing(t, db, listingSeed{address: "2 Status St", suburb: "Sydney", state: "NSW", status: models.ListingStatusReview, userID: 1})
	err = service.SetOwnerStatus(ctx, 1, reviewed.ID, models.ListingStatusLive)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition from REVIEW, got %v", err)
	}

	// Non-owners get not-found
	err = service.SetOwnerStatus(ctx, 2, reviewed.ID, models.ListingStatusPaused)
	if !errors.Is(err, ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
}

func TestPlatformStatsAveragesMidpoints(t *testing.T) {
	db := setupTestDB(t)
	resetTables(t, db)

	seedListing(t, db, listingSeed{address: "1 Stats St", suburb: "Sydney", state: "NSW", priceMin: int64Ptr(400000), priceMax: int64Ptr(600000)}) // midpoint 500000
	seedListing(t, db, listingSeed{address: "2 Stats St", suburb: "Sydney", state: "NSW", priceMin: int64Ptr(700000), priceMax: int64Ptr(900000)}) // midpoint 800000
	seedListing(t, db, listingSeed{address: "3 Stats St", suburb: "Sydney", state: "NSW", status: models.ListingStatusReview})

	service := NewModerationService(db)
	stats, err := service.GetPlatformStats(context.Background())
	if err != nil {
		t.Fatalf("GetPlatformStats failed: %v", err)
	}

	if stats.ListingsByStatus[models.ListingStatusLive] != 2 {
		t.Errorf("expected 2 LIVE listings, got %d", stats.ListingsByStatus[models.ListingStatusLive])
	}
	if stats.ListingsByStatus[models.ListingStatusReview] != 1 {
		t.Errorf("expected 1 REVIEW listing, got %d", stats.ListingsByStatus[models.ListingStatusReview])
	}
	if stats.TotalProperties != 3 {
		t.Errorf("expected 3 properties, got %d", stats.TotalProperties)
	}
	if stats.AverageAsking.IntPart() != 650000 {
		t.Errorf("expected average asking 650000, got %s", stats.AverageAsking)
	}
}
