package services

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"listing-market/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// :memory: is unique per connection; cache=shared keeps the same database
	// visible to every handle the pool opens during a test.
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Listing{},
		&models.ListingDraft{},
		&models.PaymentEvent{},
		&models.Moderator{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

// resetTables clears all rows; the shared in-memory database outlives tests
func resetTables(t *testing.T, db *gorm.DB) {
	t.Helper()
	for _, table := range []string{"payment_events", "listing_drafts", "listings", "properties", "moderators", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("failed to clear %s: %v", table, err)
		}
	}
}

func intPtr(v int) *int { return &v }

func int64Ptr(v int64) *int64 { return &v }

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

type listingSeed struct {
	address      string
	suburb       string
	state        string
	propertyType string
	lat, lng     *float64
	beds, baths  *int
	description  string
	priceMin     *int64
	priceMax     *int64
	status       models.ListingStatus
	userID       uint
}

func seedListing(t *testing.T, db *gorm.DB, seed listingSeed) *models.Listing {
	t.Helper()

	if seed.status == "" {
		seed.status = models.ListingStatusLive
	}
	if seed.userID == 0 {
		seed.userID = 1
	}

	property := &models.Property{
		Address:      seed.address,
		Suburb:       seed.suburb,
		State:        seed.state,
		PropertyType: seed.propertyType,
		Lat:          seed.lat,
		Lng:          seed.lng,
		Beds:         seed.beds,
		Baths:        seed.baths,
	}
	if err := db.Create(property).Error; err != nil {
		t.Fatalf("failed to seed property: %v", err)
	}

	listing := &models.Listing{
		PropertyID:  property.ID,
		UserID:      seed.userID,
		Description: seed.description,
		PriceMin:    seed.priceMin,
		PriceMax:    seed.priceMax,
		Paid:        true,
		Status:      seed.status,
	}
	if err := db.Create(listing).Error; err != nil {
		t.Fatalf("failed to seed listing: %v", err)
	}
	return listing
}

func TestSearchReturnsOnlyPublishedListings(t *testing.T) {
	db := setupTestDB(t)
	resetTables(t, db)

	live := seedListing(t, db, listingSeed{address: "1 Harbour St", suburb: "Sydney", state: "NSW"})
	seedListing(t, db, listingSeed{address: "2 Harbour St", suburb: "Sydney", state: "NSW", status: models.ListingStatusReview})
	seedListing(t, db, listingSeed{address: "3 Harbour St", suburb: "Sydney", state: "NSW", status: models.ListingStatusPaused})
	seedListing(t, db, listingSeed{address: "4 Harbour St", suburb: "Sydney", state: "NSW", status: models.ListingStatusRejected})

	service := NewSearchService(db)
	result, err := service.Search(context.Background(), SearchParams{})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if result.Total != 1 {
		t.Errorf("expected total 1, got %d", result.Total)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}
	if result.Items[0].ID != live.ID {
		t.Errorf("expected listing %s, got %s", live.ID, result.Items[0].ID)
	}
	if result.Items[0].Property == nil {
		t.Error("expected property to be preloaded")
	}
}

func TestSearchFreeTextMatchesAcrossFields(t *testing.T) {
	db := setupTestDB(t)
	resetTables(t, db)

	byAddress := seedListing(t, db, listingSeed{address: "12 Ocean Parade", suburb: "Coogee", state: "NSW"})
	byDescription := seedListing(t, db, listingSeed{address: "7 Hill Rd", suburb: "Carlton", state: "VIC", description: "Sunny cottage near the ocean"})
	seedListing(t, db, listingSeed{address: "9 Plains Ave", suburb: "Dubbo", state: "NSW", description: "Quiet brick home"})

	service := NewSearchService(db)

	result, err := service.Search(context.Background(), SearchParams{Query: "OCEAN"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected 2 matches for 'OCEAN', got %d", result.Total)
	}

	found := map[string]bool{}
	for _, item := range result.Items {
		found[item.ID.String()] = true
	}
	if !found[byAddress.ID.String()] || !found[byDescription.ID.String()] {
		t.Errorf("free text should match address and description fields, got %v", found)
	}

	result, err = service.Search(context.Background(), SearchParams{Query: "coogee"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if result.Total != 1 {
		t.Errorf("expected 1 match for suburb text, got %d", result.Total)
	}

	result, err = service.Search(context.Background(), SearchParams{Query: "no such place"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if result.Total != 0 {
		t.Errorf("expected 0 matches, got %d", result.Total)
	}
}

func TestSearchPriceMinMatchesOverlappingRanges(t *testing.T) {
	db := setupTestDB(t)
	resetTables(t, db)

	overlapping := seedListing(t, db, listingSeed{address: "1 Range St", suburb: "Sydney", state: "NSW", priceMin: int64Ptr(450000), priceMax: int64Ptr(600000)})
	seedListing(t, db, listingSeed{address: "2 Range St", suburb: "Sydney", state: "NSW", priceMin: int64Ptr(350000), priceMax: int64Ptr(400000)})
	openEnded := seedListing(t, db, listingSeed{address: "3 Range St", suburb: "Sydney", state: "NSW", priceMin: int64Ptr(550000)})

	service := NewSearchService(db)
	result, err := service.Search(context.Background(), SearchParams{PriceMin: int64Ptr(500000)})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if result.Total != 2 {
		t.Fatalf("expected 2 matches, got %d", result.Total)
	}
	found := map[string]bool{}
	for _, item := range result.Items {
		found[item.ID.String()] = true
	}
	if !found[overlapping.ID.String()] {
		t.Error("range overlapping the minimum should match")
	}
	if !found[openEnded.ID.String()] {
		t.Error("open-ended range above the minimum should match")
	}
}

func TestSearchPriceMaxSkipsListingsWithoutLowerBound(t *testing.T) {
	db := setupTestDB(t)
	resetTables(t, db)

	inBudget := seedListing(t, db, listingSeed{address: "1 Budget St", suburb: "Sydney", state: "NSW", priceMin: int64Ptr(400000), priceMax: int64Ptr(480000)})
	seedListing(t, db, listingSeed{address: "2 Budget St", suburb: "Sydney", state: "NSW", priceMin: int64Ptr(550000), priceMax: int64Ptr(700000)})
	seedListing(t, db, listingSeed{address: "3 Budget St", suburb: "Sydney", state: "NSW"}) // no price set

	service := NewSearchService(db)
	result, err := service.Search(context.Background(), SearchParams{PriceMax: int64Ptr(500000)})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if result.Total != 1 {
		t.Fatalf("expected 1 match, got %d", result.Total)
	}
	if result.Items[0].ID != inBudget.ID {
		t.Errorf("expected listing %s, got %s", inBudget.ID, result.Items[0].ID)
	}
}

func TestSearchBoundingBox(t *testing.T) {
	db := setupTestDB(t)
	resetTables(t, db)

	inside := seedListing(t, db, listingSeed{address: "1 Coast Rd", suburb: "Manly", state: "NSW", lat: floatPtr(-33.5), lng: floatPtr(151.0)})
	seedListing(t, db, listingSeed{address: "2 Coast Rd", suburb: "Wollongong", state: "NSW", lat: floatPtr(-35.0), lng: floatPtr(151.0)})

	service := NewSearchService(db)

	result, err := service.Search(context.Background(), SearchParams{BBox: "150,-34,152,-33"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("expected 1 match inside box, got %d", result.Total)
	}
	if result.Items[0].ID != inside.ID {
		t.Errorf("expected listing %s, got %s", inside.ID, result.Items[0].ID)
	}

	// Malformed boxes are dropped, not errors: same results as no box at all
	for _, bbox := range []string{"abc", "150,-34,152", "150,-34,152,north"} {
		result, err = service.Search(context.Background(), SearchParams{BBox: bbox})
		if err != nil {
			t.Fatalf("Search with bbox %q failed: %v", bbox, err)
		}
		if result.Total != 2 {
			t.Errorf("bbox %q: expected filter dropped (2 results), got %d", bbox, result.Total)
		}
	}
}

func TestSearchBedsAndBathsAreMinimums(t *testing.T) {
	db := setupTestDB(t)
	resetTables(t, db)

	larger := seedListing(t, db, listingSeed{address: "1 Family St", suburb: "Kew", state: "VIC", beds: intPtr(4), baths: intPtr(2)})
	seedListing(t, db, listingSeed{address: "2 Family St", suburb: "Kew", state: "VIC", beds: intPtr(2), baths: intPtr(1)})

	service := NewSearchService(db)
	result, err := service.Search(context.Background(), SearchParams{Beds: intPtr(3), Baths: intPtr(2)})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if result.Total != 1 {
		t.Fatalf("expected 1 match, got %d", result.Total)
	}
	if result.Items[0].ID != larger.ID {
		t.Errorf("expected listing %s, got %s", larger.ID, result.Items[0].ID)
	}
}

func TestSearchPagination(t *testing.T) {
	db := setupTestDB(t)
	resetTables(t, db)

	for i := 0; i < 25; i++ {
		seedListing(t, db, listingSeed{address: fmt.Sprintf("%d Page St", i), suburb: "Sydney", state: "NSW"})
	}

	service := NewSearchService(db)

	result, err := service.Search(context.Background(), SearchParams{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(result.Items) != 10 {
		t.Errorf("page 1: expected 10 items, got %d", len(result.Items))
	}
	if result.Total != 25 {
		t.Errorf("expected total 25, got %d", result.Total)
	}

	result, err = service.Search(context.Background(), SearchParams{Page: 3, PageSize: 10})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(result.Items) != 5 {
		t.Errorf("page 3: expected 5 items, got %d", len(result.Items))
	}
	if result.Total != 25 {
		t.Errorf("page 3: expected total 25, got %d", result.Total)
	}

	// Out-of-range inputs are clamped, never errors. A page size below 1
	// clamps to the floor of 1; the default of 20 is only for absent params.
	result, err = service.Search(context.Background(), SearchParams{Page: -1, PageSize: 0})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if result.Page != 1 {
		t.Errorf("expected page clamped to 1, got %d", result.Page)
	}
	if result.PageSize != 1 {
		t.Errorf("expected page size clamped to 1, got %d", result.PageSize)
	}
	if len(result.Items) != 1 {
		t.Errorf("expected 1 item at the page size floor, got %d", len(result.Items))
	}
	if result.Total != 25 {
		t.Errorf("clamped page: expected total 25, got %d", result.Total)
	}

	result, err = service.Search(context.Background(), SearchParams{PageSize: 500})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if result.PageSize != MaxPageSize {
		t.Errorf("expected page size clamped to %d, got %d", MaxPageSize, result.PageSize)
	}
}

func TestFeaturedListingsExcludesUnpublished(t *testing.T) {
	db := setupTestDB(t)
	resetTables(t, db)

	seedListing(t, db, listingSeed{address: "1 Featured St", suburb: "Sydney", state: "NSW"})
	seedListing(t, db, listingSeed{address: "2 Featured St", suburb: "Sydney", state: "NSW", status: models.ListingStatusReview})

	service := NewSearchService(db)
	listings, err := service.FeaturedListings(context.Background(), 8)
	if err != nil {
		t.Fatalf("FeaturedListings failed: %v", err)
	}
	if len(listings) != 1 {
		t.Errorf("expected 1 featured listing, got %d", len(listings))
	}
}
