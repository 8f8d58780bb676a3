package services

import (
	"context"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"listing-market/internal/models"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SearchParams are the optional, independently combinable search filters
type SearchParams struct {
	Query        string
	Suburb       string
	State        string
	PropertyType string
	Beds         *int
	Baths        *int
	PriceMin     *int64
	PriceMax     *int64
	BBox         string // "minLng,minLat,maxLng,maxLat"
	Page         int
	PageSize     int
}

// SearchResult is one page of matching listings plus the total across all pages
type SearchResult struct {
	Items    []*models.Listing `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// SearchService builds the combined filter predicate over listings and properties
type SearchService struct {
	db *gorm.DB
}

// NewSearchService creates a new SearchService
func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{db: db}
}

// Search returns the matching page and the total count, both computed from the
// same predicate. Only published (LIVE) listings are searchable. Bad filter
// input never errors; only store failures do.
func (s *SearchService) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}

	// Clamp to [1, MaxPageSize]. The default of 20 applies only when the
	// param is absent, which the API layer resolves before calling in.
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	offset := (page - 1) * pageSize

	var total int64
	if err := s.buildQuery(ctx, params).Count(&total).Error; err != nil {
		return nil, err
	}

	var items []*models.Listing
	err := s.buildQuery(ctx, params).
		Preload("Property").
		Order("listings.created_at DESC").
		Order("listings.id").
		Limit(pageSize).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// buildQuery assembles the filter predicate. All filters AND together except
// the free-text and priceMin clauses, which each contribute an OR-group.
func (s *SearchService) buildQuery(ctx context.Context, params SearchParams) *gorm.DB {
	query := s.db.WithContext(ctx).
		Model(&models.Listing{}).
		Joins("JOIN properties ON properties.id = listings.property_id").
		Where("listings.status = ?", models.ListingStatusLive)

	if q := strings.TrimSpace(params.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"LOWER(properties.address) LIKE ? OR LOWER(properties.suburb) LIKE ? OR LOWER(properties.state) LIKE ? OR LOWER(listings.description) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	if params.Suburb != "" {
		query = query.Where("LOWER(properties.suburb) LIKE ?", "%"+strings.ToLower(params.Suburb)+"%")
	}

	if params.State != "" {
		query = query.Where("LOWER(properties.state) LIKE ?", "%"+strings.ToLower(params.State)+"%")
	}

	if params.PropertyType != "" {
		query = query.Where("LOWER(properties.property_type) = ?", strings.ToLower(params.PropertyType))
	}

	if params.Beds != nil {
		query = query.Where("properties.beds >= ?", *params.Beds)
	}

	if params.Baths != nil {
		query = query.Where("properties.baths >= ?", *params.Baths)
	}

	// Overlap-or-above: a listing with no upper bound still matches if its
	// lower bound alone clears the requested minimum.
	if params.PriceMin != nil {
		query = query.Where("listings.price_max >= ? OR listings.price_min >= ?", *params.PriceMin, *params.PriceMin)
	}

	// Listings with an unset price_min fall out of this bound. Asymmetric with
	// the priceMin filter above, kept to match production behavior.
	if params.PriceMax != nil {
		query = query.Where("listings.price_min <= ?", *params.PriceMax)
	}

	if bounds, ok := parseBBox(params.BBox); ok {
		query = query.Where(
			"properties.lng >= ? AND properties.lng <= ? AND properties.lat >= ? AND properties.lat <= ?",
			bounds.MinLng, bounds.MaxLng, bounds.MinLat, bounds.MaxLat,
		)
	}

	return query
}

type boundingBox struct {
	MinLng, MinLat, MaxLng, MaxLat float64
}

// parseBBox parses "minLng,minLat,maxLng,maxLat". Malformed input is reported
// as not-ok and the caller drops the filter rather than erroring.
func parseBBox(bbox string) (boundingBox, bool) {
	if bbox == "" {
		return boundingBox{}, false
	}

	parts := strings.Split(bbox, ",")
	if len(parts) != 4 {
		return boundingBox{}, false
	}

	coords := make([]float64, 4)
	for i, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return boundingBox{}, false
		}
		coords[i] = value
	}

	return boundingBox{
		MinLng: coords[0],
		MinLat: coords[1],
		MaxLng: coords[2],
		MaxLat: coords[3],
	}, true
}

// FeaturedListings returns the newest published listings for the home page
func (s *SearchService) FeaturedListings(ctx context.Context, limit int) ([]*models.Listing, error) {
	if limit < 1 {
		limit = 8
	}

	var listings []*models.Listing
	err := s.db.WithContext(ctx).
		Where("status = ?", models.ListingStatusLive).
		Preload("Property").
		Order("created_at DESC").
		Limit(limit).
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}
