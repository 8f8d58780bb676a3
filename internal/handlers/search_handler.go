package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"listing-market/internal/services"
)

type SearchHandler struct {
	search *services.SearchService
}

func NewSearchHandler(search *services.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// SearchListings returns a page of published listings matching the filters
func (h *SearchHandler) SearchListings(c *gin.Context) {
	params := services.SearchParams{
		Query:        c.Query("q"),
		Suburb:       c.Query("suburb"),
		State:        c.Query("state"),
		PropertyType: c.Query("propertyType"),
		BBox:         c.Query("bbox"),
	}

	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		params.Page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("pageSize", "20")); err == nil {
		params.PageSize = v
	}

	if raw := c.Query("beds"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			params.Beds = &v
		}
	}
	if raw := c.Query("baths"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			params.Baths = &v
		}
	}
	if raw := c.Query("priceMin"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			params.PriceMin = &v
		}
	}
	if raw := c.Query("priceMax"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			params.PriceMax = &v
		}
	}

	result, err := h.search.Search(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search listings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// GetFeaturedListings returns the newest published listings
func (h *SearchHandler) GetFeaturedListings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "8"))

	listings, err := h.search.FeaturedListings(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    listings,
		"count":   len(listings),
	})
}
