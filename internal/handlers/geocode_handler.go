package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"listing-market/internal/logger"
	"listing-market/internal/mapbox"
)

type GeocodeHandler struct {
	geocoder *mapbox.Client
}

func NewGeocodeHandler(geocoder *mapbox.Client) *GeocodeHandler {
	return &GeocodeHandler{geocoder: geocoder}
}

// Geocode resolves free-text address input to structured candidates for the
// wizard's Address stage
func (h *GeocodeHandler) Geocode(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	results, err := h.geocoder.ForwardGeocode(c.Request.Context(), query, limit)
	if err != nil {
		logger.Log.WithError(err).Error("Geocoding request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to geocode address"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    results,
		"count":   len(results),
	})
}
