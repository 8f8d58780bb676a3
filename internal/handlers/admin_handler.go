package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"listing-market/internal/auth"
	"listing-market/internal/models"
	"listing-market/internal/services"
)

type AdminHandler struct {
	moderation *services.ModerationService
	users      *services.UserService
}

func NewAdminHandler(moderation *services.ModerationService, users *services.UserService) *AdminHandler {
	return &AdminHandler{moderation: moderation, users: users}
}

// ModeratorMiddleware restricts routes to users on the moderation allow-list
func (h *AdminHandler) ModeratorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		isModerator, err := h.users.IsModerator(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify access"})
			c.Abort()
			return
		}
		if !isModerator {
			c.JSON(http.StatusForbidden, gin.H{"error": "Moderator access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetReviewQueue returns paid listings awaiting moderation
func (h *AdminHandler) GetReviewQueue(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	listings, total, err := h.moderation.ReviewQueue(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch review queue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    listings,
		"total":   total,
	})
}

// ModerateListing approves or rejects a listing under review
func (h *AdminHandler) ModerateListing(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing id"})
		return
	}

	var req struct {
		Action string `json:"action" binding:"required,oneof=approve reject"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.moderation.Moderate(c.Request.Context(), listingID, req.Action == "approve"); err != nil {
		switch {
		case errors.Is(err, services.ErrListingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		case errors.Is(err, services.ErrInvalidTransition):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Listing is not under review"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to moderate listing"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SetListingStatus applies an owner-driven status change (pause/resume/sold)
func (h *AdminHandler) SetListingStatus(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing id"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=LIVE PAUSED SOLD"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = h.moderation.SetOwnerStatus(c.Request.Context(), userID, listingID, models.ListingStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrListingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		case errors.Is(err, services.ErrInvalidTransition):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status transition not allowed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetPlatformStats summarizes the marketplace for the dashboard
func (h *AdminHandler) GetPlatformStats(c *gin.Context) {
	stats, err := h.moderation.GetPlatformStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}
