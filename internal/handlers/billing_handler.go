package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"listing-market/internal/auth"
	"listing-market/internal/config"
	"listing-market/internal/logger"
	"listing-market/internal/services"
)

type BillingHandler struct {
	billing *services.BillingService
	cfg     *config.Config
}

func NewBillingHandler(billing *services.BillingService, cfg *config.Config) *BillingHandler {
	return &BillingHandler{billing: billing, cfg: cfg}
}

// CreateListingCheckout starts a checkout session and returns the redirect URL
func (h *BillingHandler) CreateListingCheckout(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		ListingID string `json:"listing_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing id"})
		return
	}

	url, err := h.billing.CreateListingCheckout(c.Request.Context(), userID, listingID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrListingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		case errors.Is(err, services.ErrAlreadyPaid):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Listing already paid"})
		case errors.Is(err, services.ErrPriceNotConfigured):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Listing price not configured"})
		default:
			logger.Log.WithError(err).Error("Failed to create checkout session")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"url":     url,
	})
}

// Webhook handles asynchronous, signed payment-processor notifications.
// Signature mismatches are rejected outright; retries are Stripe's concern.
func (h *BillingHandler) Webhook(c *gin.Context) {
	sigHeader := c.GetHeader("Stripe-Signature")
	if sigHeader == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing Stripe-Signature header"})
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read webhook body"})
		return
	}

	event, err := webhook.ConstructEvent(payload, sigHeader, h.cfg.Stripe.WebhookSecret)
	if err != nil {
		logger.Log.WithError(err).Error("Stripe webhook signature verification failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var checkoutSession stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &checkoutSession); err != nil {
			logger.Log.WithError(err).Error("Could not parse checkout session object")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed event payload"})
			return
		}

		if err := h.billing.HandleCheckoutCompleted(c.Request.Context(), event.ID, &checkoutSession); err != nil {
			logger.Log.WithError(err).Error("Failed to apply checkout completion")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process event"})
			return
		}
	default:
		logger.Log.Infof("Unhandled Stripe event type: %s", event.Type)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
