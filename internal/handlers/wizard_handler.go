package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"listing-market/internal/auth"
	"listing-market/internal/services"
)

type WizardHandler struct {
	wizard *services.WizardService
}

func NewWizardHandler(wizard *services.WizardService) *WizardHandler {
	return &WizardHandler{wizard: wizard}
}

// GetDraft returns the seller's active draft, creating one on first use
func (h *WizardHandler) GetDraft(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	draft, err := h.wizard.GetDraft(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load draft"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    draft,
	})
}

// UpdateDraft merges step fields into the draft without moving stages
func (h *WizardHandler) UpdateDraft(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var update services.DraftUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := h.wizard.UpdateDraft(c.Request.Context(), userID, update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save draft"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    draft,
	})
}

// Advance moves the wizard forward one stage, checkpointing where required
func (h *WizardHandler) Advance(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	draft, err := h.wizard.Advance(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStageIncomplete):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Current stage requirements not met"})
		case errors.Is(err, services.ErrCannotAdvance):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot advance from this stage"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to advance"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    draft,
	})
}

// Back moves the wizard one stage backward
func (h *WizardHandler) Back(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	draft, err := h.wizard.Back(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to go back"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    draft,
	})
}

// PaymentReturn marks the draft paid after the checkout redirect comes back
func (h *WizardHandler) PaymentReturn(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	draft, err := h.wizard.HandlePaymentReturn(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment return"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    draft,
	})
}

// Submit performs the terminal wizard submission
func (h *WizardHandler) Submit(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.wizard.Submit(c.Request.Context(), userID); err != nil {
		switch {
		case errors.Is(err, services.ErrNoListingID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Listing not created. Complete the previous steps first"})
		case errors.Is(err, services.ErrPaymentRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment required before submission"})
		case errors.Is(err, services.ErrListingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit listing"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
