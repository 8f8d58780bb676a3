package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"gorm.io/gorm"

	"listing-market/internal/config"
	"listing-market/internal/logger"
	"listing-market/internal/models"
)

// BillingService creates Stripe Checkout sessions for listing fees and applies
// signed payment-completion notifications.
type BillingService struct {
	db       *gorm.DB
	listings *ListingService
	cfg      *config.Config
}

// NewBillingService creates a new BillingService and sets the Stripe API key
func NewBillingService(db *gorm.DB, listings *ListingService, cfg *config.Config) *BillingService {
	stripe.Key = cfg.Stripe.SecretKey
	return &BillingService{db: db, listings: listings, cfg: cfg}
}

// CreateListingCheckout starts a checkout session for an owned, unpaid listing
// and returns the redirect URL. The listing id travels as the session's client
// reference so the webhook can tie the completion back.
func (s *BillingService) CreateListingCheckout(ctx context.Context, userID uint, listingID uuid.UUID) (string, error) {
	listing, err := s.listings.GetOwnedListing(ctx, userID, listingID)
	if err != nil {
		return "", err
	}

	if listing.Paid {
		return "", ErrAlreadyPaid
	}

	if s.cfg.Stripe.ListingPriceID == "" {
		return "", ErrPriceNotConfigured
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.cfg.Stripe.ListingPriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(s.cfg.App.FrontendURL + "/sell/new?success=true"),
		CancelURL:         stripe.String(s.cfg.App.FrontendURL + "/sell/new?canceled=true"),
		ClientReferenceID: stripe.String(listingID.String()),
	}
	params.AddMetadata("listing_id", listingID.String())
	params.AddMetadata("user_id", fmt.Sprintf("%d", userID))

	checkoutSession, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	return checkoutSession.URL, nil
}

// HandleCheckoutCompleted applies a verified checkout.session.completed event:
// the referenced listing's payment flag is set exactly once. Duplicate
// deliveries are recorded and acknowledged without re-applying.
func (s *BillingService) HandleCheckoutCompleted(ctx context.Context, eventID string, checkoutSession *stripe.CheckoutSession) error {
	if checkoutSession.ClientReferenceID == "" {
		return fmt.Errorf("checkout session %s has no client reference id", checkoutSession.ID)
	}

	listingID, err := uuid.Parse(checkoutSession.ClientReferenceID)
	if err != nil {
		return fmt.Errorf("invalid listing id in client reference: %w", err)
	}

	if err := s.listings.MarkPaid(ctx, listingID); err != nil {
		return err
	}

	event := models.PaymentEvent{
		EventID:   eventID,
		ListingID: listingID,
		EventType: "checkout.session.completed",
	}
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		// Duplicate event ids hit the unique index; the paid flag is already set
		logger.Log.Debugf("Payment event %s already recorded: %v", eventID, err)
	}

	return nil
}
