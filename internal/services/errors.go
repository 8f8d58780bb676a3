package services

import "errors"

// Sentinel errors handlers map onto the HTTP error taxonomy.
var (
	ErrListingNotFound    = errors.New("listing not found")
	ErrPaymentRequired    = errors.New("payment required before submission")
	ErrAlreadyPaid        = errors.New("listing already paid")
	ErrNoListingID        = errors.New("draft has no backing listing")
	ErrStageIncomplete    = errors.New("current stage requirements not met")
	ErrCannotAdvance      = errors.New("cannot advance from this stage")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrPriceNotConfigured = errors.New("listing price not configured")
)
