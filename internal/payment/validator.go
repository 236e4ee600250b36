package payment

import (
	"errors"
	"fmt"

	"paygate/internal/stripe"
)

// Stripe caps metadata at 50 keys, 40-char keys and 500-char values; the
// boundary enforces the same limits so bad input fails before a network call.
const (
	maxMetadataEntries  = 50
	maxMetadataKeyLen   = 40
	maxMetadataValueLen = 500
)

var (
	ErrInvalidAmount   = errors.New("amount must be greater than 0")
	ErrInvalidCurrency = errors.New("unsupported currency")
	ErrInvalidMetadata = errors.New("invalid metadata")
	ErrMissingIntentID = errors.New("payment intent id is required")
)

func ValidateIntentRequest(r IntentRequest) error {
	if r.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !stripe.SupportedCurrency(r.Currency) {
		return fmt.Errorf("%w: %s", ErrInvalidCurrency, r.Currency)
	}
	return ValidateMetadata(r.Metadata)
}

func ValidateMetadata(md map[string]string) error {
	if len(md) > maxMetadataEntries {
		return fmt.Errorf("%w: too many entries", ErrInvalidMetadata)
	}
	for k, v := range md {
		if k == "" || len(k) > maxMetadataKeyLen {
			return fmt.Errorf("%w: bad key %q", ErrInvalidMetadata, k)
		}
		if len(v) > maxMetadataValueLen {
			return fmt.Errorf("%w: value too long for key %q", ErrInvalidMetadata, k)
		}
	}
	return nil
}
