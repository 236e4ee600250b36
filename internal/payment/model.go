package payment

import "time"

// IntentRequest is the validated input for creating a payment intent.
type IntentRequest struct {
	Amount   int64
	Currency string
	Metadata map[string]string
}

// Intent is returned from CreateIntent. Nothing is persisted at this point;
// the client-side SDK confirms the intent with Stripe directly and the site
// calls Finalize afterwards.
type Intent struct {
	PaymentIntentID string
	ClientSecret    string
	Amount          int64
	Currency        string
	Status          string
}

// Result is the normalized success payload surfaced to the caller. The raw
// Stripe payload is stored in the ledger but never re-exposed verbatim.
type Result struct {
	Status          string            `json:"status"`
	PaymentIntentID string            `json:"payment_intent_id"`
	Amount          int64             `json:"amount"`
	Currency        string            `json:"currency"`
	CustomerID      string            `json:"customer_id,omitempty"`
	Created         time.Time         `json:"created"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}
