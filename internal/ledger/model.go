package ledger

import "time"

type PaymentStatus string

const (
	PaymentPending               PaymentStatus = "pending"
	PaymentRequiresConfirmation  PaymentStatus = "requires_confirmation"
	PaymentRequiresPaymentMethod PaymentStatus = "requires_payment_method"
	PaymentRequiresAction        PaymentStatus = "requires_action"
	PaymentSucceeded             PaymentStatus = "succeeded"
	PaymentCanceled              PaymentStatus = "canceled"
	PaymentFailed                PaymentStatus = "failed"
)

// Terminal statuses are never overwritten by a later update.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentSucceeded || s == PaymentCanceled
}

type RefundStatus string

const (
	RefundPending   RefundStatus = "pending"
	RefundSucceeded RefundStatus = "succeeded"
	RefundFailed    RefundStatus = "failed"
)

// Payment is the durable record of a Stripe payment intent, keyed by the
// Stripe-assigned intent id.
type Payment struct {
	PaymentIntentID string
	Amount          int64
	Currency        string
	Status          PaymentStatus
	CustomerID      string
	Metadata        map[string]string
	StripeData      []byte
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Refund struct {
	RefundID        string
	PaymentIntentID string
	Amount          int64
	Currency        string
	Status          RefundStatus
	StripeData      []byte
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Customer struct {
	CustomerID string
	Email      string
	Name       string
	Phone      string
	Address    string
	StripeData []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// WebhookEvent is the idempotency record for webhook deliveries. Processed
// flips true exactly once, after the event's side effects were applied.
type WebhookEvent struct {
	EventID     string
	EventType   string
	EventData   []byte
	Processed   bool
	CreatedAt   time.Time
	ProcessedAt time.Time
}
