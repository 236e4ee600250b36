package ledger

import "context"

// Store owns the four durable collections: payments, refunds, customers and
// webhook events. Uniqueness of each record's Stripe id is enforced inside
// the store, so concurrent upserts for the same id converge on one row.
type Store interface {
	UpsertPayment(ctx context.Context, p *Payment) error
	GetPayment(ctx context.Context, paymentIntentID string) (*Payment, error)
	UpdatePaymentStatus(ctx context.Context, paymentIntentID string, status PaymentStatus) error
	ListPaymentsByCustomer(ctx context.Context, customerID string, limit int) ([]Payment, error)

	InsertRefund(ctx context.Context, r *Refund) error
	GetRefund(ctx context.Context, refundID string) (*Refund, error)
	UpdateRefundStatus(ctx context.Context, refundID string, status RefundStatus) error

	UpsertCustomer(ctx context.Context, c *Customer) error
	GetCustomer(ctx context.Context, customerID string) (*Customer, error)

	InsertWebhookEvent(ctx context.Context, e *WebhookEvent) error
	GetWebhookEvent(ctx context.Context, eventID string) (*WebhookEvent, error)
	MarkWebhookProcessed(ctx context.Context, eventID string) error
	ListRecentWebhookEvents(ctx context.Context, limit int) ([]WebhookEvent, error)
}
