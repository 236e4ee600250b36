package payment

import (
	"context"

	"paygate/internal/ledger"
	"paygate/internal/stripe"
	"paygate/kit/broker"
)

// ProcessorContract is the slice of the Stripe client the lifecycle manager
// depends on.
type ProcessorContract interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*stripe.PaymentIntent, error)
	RetrievePaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error)
	ConfirmPaymentIntent(ctx context.Context, id string, extra map[string]string) (*stripe.PaymentIntent, error)
	CreateRefund(ctx context.Context, paymentIntentID string, amount int64, metadata map[string]string) (*stripe.Refund, error)
}

// ServiceContract define payment lifecycle responsibility.
type ServiceContract interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	Finalize(ctx context.Context, paymentIntentID string, metadata map[string]string) (*Result, error)
	Refund(ctx context.Context, paymentIntentID string, amount int64, metadata map[string]string) (*ledger.Refund, error)
	GetPayment(ctx context.Context, paymentIntentID string) (*ledger.Payment, error)
	ListCustomerPayments(ctx context.Context, customerID string, limit int) ([]ledger.Payment, error)
}

// PublisherContract define publish responsibility (broker).
type PublisherContract interface {
	Publish(ctx context.Context, evt broker.Event) []error
}

// JournalContract define append responsibility (event journal).
type JournalContract interface {
	Append(ctx context.Context, aggregateID string, evt broker.Event) error
}
