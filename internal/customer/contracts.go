package customer

import (
	"context"

	"paygate/internal/ledger"
	"paygate/internal/stripe"
	"paygate/kit/broker"
)

type ProcessorContract interface {
	CreateCustomer(ctx context.Context, fields map[string]string) (*stripe.Customer, error)
	RetrieveCustomer(ctx context.Context, id string) (*stripe.Customer, error)
	UpdateCustomer(ctx context.Context, id string, fields map[string]string) (*stripe.Customer, error)
}

// ServiceContract define customer registration responsibility.
type ServiceContract interface {
	Register(ctx context.Context, req RegisterRequest) (*ledger.Customer, error)
	Update(ctx context.Context, customerID string, req RegisterRequest) (*ledger.Customer, error)
	Get(ctx context.Context, customerID string) (*ledger.Customer, error)
}

type PublisherContract interface {
	Publish(ctx context.Context, evt broker.Event) []error
}
