package customer

import (
	"context"

	"paygate/internal/ledger"
	"paygate/internal/stripe"
	"paygate/kit/broker"

	"github.com/stretchr/testify/mock"
)

type ProcessorMock struct {
	mock.Mock
	ProcessorContract
}

func (m *ProcessorMock) CreateCustomer(ctx context.Context, fields map[string]string) (*stripe.Customer, error) {
	args := m.Called(ctx, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Customer), args.Error(1)
}

func (m *ProcessorMock) RetrieveCustomer(ctx context.Context, id string) (*stripe.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Customer), args.Error(1)
}

func (m *ProcessorMock) UpdateCustomer(ctx context.Context, id string, fields map[string]string) (*stripe.Customer, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Customer), args.Error(1)
}

type LedgerMock struct {
	mock.Mock
	ledger.Store
}

func (m *LedgerMock) UpsertCustomer(ctx context.Context, c *ledger.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *LedgerMock) GetCustomer(ctx context.Context, customerID string) (*ledger.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Customer), args.Error(1)
}

type PublisherMock struct {
	mock.Mock
	PublisherContract
}

func (m *PublisherMock) Publish(ctx context.Context, evt broker.Event) []error {
	args := m.Called(ctx, evt)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]error)
}
