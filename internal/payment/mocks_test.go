package payment

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

func (m *ProcessorMock) CreatePaymentIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*stripe.PaymentIntent, error) {
	args := m.Called(ctx, amount, currency, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.PaymentIntent), args.Error(1)
}

func (m *ProcessorMock) RetrievePaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.PaymentIntent), args.Error(1)
}

func (m *ProcessorMock) ConfirmPaymentIntent(ctx context.Context, id string, extra map[string]string) (*stripe.PaymentIntent, error) {
	args := m.Called(ctx, id, extra)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.PaymentIntent), args.Error(1)
}

func (m *ProcessorMock) CreateRefund(ctx context.Context, paymentIntentID string, amount int64, metadata map[string]string) (*stripe.Refund, error) {
	args := m.Called(ctx, paymentIntentID, amount, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Refund), args.Error(1)
}

type LedgerMock struct {
	mock.Mock
	ledger.Store
}

func (m *LedgerMock) UpsertPayment(ctx context.Context, p *ledger.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *LedgerMock) GetPayment(ctx context.Context, paymentIntentID string) (*ledger.Payment, error) {
	args := m.Called(ctx, paymentIntentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Payment), args.Error(1)
}

func (m *LedgerMock) ListPaymentsByCustomer(ctx context.Context, customerID string, limit int) ([]ledger.Payment, error) {
	args := m.Called(ctx, customerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Payment), args.Error(1)
}

func (m *LedgerMock) InsertRefund(ctx context.Context, r *ledger.Refund) error {
	args := m.Called(ctx, r)
	return args.Error(0)
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

type JournalMock struct {
	mock.Mock
	JournalContract
}

func (m *JournalMock) Append(ctx context.Context, aggregateID string, evt broker.Event) error {
	args := m.Called(ctx, aggregateID, evt)
	return args.Error(0)
}
