package webhook

import (
	"context"

	"paygate/internal/ledger"
	"paygate/kit/broker"

	"github.com/stretchr/testify/mock"
)

type VerifierMock struct {
	mock.Mock
	VerifierContract
}

func (m *VerifierMock) VerifyWebhookSignature(payload []byte, signature string) (bool, error) {
	args := m.Called(payload, signature)
	return args.Bool(0), args.Error(1)
}

type LedgerMock struct {
	mock.Mock
	ledger.Store
}

func (m *LedgerMock) InsertWebhookEvent(ctx context.Context, evt *ledger.WebhookEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func (m *LedgerMock) GetWebhookEvent(ctx context.Context, eventID string) (*ledger.WebhookEvent, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.WebhookEvent), args.Error(1)
}

func (m *LedgerMock) MarkWebhookProcessed(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

func (m *LedgerMock) UpdatePaymentStatus(ctx context.Context, paymentIntentID string, status ledger.PaymentStatus) error {
	args := m.Called(ctx, paymentIntentID, status)
	return args.Error(0)
}

func (m *LedgerMock) UpdateRefundStatus(ctx context.Context, refundID string, status ledger.RefundStatus) error {
	args := m.Called(ctx, refundID, status)
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
