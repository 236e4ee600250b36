package ledger

import (
	"context"
	"testing"
	"time"

	"paygate/kit/db"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSQLStore() *SQLStore {
	return NewSQLStore(db.NewMemoryClient())
}

func TestSQLStore_PaymentRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newSQLStore()

	p := testPayment("pi_1", PaymentSucceeded)
	p.Metadata = map[string]string{"order_id": "42"}
	p.StripeData = []byte(`{"id":"pi_1"}`)
	require.NoError(t, store.UpsertPayment(ctx, p))

	got, err := store.GetPayment(ctx, "pi_1")
	require.NoError(t, err)
	require.Equal(t, p.PaymentIntentID, got.PaymentIntentID)
	require.Equal(t, p.Amount, got.Amount)
	require.Equal(t, p.Status, got.Status)
	require.Equal(t, p.Metadata, got.Metadata)
	require.Equal(t, p.StripeData, got.StripeData)

	_, err = store.GetPayment(ctx, "pi_missing")
	require.ErrorIs(t, err, db.ErrNotFound)
}

func TestSQLStore_UpsertPaymentKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	store := newSQLStore()

	first := testPayment("pi_1", PaymentSucceeded)
	require.NoError(t, store.UpsertPayment(ctx, first))

	second := testPayment("pi_1", PaymentSucceeded)
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	require.NoError(t, store.UpsertPayment(ctx, second))

	got, err := store.GetPayment(ctx, "pi_1")
	require.NoError(t, err)
	require.True(t, got.CreatedAt.Equal(first.CreatedAt))
}

func TestSQLStore_UpdatePaymentStatusGuardsTerminal(t *testing.T) {
	ctx := context.Background()
	store := newSQLStore()

	require.NoError(t, store.UpsertPayment(ctx, testPayment("pi_1", PaymentSucceeded)))
	require.NoError(t, store.UpdatePaymentStatus(ctx, "pi_1", PaymentFailed))

	got, err := store.GetPayment(ctx, "pi_1")
	require.NoError(t, err)
	require.Equal(t, PaymentSucceeded, got.Status)

	require.NoError(t, store.UpsertPayment(ctx, testPayment("pi_2", PaymentPending)))
	require.NoError(t, store.UpdatePaymentStatus(ctx, "pi_2", PaymentSucceeded))

	got, err = store.GetPayment(ctx, "pi_2")
	require.NoError(t, err)
	require.Equal(t, PaymentSucceeded, got.Status)
}

func TestSQLStore_ListPaymentsByCustomer(t *testing.T) {
	ctx := context.Background()
	store := newSQLStore()

	for _, id := range []string{"pi_1", "pi_2", "pi_3"} {
		require.NoError(t, store.UpsertPayment(ctx, testPayment(id, PaymentSucceeded)))
	}
	other := testPayment("pi_other", PaymentSucceeded)
	other.CustomerID = "cus_2"
	require.NoError(t, store.UpsertPayment(ctx, other))

	got, err := store.ListPaymentsByCustomer(ctx, "cus_1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "pi_3", got[0].PaymentIntentID)
	require.Equal(t, "pi_2", got[1].PaymentIntentID)
}

func TestSQLStore_RefundInsertConflict(t *testing.T) {
	ctx := context.Background()
	store := newSQLStore()

	now := time.Now().UTC()
	r := &Refund{RefundID: "re_1", PaymentIntentID: "pi_1", Amount: 500, Currency: "usd", Status: RefundPending, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.InsertRefund(ctx, r))
	require.ErrorIs(t, store.InsertRefund(ctx, r), db.ErrConflict)

	require.NoError(t, store.UpdateRefundStatus(ctx, "re_1", RefundSucceeded))
	got, err := store.GetRefund(ctx, "re_1")
	require.NoError(t, err)
	require.Equal(t, RefundSucceeded, got.Status)
	require.Equal(t, "pi_1", got.PaymentIntentID)
}

func TestSQLStore_CustomerUpsert(t *testing.T) {
	ctx := context.Background()
	store := newSQLStore()

	now := time.Now().UTC()
	c := &Customer{CustomerID: "cus_1", Email: "a@example.com", Name: "Ana", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.UpsertCustomer(ctx, c))

	c.Email = "b@example.com"
	require.NoError(t, store.UpsertCustomer(ctx, c))

	got, err := store.GetCustomer(ctx, "cus_1")
	require.NoError(t, err)
	require.Equal(t, "b@example.com", got.Email)
	require.Equal(t, "Ana", got.Name)
}

func TestSQLStore_PropagatesClientErrors(t *testing.T) {
	ctx := context.Background()

	client := new(db.ClientMock)
	client.On("Exec", ctx, mock.Anything, mock.Anything).Return(db.ErrInternal)
	client.On("QueryRow", ctx, mock.Anything, mock.Anything).Return(nil, db.ErrInternal)
	store := NewSQLStore(client)

	require.ErrorIs(t, store.UpsertPayment(ctx, testPayment("pi_1", PaymentSucceeded)), db.ErrInternal)
	require.ErrorIs(t, store.UpdatePaymentStatus(ctx, "pi_1", PaymentFailed), db.ErrInternal)
	_, err := store.GetPayment(ctx, "pi_1")
	require.ErrorIs(t, err, db.ErrInternal)
}

func TestSQLStore_PropagatesScanErrors(t *testing.T) {
	ctx := context.Background()

	row := new(db.RowMock)
	row.On("Scan", mock.Anything).Return(db.ErrInternal)
	client := new(db.ClientMock)
	client.On("QueryRow", ctx, qPaymentGet, mock.Anything).Return(row, nil)
	store := NewSQLStore(client)

	_, err := store.GetPayment(ctx, "pi_1")
	require.ErrorIs(t, err, db.ErrInternal)
}

func TestSQLStore_WebhookEventLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newSQLStore()

	evt := &WebhookEvent{EventID: "evt_1", EventType: "payment_intent.succeeded", EventData: []byte(`{}`), CreatedAt: time.Now().UTC()}
	require.NoError(t, store.InsertWebhookEvent(ctx, evt))
	// Redelivery insert is absorbed.
	require.NoError(t, store.InsertWebhookEvent(ctx, evt))

	got, err := store.GetWebhookEvent(ctx, "evt_1")
	require.NoError(t, err)
	require.False(t, got.Processed)

	require.NoError(t, store.MarkWebhookProcessed(ctx, "evt_1"))
	got, err = store.GetWebhookEvent(ctx, "evt_1")
	require.NoError(t, err)
	require.True(t, got.Processed)
	require.False(t, got.ProcessedAt.IsZero())

	require.ErrorIs(t, store.MarkWebhookProcessed(ctx, "evt_missing"), db.ErrNotFound)

	recent, err := store.ListRecentWebhookEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.Equal(t, "evt_1", recent[0].EventID)
}
