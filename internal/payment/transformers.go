package payment

import (
	"time"

	"paygate/internal/events"
	"paygate/internal/ledger"
	"paygate/internal/stripe"
)

func ToIntent(pi *stripe.PaymentIntent) *Intent {
	return &Intent{
		PaymentIntentID: pi.ID,
		ClientSecret:    pi.ClientSecret,
		Amount:          pi.Amount,
		Currency:        pi.Currency,
		Status:          pi.Status,
	}
}

func ToPaymentRecord(pi *stripe.PaymentIntent, metadata map[string]string) *ledger.Payment {
	now := time.Now().UTC()
	return &ledger.Payment{
		PaymentIntentID: pi.ID,
		Amount:          pi.Amount,
		Currency:        pi.Currency,
		Status:          ledger.PaymentStatus(pi.Status),
		CustomerID:      pi.Customer,
		Metadata:        metadata,
		StripeData:      pi.Raw,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func ToResult(pi *stripe.PaymentIntent) *Result {
	return &Result{
		Status:          "success",
		PaymentIntentID: pi.ID,
		Amount:          pi.Amount,
		Currency:        pi.Currency,
		CustomerID:      pi.Customer,
		Created:         time.Unix(pi.Created, 0).UTC(),
		Metadata:        pi.Metadata,
	}
}

func ToRefundRecord(r *stripe.Refund, paymentIntentID string) *ledger.Refund {
	now := time.Now().UTC()
	return &ledger.Refund{
		RefundID:        r.ID,
		PaymentIntentID: paymentIntentID,
		Amount:          r.Amount,
		Currency:        r.Currency,
		Status:          ledger.RefundStatus(r.Status),
		StripeData:      r.Raw,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func ToPaymentRecordedEvent(p *ledger.Payment) events.PaymentRecorded {
	return events.PaymentRecorded{
		PaymentIntentID: p.PaymentIntentID,
		Amount:          p.Amount,
		Currency:        p.Currency,
		CustomerID:      p.CustomerID,
		At:              time.Now().UTC(),
	}
}

func ToRefundCreatedEvent(r *ledger.Refund) events.RefundCreated {
	return events.RefundCreated{
		RefundID:        r.RefundID,
		PaymentIntentID: r.PaymentIntentID,
		Amount:          r.Amount,
		Currency:        r.Currency,
		At:              time.Now().UTC(),
	}
}
