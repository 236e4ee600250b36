package events

import "time"

// PaymentRecorded is published by the finalize path once a succeeded intent
// has been written to the ledger.
type PaymentRecorded struct {
	PaymentIntentID string    `json:"payment_intent_id"`
	Amount          int64     `json:"amount"`
	Currency        string    `json:"currency"`
	CustomerID      string    `json:"customer_id"`
	At              time.Time `json:"at"`
}

func (PaymentRecorded) Name() string { return "payment.recorded" }

func (e PaymentRecorded) PartitionKey() string { return e.PaymentIntentID }

// PaymentSucceeded is published by the webhook reconciler after a
// payment_intent.succeeded event updated the ledger.
type PaymentSucceeded struct {
	PaymentIntentID string    `json:"payment_intent_id"`
	At              time.Time `json:"at"`
}

func (PaymentSucceeded) Name() string { return "payment.succeeded" }

func (e PaymentSucceeded) PartitionKey() string { return e.PaymentIntentID }

type PaymentFailed struct {
	PaymentIntentID string    `json:"payment_intent_id"`
	At              time.Time `json:"at"`
}

func (PaymentFailed) Name() string { return "payment.failed" }

func (e PaymentFailed) PartitionKey() string { return e.PaymentIntentID }

type RefundCreated struct {
	RefundID        string    `json:"refund_id"`
	PaymentIntentID string    `json:"payment_intent_id"`
	Amount          int64     `json:"amount"`
	Currency        string    `json:"currency"`
	At              time.Time `json:"at"`
}

func (RefundCreated) Name() string { return "refund.created" }

func (e RefundCreated) PartitionKey() string { return e.PaymentIntentID }

type RefundSucceeded struct {
	RefundID        string    `json:"refund_id"`
	PaymentIntentID string    `json:"payment_intent_id"`
	At              time.Time `json:"at"`
}

func (RefundSucceeded) Name() string { return "refund.succeeded" }

func (e RefundSucceeded) PartitionKey() string { return e.PaymentIntentID }

type CustomerRegistered struct {
	CustomerID string    `json:"customer_id"`
	Email      string    `json:"email"`
	At         time.Time `json:"at"`
}

func (CustomerRegistered) Name() string { return "customer.registered" }

func (e CustomerRegistered) PartitionKey() string { return e.CustomerID }

// WebhookIgnored is published when an event type the reconciler does not
// handle is received and recorded.
type WebhookIgnored struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	At        time.Time `json:"at"`
}

func (WebhookIgnored) Name() string { return "webhook.ignored" }

func (e WebhookIgnored) PartitionKey() string { return e.EventID }
