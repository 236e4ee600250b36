package observability

import "sync/atomic"

type Metrics struct {
	IntentsCreated      atomic.Int64
	PaymentsRecorded    atomic.Int64
	PaymentsFailed      atomic.Int64
	RefundsCreated      atomic.Int64
	WebhooksProcessed   atomic.Int64
	WebhooksDuplicate   atomic.Int64
	WebhooksRejected    atomic.Int64
	CustomersRegistered atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}
