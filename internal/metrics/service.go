package metrics

import "paygate/kit/observability"

type Service struct {
	m *observability.Metrics
}

func NewService(m *observability.Metrics) *Service {
	return &Service{m: m}
}

func (s *Service) Snapshot() map[string]int64 {
	if s.m == nil {
		return map[string]int64{}
	}
	return map[string]int64{
		"intents_created":      s.m.IntentsCreated.Load(),
		"payments_recorded":    s.m.PaymentsRecorded.Load(),
		"payments_failed":      s.m.PaymentsFailed.Load(),
		"refunds_created":      s.m.RefundsCreated.Load(),
		"webhooks_processed":   s.m.WebhooksProcessed.Load(),
		"webhooks_duplicate":   s.m.WebhooksDuplicate.Load(),
		"webhooks_rejected":    s.m.WebhooksRejected.Load(),
		"customers_registered": s.m.CustomersRegistered.Load(),
	}
}
