package webhook

import (
	"context"
	"errors"
	"log"
	"time"

	"paygate/internal/events"
	"paygate/internal/ledger"
	"paygate/kit/broker"
	"paygate/kit/db"
	"paygate/kit/observability"
)

// ErrSignature rejects a delivery whose signature does not match. Nothing is
// persisted for a rejected delivery, so forged payloads cannot pollute the
// store.
var ErrSignature = errors.New("webhook: signature verification failed")

const (
	eventPaymentSucceeded = "payment_intent.succeeded"
	eventPaymentFailed    = "payment_intent.payment_failed"
	eventChargeRefunded   = "charge.refunded"
)

type Service struct {
	verifier VerifierContract
	ledger   ledger.Store
	bus      PublisherContract
	journal  JournalContract
	metrics  *observability.Metrics
}

func NewService(verifier VerifierContract, store ledger.Store, bus PublisherContract, journal JournalContract, metrics *observability.Metrics) *Service {
	return &Service{
		verifier: verifier,
		ledger:   store,
		bus:      bus,
		journal:  journal,
		metrics:  metrics,
	}
}

// Handle verifies, deduplicates and applies one webhook delivery. Stripe
// delivers at least once and may reorder; the event record's processed flag
// keeps the effect at most once. An error return leaves the record
// unprocessed so the redelivery can try again.
func (s *Service) Handle(ctx context.Context, payload []byte, signature string) error {
	ok, err := s.verifier.VerifyWebhookSignature(payload, signature)
	if err != nil {
		log.Printf("layer=service component=webhook method=Handle err=%v", err)
		return err
	}
	if !ok {
		if s.metrics != nil {
			s.metrics.WebhooksRejected.Add(1)
		}
		log.Printf("layer=service component=webhook method=Handle err=signature mismatch")
		return ErrSignature
	}

	evt, err := parseEvent(payload)
	if err != nil {
		log.Printf("layer=service component=webhook method=Handle err=%v", err)
		return err
	}

	existing, err := s.ledger.GetWebhookEvent(ctx, evt.ID)
	if err != nil && !db.IsNotFound(err) {
		log.Printf("layer=service component=webhook method=Handle event_id=%s err=%v", evt.ID, err)
		return err
	}
	if existing != nil && existing.Processed {
		if s.metrics != nil {
			s.metrics.WebhooksDuplicate.Add(1)
		}
		log.Printf("layer=service component=webhook method=Handle event_id=%s msg=duplicate delivery", evt.ID)
		return nil
	}

	if existing == nil {
		rec := &ledger.WebhookEvent{
			EventID:   evt.ID,
			EventType: evt.Type,
			EventData: payload,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.ledger.InsertWebhookEvent(ctx, rec); err != nil {
			log.Printf("layer=service component=webhook method=Handle event_id=%s err=%v", evt.ID, err)
			return err
		}
	}

	domainEvt, err := s.apply(ctx, evt)
	if err != nil {
		log.Printf("layer=service component=webhook method=Handle event_id=%s event_type=%s err=%v", evt.ID, evt.Type, err)
		return err
	}

	if err := s.ledger.MarkWebhookProcessed(ctx, evt.ID); err != nil {
		log.Printf("layer=service component=webhook method=Handle event_id=%s err=%v", evt.ID, err)
		return err
	}

	// Publishing is decoupled from the write: subscriber failures never undo
	// the state update.
	if domainEvt != nil {
		if s.journal != nil {
			_ = s.journal.Append(ctx, domainEvt.PartitionKey(), domainEvt)
		}
		if s.bus != nil {
			s.bus.Publish(ctx, domainEvt)
		}
	}
	if s.metrics != nil {
		s.metrics.WebhooksProcessed.Add(1)
	}
	return nil
}

type domainEvent interface {
	broker.Event
	PartitionKey() string
}

func (s *Service) apply(ctx context.Context, evt *event) (domainEvent, error) {
	switch evt.Type {
	case eventPaymentSucceeded:
		obj, err := parseIntentObject(evt.Data.Object)
		if err != nil {
			return nil, err
		}
		// No-op when the record is missing: the webhook may race ahead of
		// the finalize path.
		if err := s.ledger.UpdatePaymentStatus(ctx, obj.ID, ledger.PaymentSucceeded); err != nil {
			return nil, err
		}
		return events.PaymentSucceeded{PaymentIntentID: obj.ID, At: time.Now().UTC()}, nil

	case eventPaymentFailed:
		obj, err := parseIntentObject(evt.Data.Object)
		if err != nil {
			return nil, err
		}
		if err := s.ledger.UpdatePaymentStatus(ctx, obj.ID, ledger.PaymentFailed); err != nil {
			return nil, err
		}
		if s.metrics != nil {
			s.metrics.PaymentsFailed.Add(1)
		}
		return events.PaymentFailed{PaymentIntentID: obj.ID, At: time.Now().UTC()}, nil

	case eventChargeRefunded:
		charge, err := parseChargeObject(evt.Data.Object)
		if err != nil {
			return nil, err
		}
		if len(charge.Refunds.Data) == 0 {
			log.Printf("layer=service component=webhook method=apply event_id=%s msg=charge.refunded without refund list", evt.ID)
			return nil, nil
		}
		refundID := charge.Refunds.Data[0].ID
		if err := s.ledger.UpdateRefundStatus(ctx, refundID, ledger.RefundSucceeded); err != nil {
			return nil, err
		}
		return events.RefundSucceeded{RefundID: refundID, PaymentIntentID: charge.PaymentIntent, At: time.Now().UTC()}, nil

	default:
		// Unknown event types are recorded and ignored so new Stripe event
		// types never break the endpoint.
		log.Printf("layer=service component=webhook method=apply event_id=%s msg=unhandled event type event_type=%s", evt.ID, evt.Type)
		return events.WebhookIgnored{EventID: evt.ID, EventType: evt.Type, At: time.Now().UTC()}, nil
	}
}
