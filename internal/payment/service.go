package payment

import (
	"context"
	"errors"
	"fmt"
	"log"

	"paygate/internal/ledger"
	"paygate/internal/stripe"
	"paygate/kit/db"
	"paygate/kit/observability"
)

// Terminal outcomes of Finalize that are not a success. ErrPaymentFailed is
// user-recoverable (pick another payment method), ErrRequiresAction means
// the client must run an extra step such as 3-D Secure.
var (
	ErrPaymentFailed   = errors.New("payment method failed")
	ErrRequiresAction  = errors.New("payment requires additional action")
	ErrPaymentCanceled = errors.New("payment was canceled")
	ErrUnknownStatus   = errors.New("unknown payment status")

	// ErrPersistence signals that the Stripe-side operation succeeded but the
	// local write failed; the ledger catches up on the next webhook delivery.
	ErrPersistence = errors.New("persistence failed after processor call")
)

const (
	statusSucceeded             = "succeeded"
	statusRequiresConfirmation  = "requires_confirmation"
	statusRequiresPaymentMethod = "requires_payment_method"
	statusRequiresAction        = "requires_action"
	statusCanceled              = "canceled"
)

type Service struct {
	processor ProcessorContract
	ledger    ledger.Store
	bus       PublisherContract
	journal   JournalContract
	metrics   *observability.Metrics
}

func NewService(processor ProcessorContract, store ledger.Store, bus PublisherContract, journal JournalContract, metrics *observability.Metrics) *Service {
	return &Service{
		processor: processor,
		ledger:    store,
		bus:       bus,
		journal:   journal,
		metrics:   metrics,
	}
}

// CreateIntent validates the request and creates the intent at Stripe.
// Nothing is persisted until Finalize learns an outcome.
func (s *Service) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	if err := ValidateIntentRequest(req); err != nil {
		log.Printf("layer=service component=payment method=CreateIntent amount=%d currency=%s err=%v", req.Amount, req.Currency, err)
		return nil, errors.Join(db.ErrInvalid, err)
	}

	pi, err := s.processor.CreatePaymentIntent(ctx, req.Amount, req.Currency, req.Metadata)
	if err != nil {
		log.Printf("layer=service component=payment method=CreateIntent amount=%d currency=%s err=%v", req.Amount, req.Currency, err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IntentsCreated.Add(1)
	}
	return ToIntent(pi), nil
}

// Finalize retrieves the intent's current status from Stripe, confirms it if
// Stripe is still waiting on confirmation, and persists the outcome. Calling
// it again for an already-succeeded intent upserts the same record and
// returns an equivalent result.
func (s *Service) Finalize(ctx context.Context, paymentIntentID string, metadata map[string]string) (*Result, error) {
	if paymentIntentID == "" {
		return nil, errors.Join(db.ErrInvalid, ErrMissingIntentID)
	}
	if err := ValidateMetadata(metadata); err != nil {
		return nil, errors.Join(db.ErrInvalid, err)
	}

	pi, err := s.processor.RetrievePaymentIntent(ctx, paymentIntentID)
	if err != nil {
		log.Printf("layer=service component=payment method=Finalize payment_intent_id=%s err=%v", paymentIntentID, err)
		return nil, err
	}

	if pi.Status == statusRequiresConfirmation {
		confirmed, err := s.processor.ConfirmPaymentIntent(ctx, paymentIntentID, nil)
		if err != nil {
			log.Printf("layer=service component=payment method=Finalize payment_intent_id=%s err=%v", paymentIntentID, err)
			return nil, err
		}
		pi = confirmed
	}

	switch pi.Status {
	case statusSucceeded:
		return s.recordSuccess(ctx, pi, metadata)
	case statusRequiresPaymentMethod:
		if s.metrics != nil {
			s.metrics.PaymentsFailed.Add(1)
		}
		return nil, ErrPaymentFailed
	case statusRequiresAction:
		return nil, ErrRequiresAction
	case statusCanceled:
		return nil, ErrPaymentCanceled
	default:
		log.Printf("layer=service component=payment method=Finalize payment_intent_id=%s err=unknown status=%s", paymentIntentID, pi.Status)
		return nil, fmt.Errorf("%w: %s", ErrUnknownStatus, pi.Status)
	}
}

func (s *Service) recordSuccess(ctx context.Context, pi *stripe.PaymentIntent, metadata map[string]string) (*Result, error) {
	rec := ToPaymentRecord(pi, metadata)
	if err := s.ledger.UpsertPayment(ctx, rec); err != nil {
		log.Printf("layer=service component=payment method=Finalize payment_intent_id=%s err=%v", pi.ID, err)
		return nil, errors.Join(ErrPersistence, err)
	}

	evt := ToPaymentRecordedEvent(rec)
	if s.journal != nil {
		_ = s.journal.Append(ctx, pi.ID, evt)
	}
	if s.bus != nil {
		s.bus.Publish(ctx, evt)
	}
	if s.metrics != nil {
		s.metrics.PaymentsRecorded.Add(1)
	}
	return ToResult(pi), nil
}

// Refund delegates to Stripe and inserts the refund record. Refund ids are
// Stripe-generated and unique, so this is a plain insert, not an upsert.
func (s *Service) Refund(ctx context.Context, paymentIntentID string, amount int64, metadata map[string]string) (*ledger.Refund, error) {
	if err := ValidateMetadata(metadata); err != nil {
		return nil, errors.Join(db.ErrInvalid, err)
	}

	refund, err := s.processor.CreateRefund(ctx, paymentIntentID, amount, metadata)
	if err != nil {
		log.Printf("layer=service component=payment method=Refund payment_intent_id=%s err=%v", paymentIntentID, err)
		return nil, err
	}

	rec := ToRefundRecord(refund, paymentIntentID)
	if err := s.ledger.InsertRefund(ctx, rec); err != nil {
		log.Printf("layer=service component=payment method=Refund payment_intent_id=%s refund_id=%s err=%v", paymentIntentID, refund.ID, err)
		return nil, errors.Join(ErrPersistence, err)
	}

	evt := ToRefundCreatedEvent(rec)
	if s.journal != nil {
		_ = s.journal.Append(ctx, paymentIntentID, evt)
	}
	if s.bus != nil {
		s.bus.Publish(ctx, evt)
	}
	if s.metrics != nil {
		s.metrics.RefundsCreated.Add(1)
	}
	return rec, nil
}

func (s *Service) GetPayment(ctx context.Context, paymentIntentID string) (*ledger.Payment, error) {
	p, err := s.ledger.GetPayment(ctx, paymentIntentID)
	if err != nil {
		log.Printf("layer=service component=payment method=GetPayment payment_intent_id=%s err=%v", paymentIntentID, err)
		return nil, err
	}
	return p, nil
}

func (s *Service) ListCustomerPayments(ctx context.Context, customerID string, limit int) ([]ledger.Payment, error) {
	ps, err := s.ledger.ListPaymentsByCustomer(ctx, customerID, limit)
	if err != nil {
		log.Printf("layer=service component=payment method=ListCustomerPayments customer_id=%s err=%v", customerID, err)
		return nil, err
	}
	return ps, nil
}
