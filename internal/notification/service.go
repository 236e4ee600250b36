package notification

import (
	"context"
	"fmt"

	"paygate/internal/events"
	"paygate/kit/broker"
	"paygate/kit/observability"
)

// Service is the customer-facing notification hook. Delivery is a log line
// for now; the bus subscription is the integration point for a real mail or
// push provider.
type Service struct {
	logger *observability.Logger
}

func NewService(logger *observability.Logger) *Service {
	return &Service{logger: logger}
}

func (s *Service) HandlePaymentSucceeded(ctx context.Context, evt broker.Event) error {
	e, ok := evt.(events.PaymentSucceeded)
	if !ok {
		return fmt.Errorf("notification: unexpected event %s", evt.Name())
	}
	s.notify(e.PaymentIntentID, "your payment was received")
	return nil
}

func (s *Service) HandlePaymentFailed(ctx context.Context, evt broker.Event) error {
	e, ok := evt.(events.PaymentFailed)
	if !ok {
		return fmt.Errorf("notification: unexpected event %s", evt.Name())
	}
	s.notify(e.PaymentIntentID, "your payment could not be completed")
	return nil
}

func (s *Service) HandleRefundSucceeded(ctx context.Context, evt broker.Event) error {
	e, ok := evt.(events.RefundSucceeded)
	if !ok {
		return fmt.Errorf("notification: unexpected event %s", evt.Name())
	}
	s.notify(e.PaymentIntentID, "your refund was processed")
	return nil
}

func (s *Service) notify(paymentIntentID string, msg string) {
	if s.logger == nil {
		return
	}
	s.logger.Info("notify", "payment_intent_id", paymentIntentID, "msg", msg)
}
