package webhook

import (
	"context"

	"paygate/kit/broker"
)

// VerifierContract define signature verification responsibility.
type VerifierContract interface {
	VerifyWebhookSignature(payload []byte, signature string) (bool, error)
}

// ServiceContract define webhook reconciliation responsibility.
type ServiceContract interface {
	Handle(ctx context.Context, payload []byte, signature string) error
}

// PublisherContract define publish responsibility (broker).
type PublisherContract interface {
	Publish(ctx context.Context, evt broker.Event) []error
}

// JournalContract define append responsibility (event journal).
type JournalContract interface {
	Append(ctx context.Context, aggregateID string, evt broker.Event) error
}
