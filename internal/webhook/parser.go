package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformedPayload = errors.New("webhook: malformed payload")

// event is the envelope Stripe wraps every webhook delivery in.
type event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

func parseEvent(payload []byte) (*event, error) {
	var e event
	if err := json.Unmarshal(payload, &e); err != nil {
		return nil, errors.Join(ErrMalformedPayload, err)
	}
	if e.ID == "" || e.Type == "" {
		return nil, fmt.Errorf("%w: missing event id or type", ErrMalformedPayload)
	}
	return &e, nil
}

// intentObject is the slice of a payment_intent object the reconciler needs.
type intentObject struct {
	ID string `json:"id"`
}

func parseIntentObject(raw json.RawMessage) (*intentObject, error) {
	var o intentObject
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, errors.Join(ErrMalformedPayload, err)
	}
	if o.ID == "" {
		return nil, fmt.Errorf("%w: missing payment intent id", ErrMalformedPayload)
	}
	return &o, nil
}

// chargeObject carries the refund list of a charge.refunded event. Stripe
// nests refunds under charge.refunds.data.
type chargeObject struct {
	ID            string `json:"id"`
	PaymentIntent string `json:"payment_intent"`
	Refunds       struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	} `json:"refunds"`
}

func parseChargeObject(raw json.RawMessage) (*chargeObject, error) {
	var o chargeObject
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, errors.Join(ErrMalformedPayload, err)
	}
	return &o, nil
}
