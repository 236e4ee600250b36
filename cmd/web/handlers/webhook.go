package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"paygate/internal/ledger"
	"paygate/internal/stripe"
	"paygate/internal/webhook"
)

const maxWebhookBody = 1 << 20

type WebhookServiceContract interface {
	Handle(ctx context.Context, payload []byte, signature string) error
}

type WebhookStoreContract interface {
	ListRecentWebhookEvents(ctx context.Context, limit int) ([]ledger.WebhookEvent, error)
}

type Webhook struct {
	webhook WebhookServiceContract
	store   WebhookStoreContract
}

func NewWebhook(webhookSvc WebhookServiceContract, store WebhookStoreContract) *Webhook {
	return &Webhook{webhook: webhookSvc, store: store}
}

// Receive is the Stripe delivery endpoint. The raw body is read before any
// parsing because the signature covers the exact bytes on the wire. A non-2xx
// answer makes Stripe redeliver, so only rejections that retrying cannot fix
// (bad signature, malformed payload) get a 4xx.
func (h *Webhook) Receive(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		log.Printf("layer=handler component=webhook method=Receive err=%v", err)
		http.Error(w, "cannot read body", http.StatusBadRequest)
		return
	}
	signature := r.Header.Get("Stripe-Signature")

	if err := h.webhook.Handle(r.Context(), payload, signature); err != nil {
		log.Printf("layer=handler component=webhook method=Receive err=%v", err)
		switch {
		case errors.Is(err, webhook.ErrSignature), errors.Is(err, stripe.ErrNotConfigured):
			http.Error(w, "signature verification failed", http.StatusBadRequest)
		case errors.Is(err, webhook.ErrMalformedPayload):
			http.Error(w, "malformed payload", http.StatusBadRequest)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	if err := json.NewEncoder(w).Encode(map[string]bool{"received": true}); err != nil {
		log.Printf("layer=handler component=webhook method=Receive err=%v", err)
	}
}

// Events lists recent deliveries for the admin surface.
func (h *Webhook) Events(w http.ResponseWriter, r *http.Request) {
	evts, err := h.store.ListRecentWebhookEvents(r.Context(), listLimit(r))
	if err != nil {
		log.Printf("layer=handler component=webhook method=Events err=%v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if evts == nil {
		evts = []ledger.WebhookEvent{}
	}

	if err := json.NewEncoder(w).Encode(map[string]any{"events": evts}); err != nil {
		log.Printf("layer=handler component=webhook method=Events err=%v", err)
	}
}
