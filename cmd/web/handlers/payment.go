package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"paygate/cmd/web/validator"
	"paygate/internal/ledger"
	"paygate/internal/payment"
	"paygate/internal/stripe"
	"paygate/kit/db"
)

type PaymentServiceContract interface {
	CreateIntent(ctx context.Context, req payment.IntentRequest) (*payment.Intent, error)
	Finalize(ctx context.Context, paymentIntentID string, metadata map[string]string) (*payment.Result, error)
	Refund(ctx context.Context, paymentIntentID string, amount int64, metadata map[string]string) (*ledger.Refund, error)
	GetPayment(ctx context.Context, paymentIntentID string) (*ledger.Payment, error)
	ListCustomerPayments(ctx context.Context, customerID string, limit int) ([]ledger.Payment, error)
}

type Payment struct {
	json    *validator.JSON
	payment PaymentServiceContract
}

func NewPayment(jsonV *validator.JSON, paymentSvc PaymentServiceContract) *Payment {
	return &Payment{json: jsonV, payment: paymentSvc}
}

type createIntentReq struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
}

func (h *Payment) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req createIntentReq
	if err := h.json.Decode(w, r, &req); err != nil {
		log.Printf("layer=handler component=payment method=CreateIntent err=%v", err)
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	intent, err := h.payment.CreateIntent(r.Context(), payment.IntentRequest{
		Amount:   req.Amount,
		Currency: req.Currency,
		Metadata: req.Metadata,
	})
	if err != nil {
		log.Printf("layer=handler component=payment method=CreateIntent amount=%d currency=%s err=%v", req.Amount, req.Currency, err)
		writePaymentError(w, err)
		return
	}

	if err := json.NewEncoder(w).Encode(intent); err != nil {
		log.Printf("layer=handler component=payment method=CreateIntent payment_intent_id=%s err=%v", intent.PaymentIntentID, err)
	}
}

type finalizeReq struct {
	PaymentIntentID string            `json:"payment_intent_id"`
	Metadata        map[string]string `json:"metadata"`
}

func (h *Payment) Finalize(w http.ResponseWriter, r *http.Request) {
	var req finalizeReq
	if err := h.json.Decode(w, r, &req); err != nil {
		log.Printf("layer=handler component=payment method=Finalize err=%v", err)
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	res, err := h.payment.Finalize(r.Context(), req.PaymentIntentID, req.Metadata)
	if err != nil {
		log.Printf("layer=handler component=payment method=Finalize payment_intent_id=%s err=%v", req.PaymentIntentID, err)
		writePaymentError(w, err)
		return
	}

	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.Printf("layer=handler component=payment method=Finalize payment_intent_id=%s err=%v", req.PaymentIntentID, err)
	}
}

type refundReq struct {
	PaymentIntentID string            `json:"payment_intent_id"`
	Amount          int64             `json:"amount"`
	Metadata        map[string]string `json:"metadata"`
}

func (h *Payment) Refund(w http.ResponseWriter, r *http.Request) {
	var req refundReq
	if err := h.json.Decode(w, r, &req); err != nil {
		log.Printf("layer=handler component=payment method=Refund err=%v", err)
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	rec, err := h.payment.Refund(r.Context(), req.PaymentIntentID, req.Amount, req.Metadata)
	if err != nil {
		log.Printf("layer=handler component=payment method=Refund payment_intent_id=%s amount=%d err=%v", req.PaymentIntentID, req.Amount, err)
		writePaymentError(w, err)
		return
	}

	if err := json.NewEncoder(w).Encode(map[string]any{
		"refund_id":         rec.RefundID,
		"payment_intent_id": rec.PaymentIntentID,
		"amount":            rec.Amount,
		"status":            rec.Status,
	}); err != nil {
		log.Printf("layer=handler component=payment method=Refund payment_intent_id=%s err=%v", req.PaymentIntentID, err)
	}
}

func (h *Payment) Get(w http.ResponseWriter, r *http.Request) {
	paymentIntentID := strings.TrimPrefix(r.URL.Path, "/payments/")
	if paymentIntentID == "" {
		log.Printf("layer=handler component=payment method=Get err=missing payment_intent_id")
		http.Error(w, "missing payment_intent_id", http.StatusBadRequest)
		return
	}

	p, err := h.payment.GetPayment(r.Context(), paymentIntentID)
	if err != nil {
		log.Printf("layer=handler component=payment method=Get payment_intent_id=%s err=%v", paymentIntentID, err)
		writePaymentError(w, err)
		return
	}

	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Printf("layer=handler component=payment method=Get payment_intent_id=%s err=%v", paymentIntentID, err)
	}
}

func (h *Payment) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/customers/")
	customerID := strings.TrimSuffix(rest, "/payments")
	if customerID == "" || customerID == rest {
		log.Printf("layer=handler component=payment method=ListByCustomer err=missing customer_id")
		http.Error(w, "missing customer_id", http.StatusBadRequest)
		return
	}

	ps, err := h.payment.ListCustomerPayments(r.Context(), customerID, listLimit(r))
	if err != nil {
		log.Printf("layer=handler component=payment method=ListByCustomer customer_id=%s err=%v", customerID, err)
		writePaymentError(w, err)
		return
	}
	if ps == nil {
		ps = []ledger.Payment{}
	}

	if err := json.NewEncoder(w).Encode(map[string]any{"payments": ps}); err != nil {
		log.Printf("layer=handler component=payment method=ListByCustomer customer_id=%s err=%v", customerID, err)
	}
}

func listLimit(r *http.Request) int {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	return limit
}

// writePaymentError maps service errors onto the HTTP surface. Processor
// rejections carry their own status; declined and canceled intents are payment
// failures, not server errors.
func writePaymentError(w http.ResponseWriter, err error) {
	var apiErr *stripe.APIError
	switch {
	case db.IsInvalid(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, stripe.ErrMissingID),
		errors.Is(err, stripe.ErrInvalidAmount),
		errors.Is(err, stripe.ErrUnsupportedCurrency),
		errors.Is(err, stripe.ErrMissingField):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case db.IsNotFound(err):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, payment.ErrPaymentFailed), errors.Is(err, payment.ErrPaymentCanceled):
		http.Error(w, err.Error(), http.StatusPaymentRequired)
	case errors.Is(err, payment.ErrRequiresAction):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.As(err, &apiErr):
		http.Error(w, apiErr.Message, http.StatusBadGateway)
	case errors.Is(err, stripe.ErrTransport):
		http.Error(w, "payment processor unreachable", http.StatusBadGateway)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
