package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"paygate/cmd/web/validator"
	"paygate/internal/customer"
	"paygate/internal/ledger"
	"paygate/kit/db"
)

type CustomerServiceContract interface {
	Register(ctx context.Context, req customer.RegisterRequest) (*ledger.Customer, error)
	Update(ctx context.Context, customerID string, req customer.RegisterRequest) (*ledger.Customer, error)
	Get(ctx context.Context, customerID string) (*ledger.Customer, error)
}

type Customer struct {
	json     *validator.JSON
	customer CustomerServiceContract
}

func NewCustomer(jsonV *validator.JSON, customerSvc CustomerServiceContract) *Customer {
	return &Customer{json: jsonV, customer: customerSvc}
}

type customerReq struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (r customerReq) toRegister() customer.RegisterRequest {
	return customer.RegisterRequest{Email: r.Email, Name: r.Name, Phone: r.Phone, Address: r.Address}
}

func (h *Customer) Register(w http.ResponseWriter, r *http.Request) {
	var req customerReq
	if err := h.json.Decode(w, r, &req); err != nil {
		log.Printf("layer=handler component=customer method=Register err=%v", err)
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	rec, err := h.customer.Register(r.Context(), req.toRegister())
	if err != nil {
		log.Printf("layer=handler component=customer method=Register email=%s err=%v", req.Email, err)
		writePaymentError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(rec); err != nil {
		log.Printf("layer=handler component=customer method=Register customer_id=%s err=%v", rec.CustomerID, err)
	}
}

func (h *Customer) Update(w http.ResponseWriter, r *http.Request) {
	customerID := customerIDFromPath(r)
	if customerID == "" {
		log.Printf("layer=handler component=customer method=Update err=missing customer_id")
		http.Error(w, "missing customer_id", http.StatusBadRequest)
		return
	}

	var req customerReq
	if err := h.json.Decode(w, r, &req); err != nil {
		log.Printf("layer=handler component=customer method=Update customer_id=%s err=%v", customerID, err)
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	rec, err := h.customer.Update(r.Context(), customerID, req.toRegister())
	if err != nil {
		log.Printf("layer=handler component=customer method=Update customer_id=%s err=%v", customerID, err)
		writePaymentError(w, err)
		return
	}

	if err := json.NewEncoder(w).Encode(rec); err != nil {
		log.Printf("layer=handler component=customer method=Update customer_id=%s err=%v", customerID, err)
	}
}

func (h *Customer) Get(w http.ResponseWriter, r *http.Request) {
	customerID := customerIDFromPath(r)
	if customerID == "" {
		log.Printf("layer=handler component=customer method=Get err=missing customer_id")
		http.Error(w, "missing customer_id", http.StatusBadRequest)
		return
	}

	rec, err := h.customer.Get(r.Context(), customerID)
	if err != nil {
		log.Printf("layer=handler component=customer method=Get customer_id=%s err=%v", customerID, err)
		if db.IsNotFound(err) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		writePaymentError(w, err)
		return
	}

	if err := json.NewEncoder(w).Encode(rec); err != nil {
		log.Printf("layer=handler component=customer method=Get customer_id=%s err=%v", customerID, err)
	}
}

func customerIDFromPath(r *http.Request) string {
	id := strings.TrimPrefix(r.URL.Path, "/customers/")
	if i := strings.IndexByte(id, '/'); i >= 0 {
		return ""
	}
	return id
}
