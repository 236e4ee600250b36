package customer

import (
	"context"
	"errors"
	"log"
	"time"

	"paygate/internal/events"
	"paygate/internal/ledger"
	"paygate/internal/stripe"
	"paygate/kit/db"
	"paygate/kit/observability"
)

var ErrMissingEmail = errors.New("email is required")

type RegisterRequest struct {
	Email   string
	Name    string
	Phone   string
	Address string
}

func (r RegisterRequest) fields() map[string]string {
	fields := map[string]string{"email": r.Email}
	if r.Name != "" {
		fields["name"] = r.Name
	}
	if r.Phone != "" {
		fields["phone"] = r.Phone
	}
	return fields
}

type Service struct {
	processor ProcessorContract
	ledger    ledger.Store
	bus       PublisherContract
	metrics   *observability.Metrics
}

func NewService(processor ProcessorContract, store ledger.Store, bus PublisherContract, metrics *observability.Metrics) *Service {
	return &Service{processor: processor, ledger: store, bus: bus, metrics: metrics}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*ledger.Customer, error) {
	if req.Email == "" {
		return nil, errors.Join(db.ErrInvalid, ErrMissingEmail)
	}

	c, err := s.processor.CreateCustomer(ctx, req.fields())
	if err != nil {
		log.Printf("layer=service component=customer method=Register email=%s err=%v", req.Email, err)
		return nil, err
	}

	rec := toRecord(c, req.Address)
	if err := s.ledger.UpsertCustomer(ctx, rec); err != nil {
		log.Printf("layer=service component=customer method=Register customer_id=%s err=%v", c.ID, err)
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.CustomerRegistered{CustomerID: rec.CustomerID, Email: rec.Email, At: time.Now().UTC()})
	}
	if s.metrics != nil {
		s.metrics.CustomersRegistered.Add(1)
	}
	return rec, nil
}

func (s *Service) Update(ctx context.Context, customerID string, req RegisterRequest) (*ledger.Customer, error) {
	c, err := s.processor.UpdateCustomer(ctx, customerID, req.fields())
	if err != nil {
		log.Printf("layer=service component=customer method=Update customer_id=%s err=%v", customerID, err)
		return nil, err
	}

	rec := toRecord(c, req.Address)
	if err := s.ledger.UpsertCustomer(ctx, rec); err != nil {
		log.Printf("layer=service component=customer method=Update customer_id=%s err=%v", customerID, err)
		return nil, err
	}
	return rec, nil
}

// Get serves from the ledger and falls back to Stripe on a miss, caching
// the result.
func (s *Service) Get(ctx context.Context, customerID string) (*ledger.Customer, error) {
	rec, err := s.ledger.GetCustomer(ctx, customerID)
	if err == nil {
		return rec, nil
	}
	if !db.IsNotFound(err) {
		log.Printf("layer=service component=customer method=Get customer_id=%s err=%v", customerID, err)
		return nil, err
	}

	c, err := s.processor.RetrieveCustomer(ctx, customerID)
	if err != nil {
		log.Printf("layer=service component=customer method=Get customer_id=%s err=%v", customerID, err)
		return nil, err
	}
	rec = toRecord(c, "")
	if err := s.ledger.UpsertCustomer(ctx, rec); err != nil {
		log.Printf("layer=service component=customer method=Get customer_id=%s err=%v", customerID, err)
		return nil, err
	}
	return rec, nil
}

func toRecord(c *stripe.Customer, address string) *ledger.Customer {
	now := time.Now().UTC()
	return &ledger.Customer{
		CustomerID: c.ID,
		Email:      c.Email,
		Name:       c.Name,
		Phone:      c.Phone,
		Address:    address,
		StripeData: c.Raw,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
