package ledger

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"paygate/kit/db"
)

// SQLStore persists the ledger through a db.Client. Timestamps cross the
// client boundary as RFC 3339 strings, metadata and raw Stripe payloads as
// JSON text.
type SQLStore struct {
	db db.Client
}

func NewSQLStore(dbClient db.Client) *SQLStore {
	return &SQLStore{db: dbClient}
}

const (
	qPaymentUpsert      = "INSERT INTO payments (payment_intent_id, amount, currency, status, customer_id, metadata, stripe_data, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) ON DUPLICATE KEY UPDATE amount=?, currency=?, status=?, customer_id=?, metadata=?, stripe_data=?, updated_at=?"
	qPaymentGet         = "SELECT payment_intent_id, amount, currency, status, customer_id, metadata, stripe_data, created_at, updated_at FROM payments WHERE payment_intent_id = ?"
	qPaymentStatus      = "UPDATE payments SET status = ?, updated_at = ? WHERE payment_intent_id = ? AND status NOT IN ('succeeded', 'canceled')"
	qPaymentsByCustomer = "SELECT payment_intent_id, amount, currency, status, customer_id, metadata, stripe_data, created_at, updated_at FROM payments WHERE customer_id = ? ORDER BY created_at DESC LIMIT ?"

	qRefundInsert = "INSERT INTO refunds (refund_id, payment_intent_id, amount, currency, status, stripe_data, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
	qRefundGet    = "SELECT refund_id, payment_intent_id, amount, currency, status, stripe_data, created_at, updated_at FROM refunds WHERE refund_id = ?"
	qRefundStatus = "UPDATE refunds SET status = ?, updated_at = ? WHERE refund_id = ?"

	qCustomerUpsert = "INSERT INTO customers (customer_id, email, name, phone, address, stripe_data, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?) ON DUPLICATE KEY UPDATE email=?, name=?, phone=?, address=?, stripe_data=?, updated_at=?"
	qCustomerGet    = "SELECT customer_id, email, name, phone, address, stripe_data, created_at, updated_at FROM customers WHERE customer_id = ?"

	qWebhookInsert = "INSERT INTO webhook_events (event_id, event_type, event_data, processed, created_at) VALUES (?, ?, ?, 0, ?) ON DUPLICATE KEY UPDATE event_type=event_type"
	qWebhookGet    = "SELECT event_id, event_type, event_data, processed, created_at, processed_at FROM webhook_events WHERE event_id = ?"
	qWebhookMark   = "UPDATE webhook_events SET processed = 1, processed_at = ? WHERE event_id = ?"
	qWebhookRecent = "SELECT event_id, event_type, event_data, processed, created_at, processed_at FROM webhook_events ORDER BY created_at DESC LIMIT ?"
)

func (s *SQLStore) UpsertPayment(ctx context.Context, p *Payment) error {
	meta, err := json.Marshal(p.Metadata)
	if err != nil {
		log.Printf("layer=repo component=ledger method=UpsertPayment payment_intent_id=%s err=%v", p.PaymentIntentID, err)
		return err
	}
	created := p.CreatedAt.UTC().Format(time.RFC3339Nano)
	updated := p.UpdatedAt.UTC().Format(time.RFC3339Nano)
	if err := s.db.Exec(
		ctx,
		qPaymentUpsert,
		p.PaymentIntentID,
		p.Amount,
		p.Currency,
		string(p.Status),
		p.CustomerID,
		string(meta),
		string(p.StripeData),
		created,
		updated,
		p.Amount,
		p.Currency,
		string(p.Status),
		p.CustomerID,
		string(meta),
		string(p.StripeData),
		updated,
	); err != nil {
		log.Printf("layer=repo component=ledger method=UpsertPayment payment_intent_id=%s err=%v", p.PaymentIntentID, err)
		return err
	}
	return nil
}

func (s *SQLStore) GetPayment(ctx context.Context, paymentIntentID string) (*Payment, error) {
	row, err := s.db.QueryRow(ctx, qPaymentGet, paymentIntentID)
	if err != nil {
		log.Printf("layer=repo component=ledger method=GetPayment payment_intent_id=%s err=%v", paymentIntentID, err)
		return nil, err
	}
	p, err := scanPayment(row)
	if err != nil {
		log.Printf("layer=repo component=ledger method=GetPayment payment_intent_id=%s err=%v", paymentIntentID, err)
		return nil, err
	}
	return p, nil
}

func (s *SQLStore) UpdatePaymentStatus(ctx context.Context, paymentIntentID string, status PaymentStatus) error {
	updated := time.Now().UTC().Format(time.RFC3339Nano)
	if err := s.db.Exec(ctx, qPaymentStatus, string(status), updated, paymentIntentID); err != nil {
		log.Printf("layer=repo component=ledger method=UpdatePaymentStatus payment_intent_id=%s status=%s err=%v", paymentIntentID, status, err)
		return err
	}
	return nil
}

func (s *SQLStore) ListPaymentsByCustomer(ctx context.Context, customerID string, limit int) ([]Payment, error) {
	rows, err := s.db.Query(ctx, qPaymentsByCustomer, customerID, int64(limit))
	if err != nil {
		log.Printf("layer=repo component=ledger method=ListPaymentsByCustomer customer_id=%s err=%v", customerID, err)
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			log.Printf("layer=repo component=ledger method=ListPaymentsByCustomer customer_id=%s err=%v", customerID, err)
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *SQLStore) InsertRefund(ctx context.Context, r *Refund) error {
	created := r.CreatedAt.UTC().Format(time.RFC3339Nano)
	updated := r.UpdatedAt.UTC().Format(time.RFC3339Nano)
	if err := s.db.Exec(
		ctx,
		qRefundInsert,
		r.RefundID,
		r.PaymentIntentID,
		r.Amount,
		r.Currency,
		string(r.Status),
		string(r.StripeData),
		created,
		updated,
	); err != nil {
		log.Printf("layer=repo component=ledger method=InsertRefund refund_id=%s payment_intent_id=%s err=%v", r.RefundID, r.PaymentIntentID, err)
		return err
	}
	return nil
}

func (s *SQLStore) GetRefund(ctx context.Context, refundID string) (*Refund, error) {
	row, err := s.db.QueryRow(ctx, qRefundGet, refundID)
	if err != nil {
		log.Printf("layer=repo component=ledger method=GetRefund refund_id=%s err=%v", refundID, err)
		return nil, err
	}
	var (
		r                Refund
		status           string
		raw              string
		created, updated string
	)
	if err := row.Scan(&r.RefundID, &r.PaymentIntentID, &r.Amount, &r.Currency, &status, &raw, &created, &updated); err != nil {
		log.Printf("layer=repo component=ledger method=GetRefund refund_id=%s err=%v", refundID, err)
		return nil, err
	}
	r.Status = RefundStatus(status)
	r.StripeData = []byte(raw)
	r.CreatedAt = parseTime(created)
	r.UpdatedAt = parseTime(updated)
	return &r, nil
}

func (s *SQLStore) UpdateRefundStatus(ctx context.Context, refundID string, status RefundStatus) error {
	updated := time.Now().UTC().Format(time.RFC3339Nano)
	if err := s.db.Exec(ctx, qRefundStatus, string(status), updated, refundID); err != nil {
		log.Printf("layer=repo component=ledger method=UpdateRefundStatus refund_id=%s status=%s err=%v", refundID, status, err)
		return err
	}
	return nil
}

func (s *SQLStore) UpsertCustomer(ctx context.Context, c *Customer) error {
	created := c.CreatedAt.UTC().Format(time.RFC3339Nano)
	updated := c.UpdatedAt.UTC().Format(time.RFC3339Nano)
	if err := s.db.Exec(
		ctx,
		qCustomerUpsert,
		c.CustomerID,
		c.Email,
		c.Name,
		c.Phone,
		c.Address,
		string(c.StripeData),
		created,
		updated,
		c.Email,
		c.Name,
		c.Phone,
		c.Address,
		string(c.StripeData),
		updated,
	); err != nil {
		log.Printf("layer=repo component=ledger method=UpsertCustomer customer_id=%s err=%v", c.CustomerID, err)
		return err
	}
	return nil
}

func (s *SQLStore) GetCustomer(ctx context.Context, customerID string) (*Customer, error) {
	row, err := s.db.QueryRow(ctx, qCustomerGet, customerID)
	if err != nil {
		log.Printf("layer=repo component=ledger method=GetCustomer customer_id=%s err=%v", customerID, err)
		return nil, err
	}
	var (
		c                Customer
		raw              string
		created, updated string
	)
	if err := row.Scan(&c.CustomerID, &c.Email, &c.Name, &c.Phone, &c.Address, &raw, &created, &updated); err != nil {
		log.Printf("layer=repo component=ledger method=GetCustomer customer_id=%s err=%v", customerID, err)
		return nil, err
	}
	c.StripeData = []byte(raw)
	c.CreatedAt = parseTime(created)
	c.UpdatedAt = parseTime(updated)
	return &c, nil
}

func (s *SQLStore) InsertWebhookEvent(ctx context.Context, e *WebhookEvent) error {
	created := e.CreatedAt.UTC().Format(time.RFC3339Nano)
	if err := s.db.Exec(ctx, qWebhookInsert, e.EventID, e.EventType, string(e.EventData), created); err != nil {
		log.Printf("layer=repo component=ledger method=InsertWebhookEvent event_id=%s err=%v", e.EventID, err)
		return err
	}
	return nil
}

func (s *SQLStore) GetWebhookEvent(ctx context.Context, eventID string) (*WebhookEvent, error) {
	row, err := s.db.QueryRow(ctx, qWebhookGet, eventID)
	if err != nil {
		log.Printf("layer=repo component=ledger method=GetWebhookEvent event_id=%s err=%v", eventID, err)
		return nil, err
	}
	e, err := scanWebhookEvent(row)
	if err != nil {
		log.Printf("layer=repo component=ledger method=GetWebhookEvent event_id=%s err=%v", eventID, err)
		return nil, err
	}
	return e, nil
}

func (s *SQLStore) MarkWebhookProcessed(ctx context.Context, eventID string) error {
	processed := time.Now().UTC().Format(time.RFC3339Nano)
	if err := s.db.Exec(ctx, qWebhookMark, processed, eventID); err != nil {
		log.Printf("layer=repo component=ledger method=MarkWebhookProcessed event_id=%s err=%v", eventID, err)
		return err
	}
	return nil
}

func (s *SQLStore) ListRecentWebhookEvents(ctx context.Context, limit int) ([]WebhookEvent, error) {
	rows, err := s.db.Query(ctx, qWebhookRecent, int64(limit))
	if err != nil {
		log.Printf("layer=repo component=ledger method=ListRecentWebhookEvents err=%v", err)
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []WebhookEvent
	for rows.Next() {
		e, err := scanWebhookEvent(rows)
		if err != nil {
			log.Printf("layer=repo component=ledger method=ListRecentWebhookEvents err=%v", err)
			return nil, err
		}
		out = append(out, *e)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPayment(row scanner) (*Payment, error) {
	var (
		p                Payment
		status           string
		meta             string
		raw              string
		created, updated string
	)
	if err := row.Scan(&p.PaymentIntentID, &p.Amount, &p.Currency, &status, &p.CustomerID, &meta, &raw, &created, &updated); err != nil {
		return nil, err
	}
	p.Status = PaymentStatus(status)
	p.StripeData = []byte(raw)
	if meta != "" && meta != "null" {
		if err := json.Unmarshal([]byte(meta), &p.Metadata); err != nil {
			return nil, err
		}
	}
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
	return &p, nil
}

func scanWebhookEvent(row scanner) (*WebhookEvent, error) {
	var (
		e                    WebhookEvent
		raw                  string
		processed            int64
		created, processedAt string
	)
	if err := row.Scan(&e.EventID, &e.EventType, &raw, &processed, &created, &processedAt); err != nil {
		return nil, err
	}
	e.EventData = []byte(raw)
	e.Processed = processed != 0
	e.CreatedAt = parseTime(created)
	if processedAt != "" {
		e.ProcessedAt = parseTime(processedAt)
	}
	return &e, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
