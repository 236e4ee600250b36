package db

import (
	"context"
	"errors"
	"log"
	"sync"
)

// MemoryClient is an in-memory Client that understands the ledger queries.
// It backs the "memory" store backend and the SQL-store tests, so no real
// database driver is needed to run the service locally.
type MemoryClient struct {
	mu sync.Mutex

	payments      map[string][]any
	paymentOrder  []string
	refunds       map[string][]any
	customers     map[string][]any
	webhookEvents map[string][]any
	webhookOrder  []string
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		payments:      make(map[string][]any),
		refunds:       make(map[string][]any),
		customers:     make(map[string][]any),
		webhookEvents: make(map[string][]any),
	}
}

func (c *MemoryClient) Exec(ctx context.Context, query string, args ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch query {
	case "INSERT INTO payments (payment_intent_id, amount, currency, status, customer_id, metadata, stripe_data, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) ON DUPLICATE KEY UPDATE amount=?, currency=?, status=?, customer_id=?, metadata=?, stripe_data=?, updated_at=?":
		if len(args) != 16 {
			return errors.Join(ErrInternal, errors.New("invalid args"))
		}
		id, _ := args[0].(string)
		row := append([]any(nil), args[:9]...)
		if prev, ok := c.payments[id]; ok {
			// keep the original created_at on upsert
			row[7] = prev[7]
		} else {
			c.paymentOrder = append(c.paymentOrder, id)
		}
		c.payments[id] = row
		return nil
	case "UPDATE payments SET status = ?, updated_at = ? WHERE payment_intent_id = ? AND status NOT IN ('succeeded', 'canceled')":
		if len(args) != 3 {
			return errors.Join(ErrInternal, errors.New("invalid args"))
		}
		id, _ := args[2].(string)
		row, ok := c.payments[id]
		if !ok {
			return nil
		}
		cur, _ := row[3].(string)
		if cur == "succeeded" || cur == "canceled" {
			return nil
		}
		row[3] = args[0]
		row[8] = args[1]
		return nil
	case "INSERT INTO refunds (refund_id, payment_intent_id, amount, currency, status, stripe_data, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)":
		if len(args) != 8 {
			return errors.Join(ErrInternal, errors.New("invalid args"))
		}
		id, _ := args[0].(string)
		if _, ok := c.refunds[id]; ok {
			return ErrConflict
		}
		c.refunds[id] = append([]any(nil), args...)
		return nil
	case "UPDATE refunds SET status = ?, updated_at = ? WHERE refund_id = ?":
		if len(args) != 3 {
			return errors.Join(ErrInternal, errors.New("invalid args"))
		}
		id, _ := args[2].(string)
		row, ok := c.refunds[id]
		if !ok {
			return nil
		}
		row[4] = args[0]
		row[7] = args[1]
		return nil
	case "INSERT INTO customers (customer_id, email, name, phone, address, stripe_data, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?) ON DUPLICATE KEY UPDATE email=?, name=?, phone=?, address=?, stripe_data=?, updated_at=?":
		if len(args) != 14 {
			return errors.Join(ErrInternal, errors.New("invalid args"))
		}
		id, _ := args[0].(string)
		row := append([]any(nil), args[:8]...)
		if prev, ok := c.customers[id]; ok {
			row[6] = prev[6]
		}
		c.customers[id] = row
		return nil
	case "INSERT INTO webhook_events (event_id, event_type, event_data, processed, created_at) VALUES (?, ?, ?, 0, ?) ON DUPLICATE KEY UPDATE event_type=event_type":
		if len(args) != 4 {
			return errors.Join(ErrInternal, errors.New("invalid args"))
		}
		id, _ := args[0].(string)
		if _, ok := c.webhookEvents[id]; ok {
			return nil
		}
		c.webhookEvents[id] = []any{args[0], args[1], args[2], int64(0), args[3], ""}
		c.webhookOrder = append(c.webhookOrder, id)
		return nil
	case "UPDATE webhook_events SET processed = 1, processed_at = ? WHERE event_id = ?":
		if len(args) != 2 {
			return errors.Join(ErrInternal, errors.New("invalid args"))
		}
		id, _ := args[1].(string)
		row, ok := c.webhookEvents[id]
		if !ok {
			return ErrNotFound
		}
		if row[3].(int64) == 1 {
			return nil
		}
		row[3] = int64(1)
		row[5] = args[0]
		return nil
	default:
		log.Printf("layer=client component=db method=Exec err=unsupported query query=%q", query)
		return errors.Join(ErrInternal, errors.New("unsupported query"))
	}
}

func (c *MemoryClient) QueryRow(ctx context.Context, query string, args ...any) (Row, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch query {
	case "SELECT payment_intent_id, amount, currency, status, customer_id, metadata, stripe_data, created_at, updated_at FROM payments WHERE payment_intent_id = ?":
		return c.lookupLocked(c.payments, args)
	case "SELECT refund_id, payment_intent_id, amount, currency, status, stripe_data, created_at, updated_at FROM refunds WHERE refund_id = ?":
		return c.lookupLocked(c.refunds, args)
	case "SELECT customer_id, email, name, phone, address, stripe_data, created_at, updated_at FROM customers WHERE customer_id = ?":
		return c.lookupLocked(c.customers, args)
	case "SELECT event_id, event_type, event_data, processed, created_at, processed_at FROM webhook_events WHERE event_id = ?":
		return c.lookupLocked(c.webhookEvents, args)
	default:
		log.Printf("layer=client component=db method=QueryRow err=unsupported query query=%q", query)
		return &memoryRow{err: errors.Join(ErrInternal, errors.New("unsupported query"))}, nil
	}
}

func (c *MemoryClient) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch query {
	case "SELECT payment_intent_id, amount, currency, status, customer_id, metadata, stripe_data, created_at, updated_at FROM payments WHERE customer_id = ? ORDER BY created_at DESC LIMIT ?":
		if len(args) != 2 {
			return nil, errors.Join(ErrInternal, errors.New("invalid args"))
		}
		customerID, _ := args[0].(string)
		limit, _ := args[1].(int64)
		var rows [][]any
		for i := len(c.paymentOrder) - 1; i >= 0; i-- {
			row := c.payments[c.paymentOrder[i]]
			if cid, _ := row[4].(string); cid != customerID {
				continue
			}
			rows = append(rows, append([]any(nil), row...))
			if limit > 0 && int64(len(rows)) >= limit {
				break
			}
		}
		return &memoryRows{rows: rows}, nil
	case "SELECT event_id, event_type, event_data, processed, created_at, processed_at FROM webhook_events ORDER BY created_at DESC LIMIT ?":
		if len(args) != 1 {
			return nil, errors.Join(ErrInternal, errors.New("invalid args"))
		}
		limit, _ := args[0].(int64)
		var rows [][]any
		for i := len(c.webhookOrder) - 1; i >= 0; i-- {
			rows = append(rows, append([]any(nil), c.webhookEvents[c.webhookOrder[i]]...))
			if limit > 0 && int64(len(rows)) >= limit {
				break
			}
		}
		return &memoryRows{rows: rows}, nil
	default:
		log.Printf("layer=client component=db method=Query err=unsupported query query=%q", query)
		return nil, errors.Join(ErrInternal, errors.New("unsupported query"))
	}
}

func (c *MemoryClient) lookupLocked(table map[string][]any, args []any) (Row, error) {
	if len(args) != 1 {
		return &memoryRow{err: errors.Join(ErrInternal, errors.New("invalid args"))}, nil
	}
	id, _ := args[0].(string)
	row, ok := table[id]
	if !ok {
		return &memoryRow{err: ErrNotFound}, nil
	}
	return &memoryRow{vals: append([]any(nil), row...)}, nil
}

type memoryRow struct {
	vals []any
	err  error
}

func (r *memoryRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanVals(r.vals, dest)
}

type memoryRows struct {
	rows [][]any
	idx  int
}

func (r *memoryRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *memoryRows) Scan(dest ...any) error {
	return scanVals(r.rows[r.idx-1], dest)
}

func (r *memoryRows) Close() error { return nil }

func scanVals(vals []any, dest []any) error {
	if len(dest) != len(vals) {
		return errors.Join(ErrInternal, errors.New("scan arg mismatch"))
	}
	for i := range dest {
		switch d := dest[i].(type) {
		case *string:
			v, _ := vals[i].(string)
			*d = v
		case *int64:
			v, _ := vals[i].(int64)
			*d = v
		default:
			return errors.Join(ErrInternal, errors.New("unsupported scan type"))
		}
	}
	return nil
}
