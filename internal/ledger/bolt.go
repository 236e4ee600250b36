package ledger

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "github.com/boltdb/bolt"

	"paygate/kit/db"
)

const (
	bucketPayments      = "payments"
	bucketRefunds       = "refunds"
	bucketCustomers     = "customers"
	bucketWebhookEvents = "webhook_events"
)

// BoltStore keeps the ledger in an embedded BoltDB file, one bucket per
// collection. Every write runs in a single update transaction, so a race
// between two upserts for the same id resolves to one insert and one update.
type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("layer=repo component=ledger method=NewBoltStore path=%s err=%v", path, err)
		return nil, err
	}
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		log.Printf("layer=repo component=ledger method=NewBoltStore path=%s err=%v", path, err)
		return nil, err
	}
	err = bdb.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{bucketPayments, bucketRefunds, bucketCustomers, bucketWebhookEvents} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = bdb.Close()
		log.Printf("layer=repo component=ledger method=NewBoltStore path=%s err=%v", path, err)
		return nil, err
	}
	return &BoltStore{db: bdb}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) UpsertPayment(ctx context.Context, p *Payment) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketPayments))
		cpy := *p
		if existing := b.Get([]byte(p.PaymentIntentID)); existing != nil {
			var prev Payment
			if err := json.Unmarshal(existing, &prev); err != nil {
				return err
			}
			cpy.CreatedAt = prev.CreatedAt
			if prev.Status.Terminal() && cpy.Status != prev.Status {
				cpy.Status = prev.Status
			}
		}
		data, err := json.Marshal(&cpy)
		if err != nil {
			return err
		}
		return b.Put([]byte(p.PaymentIntentID), data)
	})
}

func (s *BoltStore) GetPayment(ctx context.Context, paymentIntentID string) (*Payment, error) {
	var p Payment
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketPayments)).Get([]byte(paymentIntentID))
		if v == nil {
			return db.ErrNotFound
		}
		return json.Unmarshal(v, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePaymentStatus is a no-op when no record exists yet; a webhook may
// land before the finalize path has written the payment.
func (s *BoltStore) UpdatePaymentStatus(ctx context.Context, paymentIntentID string, status PaymentStatus) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketPayments))
		v := b.Get([]byte(paymentIntentID))
		if v == nil {
			return nil
		}
		var p Payment
		if err := json.Unmarshal(v, &p); err != nil {
			return err
		}
		if p.Status.Terminal() {
			return nil
		}
		p.Status = status
		p.UpdatedAt = time.Now().UTC()
		data, err := json.Marshal(&p)
		if err != nil {
			return err
		}
		return b.Put([]byte(paymentIntentID), data)
	})
}

func (s *BoltStore) ListPaymentsByCustomer(ctx context.Context, customerID string, limit int) ([]Payment, error) {
	var out []Payment
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketPayments)).ForEach(func(_, v []byte) error {
			var p Payment
			if err := json.Unmarshal(v, &p); err != nil {
				return err
			}
			if p.CustomerID == customerID {
				out = append(out, p)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// InsertRefund fails with db.ErrConflict on a duplicate refund id. Refund
// ids are Stripe-generated, so a duplicate insert is a caller bug, not a
// race to converge.
func (s *BoltStore) InsertRefund(ctx context.Context, r *Refund) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketRefunds))
		if b.Get([]byte(r.RefundID)) != nil {
			return db.ErrConflict
		}
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		return b.Put([]byte(r.RefundID), data)
	})
}

func (s *BoltStore) GetRefund(ctx context.Context, refundID string) (*Refund, error) {
	var r Refund
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketRefunds)).Get([]byte(refundID))
		if v == nil {
			return db.ErrNotFound
		}
		return json.Unmarshal(v, &r)
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *BoltStore) UpdateRefundStatus(ctx context.Context, refundID string, status RefundStatus) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketRefunds))
		v := b.Get([]byte(refundID))
		if v == nil {
			return nil
		}
		var r Refund
		if err := json.Unmarshal(v, &r); err != nil {
			return err
		}
		r.Status = status
		r.UpdatedAt = time.Now().UTC()
		data, err := json.Marshal(&r)
		if err != nil {
			return err
		}
		return b.Put([]byte(refundID), data)
	})
}

func (s *BoltStore) UpsertCustomer(ctx context.Context, c *Customer) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCustomers))
		cpy := *c
		if existing := b.Get([]byte(c.CustomerID)); existing != nil {
			var prev Customer
			if err := json.Unmarshal(existing, &prev); err != nil {
				return err
			}
			cpy.CreatedAt = prev.CreatedAt
		}
		data, err := json.Marshal(&cpy)
		if err != nil {
			return err
		}
		return b.Put([]byte(c.CustomerID), data)
	})
}

func (s *BoltStore) GetCustomer(ctx context.Context, customerID string) (*Customer, error) {
	var c Customer
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketCustomers)).Get([]byte(customerID))
		if v == nil {
			return db.ErrNotFound
		}
		return json.Unmarshal(v, &c)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// InsertWebhookEvent creates the record on first sight of an event id and
// leaves an existing record untouched, so a redelivery can never reset the
// processed flag.
func (s *BoltStore) InsertWebhookEvent(ctx context.Context, e *WebhookEvent) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketWebhookEvents))
		if b.Get([]byte(e.EventID)) != nil {
			return nil
		}
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		return b.Put([]byte(e.EventID), data)
	})
}

func (s *BoltStore) GetWebhookEvent(ctx context.Context, eventID string) (*WebhookEvent, error) {
	var e WebhookEvent
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketWebhookEvents)).Get([]byte(eventID))
		if v == nil {
			return db.ErrNotFound
		}
		return json.Unmarshal(v, &e)
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *BoltStore) MarkWebhookProcessed(ctx context.Context, eventID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketWebhookEvents))
		v := b.Get([]byte(eventID))
		if v == nil {
			return db.ErrNotFound
		}
		var e WebhookEvent
		if err := json.Unmarshal(v, &e); err != nil {
			return err
		}
		if e.Processed {
			return nil
		}
		e.Processed = true
		e.ProcessedAt = time.Now().UTC()
		data, err := json.Marshal(&e)
		if err != nil {
			return err
		}
		return b.Put([]byte(eventID), data)
	})
}

func (s *BoltStore) ListRecentWebhookEvents(ctx context.Context, limit int) ([]WebhookEvent, error) {
	var out []WebhookEvent
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketWebhookEvents)).ForEach(func(_, v []byte) error {
			var e WebhookEvent
			if err := json.Unmarshal(v, &e); err != nil {
				return err
			}
			out = append(out, e)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
