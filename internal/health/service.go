package health

import (
	"context"
	"sync"
	"time"

	"paygate/internal/ledger"
	"paygate/kit/db"
)

type CheckFunc func(ctx context.Context) error

// Service runs readiness checks with a TTL cache so a hot health endpoint
// does not hammer the store or the processor.
type Service struct {
	mu sync.Mutex

	checks map[string]CheckFunc
	ttl    time.Duration

	nextCheckAt time.Time
	lastResult  Result
}

type Result struct {
	At     time.Time
	OK     bool
	Checks map[string]string
}

func NewService(ttl time.Duration, checks map[string]CheckFunc) *Service {
	return &Service{ttl: ttl, checks: checks, lastResult: Result{Checks: map[string]string{}}}
}

// StoreCheck probes the ledger with a lookup for a key that cannot exist. A
// not-found answer proves the store is reachable.
func StoreCheck(store ledger.Store) CheckFunc {
	return func(ctx context.Context) error {
		_, err := store.GetPayment(ctx, "pi_healthcheck")
		if err != nil && !db.IsNotFound(err) {
			return err
		}
		return nil
	}
}

type connectionTester interface {
	TestConnection(ctx context.Context) error
}

// ProcessorCheck verifies the Stripe keys by retrieving the account.
func ProcessorCheck(c connectionTester) CheckFunc {
	return func(ctx context.Context) error {
		return c.TestConnection(ctx)
	}
}

func (s *Service) Check(ctx context.Context) Result {
	s.mu.Lock()
	if time.Now().Before(s.nextCheckAt) {
		res := s.lastResult
		s.mu.Unlock()
		return res
	}
	s.mu.Unlock()

	res := Result{At: time.Now().UTC(), OK: true, Checks: make(map[string]string, len(s.checks))}
	for name, fn := range s.checks {
		if fn == nil {
			res.OK = false
			res.Checks[name] = "invalid check"
			continue
		}
		if err := fn(ctx); err != nil {
			res.OK = false
			res.Checks[name] = err.Error()
			continue
		}
		res.Checks[name] = "ok"
	}

	s.mu.Lock()
	s.lastResult = res
	s.nextCheckAt = time.Now().Add(s.ttl)
	s.mu.Unlock()

	return res
}
