package breaker

import (
	"errors"
	"net/http"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit open")

type Config struct {
	FailureThreshold int
	SuccessThreshold int
	OpenTimeout      time.Duration
}

// Transport wraps an http.RoundTripper with a circuit breaker. Transport
// errors and 5xx responses count as failures; after FailureThreshold of them
// the circuit opens and calls fail fast with ErrCircuitOpen until OpenTimeout
// elapses, then a single probe is allowed through.
type Transport struct {
	next http.RoundTripper
	cfg  Config

	mu           sync.Mutex
	state        int
	failures     int
	successes    int
	openedAt     time.Time
	halfInFlight bool
}

const (
	cbClosed = iota
	cbOpen
	cbHalfOpen
)

func NewTransport(next http.RoundTripper, cfg Config) *Transport {
	if next == nil {
		next = http.DefaultTransport
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 1
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 2 * time.Second
	}
	return &Transport{next: next, cfg: cfg, state: cbClosed}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.beforeCall(); err != nil {
		return nil, err
	}

	resp, err := t.next.RoundTrip(req)
	t.afterCall(isFailure(resp, err))
	return resp, err
}

func isFailure(resp *http.Response, err error) bool {
	if err != nil {
		return true
	}
	return resp.StatusCode >= http.StatusInternalServerError
}

func (t *Transport) beforeCall() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case cbClosed:
		return nil
	case cbOpen:
		if time.Since(t.openedAt) >= t.cfg.OpenTimeout {
			t.state = cbHalfOpen
			t.successes = 0
			t.halfInFlight = false
		} else {
			return ErrCircuitOpen
		}
		fallthrough
	case cbHalfOpen:
		if t.halfInFlight {
			return ErrCircuitOpen
		}
		t.halfInFlight = true
		return nil
	default:
		return ErrCircuitOpen
	}
}

func (t *Transport) afterCall(failed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == cbHalfOpen {
		t.halfInFlight = false
	}

	if !failed {
		switch t.state {
		case cbClosed:
			t.failures = 0
		case cbHalfOpen:
			t.successes++
			if t.successes >= t.cfg.SuccessThreshold {
				t.state = cbClosed
				t.failures = 0
				t.successes = 0
			}
		}
		return
	}

	switch t.state {
	case cbClosed:
		t.failures++
		if t.failures >= t.cfg.FailureThreshold {
			t.state = cbOpen
			t.openedAt = time.Now().UTC()
			t.successes = 0
			t.halfInFlight = false
		}
	case cbHalfOpen:
		t.state = cbOpen
		t.openedAt = time.Now().UTC()
		t.failures = t.cfg.FailureThreshold
		t.successes = 0
		t.halfInFlight = false
	}
}
