package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"paygate/internal/ledger"
	"paygate/kit/db"

	"github.com/stretchr/testify/require"
)

func TestHealthService_Check(t *testing.T) {
	var tests = []struct {
		name       string
		service    func() *Service
		expectedOK bool
		expected   map[string]string
	}{
		{
			name: "all checks pass",
			service: func() *Service {
				return NewService(0, map[string]CheckFunc{
					"store":  func(ctx context.Context) error { return nil },
					"stripe": func(ctx context.Context) error { return nil },
				})
			},
			expectedOK: true,
			expected:   map[string]string{"store": "ok", "stripe": "ok"},
		},
		{
			name: "one failing check flips the result",
			service: func() *Service {
				return NewService(0, map[string]CheckFunc{
					"store":  func(ctx context.Context) error { return nil },
					"stripe": func(ctx context.Context) error { return errors.New("unauthorized") },
				})
			},
			expectedOK: false,
			expected:   map[string]string{"store": "ok", "stripe": "unauthorized"},
		},
		{
			name: "nil check is invalid",
			service: func() *Service {
				return NewService(0, map[string]CheckFunc{"store": nil})
			},
			expectedOK: false,
			expected:   map[string]string{"store": "invalid check"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := tt.service().Check(context.Background())
			require.Equal(t, tt.expectedOK, res.OK)
			require.Equal(t, tt.expected, res.Checks)
		})
	}
}

func TestHealthService_CachesWithinTTL(t *testing.T) {
	calls := 0
	svc := NewService(time.Minute, map[string]CheckFunc{
		"store": func(ctx context.Context) error {
			calls++
			return nil
		},
	})

	res1 := svc.Check(context.Background())
	res2 := svc.Check(context.Background())

	require.True(t, res1.OK)
	require.Equal(t, res1.At, res2.At)
	require.Equal(t, 1, calls)
}

type storeCheckMock struct {
	ledger.Store
	err error
}

func (m storeCheckMock) GetPayment(ctx context.Context, paymentIntentID string) (*ledger.Payment, error) {
	return nil, m.err
}

func TestStoreCheck(t *testing.T) {
	// A not-found probe answer means the store is reachable.
	require.NoError(t, StoreCheck(storeCheckMock{err: db.ErrNotFound})(context.Background()))
	require.ErrorIs(t, StoreCheck(storeCheckMock{err: db.ErrInternal})(context.Background()), db.ErrInternal)
}
