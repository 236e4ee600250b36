package stripe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{SecretKey: "sk_test_123", BaseURL: srv.URL})
}

func TestClient_CreatePaymentIntent(t *testing.T) {
	ctx := context.Background()

	var gotAuth, gotContentType string
	var gotForm map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		require.Equal(t, "/payment_intents", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"pi_1","amount":1000,"currency":"usd","status":"requires_payment_method","client_secret":"pi_1_secret"}`))
	})

	pi, err := client.CreatePaymentIntent(ctx, 1000, "USD", map[string]string{"order_id": "42", "description": "test order"})

	require.NoError(t, err)
	require.Equal(t, "pi_1", pi.ID)
	require.Equal(t, "pi_1_secret", pi.ClientSecret)
	require.NotEmpty(t, pi.Raw)

	require.Equal(t, "Bearer sk_test_123", gotAuth)
	require.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	require.Equal(t, []string{"1000"}, gotForm["amount"])
	require.Equal(t, []string{"usd"}, gotForm["currency"])
	require.Equal(t, []string{"true"}, gotForm["automatic_payment_methods[enabled]"])
	require.Equal(t, []string{"42"}, gotForm["metadata[order_id]"])
	require.Equal(t, []string{"test order"}, gotForm["description"])
}

func TestClient_CreatePaymentIntentValidation(t *testing.T) {
	ctx := context.Background()
	client := NewClient(Config{SecretKey: "sk_test_123"})

	var tests = []struct {
		name        string
		amount      int64
		currency    string
		expectedErr error
	}{
		{name: "zero amount", amount: 0, currency: "usd", expectedErr: ErrInvalidAmount},
		{name: "negative amount", amount: -5, currency: "usd", expectedErr: ErrInvalidAmount},
		{name: "unsupported currency", amount: 100, currency: "xyz", expectedErr: ErrUnsupportedCurrency},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := client.CreatePaymentIntent(ctx, tt.amount, tt.currency, nil)
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestClient_NotConfigured(t *testing.T) {
	client := NewClient(Config{})
	_, err := client.RetrievePaymentIntent(context.Background(), "pi_1")
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestClient_ErrorEnvelope(t *testing.T) {
	ctx := context.Background()

	var tests = []struct {
		name            string
		status          int
		body            string
		expectedMessage string
	}{
		{
			name:            "message from envelope",
			status:          http.StatusPaymentRequired,
			body:            `{"error":{"message":"Your card was declined."}}`,
			expectedMessage: "Your card was declined.",
		},
		{
			name:            "unparseable body falls back",
			status:          http.StatusInternalServerError,
			body:            "<html>oops</html>",
			expectedMessage: "Unknown error",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.RetrievePaymentIntent(ctx, "pi_1")

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, tt.status, apiErr.HTTPStatus)
			require.Equal(t, tt.expectedMessage, apiErr.Message)
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewClient(Config{SecretKey: "sk_test_123", BaseURL: srv.URL})

	_, err := client.RetrievePaymentIntent(context.Background(), "pi_1")
	require.ErrorIs(t, err, ErrTransport)
}

func TestClient_ConfirmPaymentIntent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payment_intents/pi_1/confirm", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		_, _ = w.Write([]byte(`{"id":"pi_1","status":"succeeded"}`))
	})

	pi, err := client.ConfirmPaymentIntent(context.Background(), "pi_1", nil)
	require.NoError(t, err)
	require.Equal(t, "succeeded", pi.Status)

	_, err = client.ConfirmPaymentIntent(context.Background(), "", nil)
	require.ErrorIs(t, err, ErrMissingID)
}

func TestClient_CreateRefund(t *testing.T) {
	ctx := context.Background()

	var tests = []struct {
		name       string
		amount     int64
		wantAmount []string
	}{
		{name: "partial refund sends amount", amount: 500, wantAmount: []string{"500"}},
		{name: "full refund omits amount", amount: 0, wantAmount: nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var gotForm map[string][]string
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, r.ParseForm())
				gotForm = r.PostForm
				require.Equal(t, "/refunds", r.URL.Path)
				_, _ = w.Write([]byte(`{"id":"re_1","amount":500,"currency":"usd","status":"succeeded","payment_intent":"pi_1"}`))
			})

			refund, err := client.CreateRefund(ctx, "pi_1", tt.amount, nil)

			require.NoError(t, err)
			require.Equal(t, "re_1", refund.ID)
			require.Equal(t, []string{"pi_1"}, gotForm["payment_intent"])
			require.Equal(t, tt.wantAmount, gotForm["amount"])
		})
	}
}

func TestClient_CreateCustomerRequiresEmail(t *testing.T) {
	client := NewClient(Config{SecretKey: "sk_test_123"})
	_, err := client.CreateCustomer(context.Background(), map[string]string{"name": "Ana"})
	require.ErrorIs(t, err, ErrMissingField)
}

func TestClient_TestConnection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/account", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"acct_1","email":"owner@example.com"}`))
	})

	require.NoError(t, client.TestConnection(context.Background()))
}
