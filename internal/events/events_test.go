package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEventNames(t *testing.T) {
	now := time.Now().UTC()

	var tests = []struct {
		name     string
		evt      interface{ Name() string }
		expected string
	}{
		{name: "payment.recorded", evt: PaymentRecorded{At: now}, expected: "payment.recorded"},
		{name: "payment.succeeded", evt: PaymentSucceeded{At: now}, expected: "payment.succeeded"},
		{name: "payment.failed", evt: PaymentFailed{At: now}, expected: "payment.failed"},
		{name: "refund.created", evt: RefundCreated{At: now}, expected: "refund.created"},
		{name: "refund.succeeded", evt: RefundSucceeded{At: now}, expected: "refund.succeeded"},
		{name: "customer.registered", evt: CustomerRegistered{At: now}, expected: "customer.registered"},
		{name: "webhook.ignored", evt: WebhookIgnored{At: now}, expected: "webhook.ignored"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, tt.evt.Name())
		})
	}
}

func TestPartitionKeys(t *testing.T) {
	require.Equal(t, "pi_1", PaymentRecorded{PaymentIntentID: "pi_1"}.PartitionKey())
	require.Equal(t, "pi_1", RefundSucceeded{PaymentIntentID: "pi_1", RefundID: "re_1"}.PartitionKey())
	require.Equal(t, "cus_1", CustomerRegistered{CustomerID: "cus_1"}.PartitionKey())
	require.Equal(t, "evt_1", WebhookIgnored{EventID: "evt_1"}.PartitionKey())
}
