package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifyWebhookSignature checks the hex HMAC-SHA256 of the raw payload
// against the signature header. The comparison is constant time; a mismatch
// is reported as verified=false, not an error.
func (c *Client) VerifyWebhookSignature(payload []byte, signature string) (bool, error) {
	if c.webhookSecret == "" {
		return false, ErrNotConfigured
	}
	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	_, _ = mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature)), nil
}
