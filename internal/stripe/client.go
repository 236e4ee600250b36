package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.stripe.com/v1"

var (
	ErrNotConfigured       = errors.New("stripe: not configured")
	ErrInvalidAmount       = errors.New("stripe: amount must be greater than 0")
	ErrUnsupportedCurrency = errors.New("stripe: unsupported currency")
	ErrMissingID           = errors.New("stripe: id is required")
	ErrMissingField        = errors.New("stripe: missing required field")
	ErrTransport           = errors.New("stripe: transport error")
)

// APIError carries a non-2xx response from Stripe's error envelope.
type APIError struct {
	HTTPStatus int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stripe: api error status=%d message=%s", e.HTTPStatus, e.Message)
}

var supportedCurrencies = map[string]struct{}{
	"usd": {},
	"eur": {},
	"gbp": {},
	"cad": {},
	"aud": {},
	"jpy": {},
}

func SupportedCurrency(currency string) bool {
	_, ok := supportedCurrencies[strings.ToLower(currency)]
	return ok
}

type Config struct {
	SecretKey      string
	PublishableKey string
	WebhookSecret  string
	BaseURL        string
	HTTPClient     *http.Client
}

// Client is a thin wrapper over Stripe's REST API: one authenticated,
// form-encoded HTTP call per operation, no retries. Callers own any retry
// policy.
type Client struct {
	secretKey      string
	publishableKey string
	webhookSecret  string
	baseURL        string
	http           *http.Client
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		secretKey:      cfg.SecretKey,
		publishableKey: cfg.PublishableKey,
		webhookSecret:  cfg.WebhookSecret,
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		http:           httpClient,
	}
}

func (c *Client) Configured() bool {
	return c.secretKey != ""
}

func (c *Client) PublishableKey() string {
	return c.publishableKey
}

func (c *Client) request(ctx context.Context, method, endpoint string, form url.Values) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	var body io.Reader
	if method == http.MethodPost {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+endpoint, body)
	if err != nil {
		return nil, errors.Join(ErrTransport, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("layer=client component=stripe method=request endpoint=%s err=%v", endpoint, err)
		return nil, errors.Join(ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("layer=client component=stripe method=request endpoint=%s err=%v", endpoint, err)
		return nil, errors.Join(ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{HTTPStatus: resp.StatusCode, Message: "Unknown error"}
		var envelope struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
			apiErr.Message = envelope.Error.Message
		}
		log.Printf("layer=client component=stripe method=request endpoint=%s status=%d err=%s", endpoint, resp.StatusCode, apiErr.Message)
		return nil, apiErr
	}

	return raw, nil
}

func (c *Client) CreatePaymentIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*PaymentIntent, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	currency = strings.ToLower(currency)
	if !SupportedCurrency(currency) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, currency)
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", currency)
	form.Set("automatic_payment_methods[enabled]", "true")
	addMetadata(form, metadata)
	if desc, ok := metadata["description"]; ok {
		form.Set("description", desc)
	}

	raw, err := c.request(ctx, http.MethodPost, "payment_intents", form)
	if err != nil {
		return nil, err
	}
	return parsePaymentIntent(raw)
}

func (c *Client) RetrievePaymentIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	raw, err := c.request(ctx, http.MethodGet, "payment_intents/"+id, nil)
	if err != nil {
		return nil, err
	}
	return parsePaymentIntent(raw)
}

func (c *Client) ConfirmPaymentIntent(ctx context.Context, id string, extra map[string]string) (*PaymentIntent, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	form := url.Values{}
	for k, v := range extra {
		form.Set(k, v)
	}
	raw, err := c.request(ctx, http.MethodPost, "payment_intents/"+id+"/confirm", form)
	if err != nil {
		return nil, err
	}
	return parsePaymentIntent(raw)
}

func (c *Client) CancelPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	raw, err := c.request(ctx, http.MethodPost, "payment_intents/"+id+"/cancel", url.Values{})
	if err != nil {
		return nil, err
	}
	return parsePaymentIntent(raw)
}

func (c *Client) CreateCustomer(ctx context.Context, fields map[string]string) (*Customer, error) {
	if fields["email"] == "" {
		return nil, fmt.Errorf("%w: email", ErrMissingField)
	}
	form := url.Values{}
	for k, v := range fields {
		form.Set(k, v)
	}
	raw, err := c.request(ctx, http.MethodPost, "customers", form)
	if err != nil {
		return nil, err
	}
	return parseCustomer(raw)
}

func (c *Client) RetrieveCustomer(ctx context.Context, id string) (*Customer, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	raw, err := c.request(ctx, http.MethodGet, "customers/"+id, nil)
	if err != nil {
		return nil, err
	}
	return parseCustomer(raw)
}

func (c *Client) UpdateCustomer(ctx context.Context, id string, fields map[string]string) (*Customer, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	form := url.Values{}
	for k, v := range fields {
		form.Set(k, v)
	}
	raw, err := c.request(ctx, http.MethodPost, "customers/"+id, form)
	if err != nil {
		return nil, err
	}
	return parseCustomer(raw)
}

// CreateRefund issues a refund against a payment intent. A zero amount
// requests a full refund.
func (c *Client) CreateRefund(ctx context.Context, paymentIntentID string, amount int64, metadata map[string]string) (*Refund, error) {
	if paymentIntentID == "" {
		return nil, ErrMissingID
	}
	form := url.Values{}
	form.Set("payment_intent", paymentIntentID)
	if amount > 0 {
		form.Set("amount", strconv.FormatInt(amount, 10))
	}
	addMetadata(form, metadata)

	raw, err := c.request(ctx, http.MethodPost, "refunds", form)
	if err != nil {
		return nil, err
	}
	var r Refund
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, errors.Join(ErrTransport, err)
	}
	r.Raw = raw
	return &r, nil
}

func (c *Client) GetAccount(ctx context.Context) (*Account, error) {
	raw, err := c.request(ctx, http.MethodGet, "account", nil)
	if err != nil {
		return nil, err
	}
	var a Account
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, errors.Join(ErrTransport, err)
	}
	return &a, nil
}

// TestConnection probes the account endpoint with the configured key.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.GetAccount(ctx)
	return err
}

func addMetadata(form url.Values, metadata map[string]string) {
	for k, v := range metadata {
		form.Set("metadata["+k+"]", v)
	}
}

func parsePaymentIntent(raw json.RawMessage) (*PaymentIntent, error) {
	var pi PaymentIntent
	if err := json.Unmarshal(raw, &pi); err != nil {
		return nil, errors.Join(ErrTransport, err)
	}
	pi.Raw = raw
	return &pi, nil
}

func parseCustomer(raw json.RawMessage) (*Customer, error) {
	var c Customer
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, errors.Join(ErrTransport, err)
	}
	c.Raw = raw
	return &c, nil
}
