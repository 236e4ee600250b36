package stripe

import "encoding/json"

// PaymentIntent mirrors the fields of Stripe's payment_intent object that
// the service consumes. Raw holds the full response body for the ledger.
type PaymentIntent struct {
	ID           string            `json:"id"`
	Amount       int64             `json:"amount"`
	Currency     string            `json:"currency"`
	Status       string            `json:"status"`
	ClientSecret string            `json:"client_secret"`
	Customer     string            `json:"customer"`
	Created      int64             `json:"created"`
	Metadata     map[string]string `json:"metadata"`

	Raw json.RawMessage `json:"-"`
}

type Customer struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Created int64  `json:"created"`

	Raw json.RawMessage `json:"-"`
}

type Refund struct {
	ID            string `json:"id"`
	PaymentIntent string `json:"payment_intent"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`
	Created       int64  `json:"created"`

	Raw json.RawMessage `json:"-"`
}

type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
