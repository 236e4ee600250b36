package config

import "os"

type Config struct {
	HTTPAddr             string
	StripeSecretKey      string
	StripePublishableKey string
	StripeWebhookSecret  string
	StripeAPIBase        string
	StoreBackend         string
	DBPath               string
	EventLogPath         string
	AuditLogPath         string
}

func Load() Config {
	return Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		StripeSecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
		StripePublishableKey: os.Getenv("STRIPE_PUBLISHABLE_KEY"),
		StripeWebhookSecret:  os.Getenv("STRIPE_WEBHOOK_SECRET"),
		StripeAPIBase:        os.Getenv("STRIPE_API_BASE"),
		StoreBackend:         getenv("STORE_BACKEND", "bolt"),
		DBPath:               getenv("DB_PATH", "./out/paygate.db"),
		EventLogPath:         getenv("EVENT_LOG_PATH", "./out/events.jsonl"),
		AuditLogPath:         getenv("AUDIT_LOG_PATH", "./out/audit.jsonl"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
