package main

import (
	"net/http"
	"time"

	"paygate/cmd/web/config"
	"paygate/cmd/web/handlers"
	"paygate/cmd/web/validator"
	"paygate/internal/audit"
	"paygate/internal/customer"
	"paygate/internal/events"
	"paygate/internal/health"
	"paygate/internal/ledger"
	"paygate/internal/metrics"
	"paygate/internal/notification"
	"paygate/internal/payment"
	"paygate/internal/stripe"
	"paygate/internal/webhook"
	"paygate/kit/breaker"
	"paygate/kit/broker"
	"paygate/kit/db"
	"paygate/kit/observability"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger()
	metricsKit := observability.NewMetrics()
	bus := broker.New()

	var store ledger.Store
	switch cfg.StoreBackend {
	case "memory":
		store = ledger.NewSQLStore(db.NewMemoryClient())
	default:
		boltStore, err := ledger.NewBoltStore(cfg.DBPath)
		if err != nil {
			logger.Error("ledger init error", "path", cfg.DBPath, "error", err.Error())
			return
		}
		defer func() { _ = boltStore.Close() }()
		store = boltStore
	}

	journal, err := db.NewJournalWithFile(cfg.EventLogPath)
	if err != nil {
		logger.Error("journal init error", "path", cfg.EventLogPath, "error", err.Error())
		return
	}
	defer func() { _ = journal.Close() }()

	auditSvc, err := audit.NewServiceWithFile(logger, cfg.AuditLogPath)
	if err != nil {
		logger.Error("audit init error", "path", cfg.AuditLogPath, "error", err.Error())
		return
	}
	defer func() { _ = auditSvc.Close() }()

	stripeClient := stripe.NewClient(stripe.Config{
		SecretKey:      cfg.StripeSecretKey,
		PublishableKey: cfg.StripePublishableKey,
		WebhookSecret:  cfg.StripeWebhookSecret,
		BaseURL:        cfg.StripeAPIBase,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: breaker.NewTransport(nil, breaker.Config{
				FailureThreshold: 3,
				SuccessThreshold: 1,
				OpenTimeout:      5 * time.Second,
			}),
		},
	})

	paymentSvc := payment.NewService(stripeClient, store, bus, journal, metricsKit)
	webhookSvc := webhook.NewService(stripeClient, store, bus, journal, metricsKit)
	customerSvc := customer.NewService(stripeClient, store, bus, metricsKit)
	notificationSvc := notification.NewService(logger)
	metricsSvc := metrics.NewService(metricsKit)
	healthSvc := health.NewService(5*time.Second, map[string]health.CheckFunc{
		"store":  health.StoreCheck(store),
		"stripe": health.ProcessorCheck(stripeClient),
	})
	jsonV := validator.NewJSON()

	bus.Subscribe((events.PaymentRecorded{}).Name(), auditSvc.HandleAny)
	bus.Subscribe((events.PaymentSucceeded{}).Name(), auditSvc.HandleAny)
	bus.Subscribe((events.PaymentFailed{}).Name(), auditSvc.HandleAny)
	bus.Subscribe((events.RefundCreated{}).Name(), auditSvc.HandleAny)
	bus.Subscribe((events.RefundSucceeded{}).Name(), auditSvc.HandleAny)
	bus.Subscribe((events.CustomerRegistered{}).Name(), auditSvc.HandleAny)
	bus.Subscribe((events.WebhookIgnored{}).Name(), auditSvc.HandleAny)

	bus.Subscribe((events.PaymentSucceeded{}).Name(), notificationSvc.HandlePaymentSucceeded)
	bus.Subscribe((events.PaymentFailed{}).Name(), notificationSvc.HandlePaymentFailed)
	bus.Subscribe((events.RefundSucceeded{}).Name(), notificationSvc.HandleRefundSucceeded)

	go func() {
		t := time.NewTicker(30 * time.Second)
		defer t.Stop()
		for range t.C {
			snap := metricsSvc.Snapshot()
			logger.Info(
				"metrics snapshot",
				"intents_created", snap["intents_created"],
				"payments_recorded", snap["payments_recorded"],
				"payments_failed", snap["payments_failed"],
				"refunds_created", snap["refunds_created"],
				"webhooks_processed", snap["webhooks_processed"],
				"webhooks_rejected", snap["webhooks_rejected"],
			)
		}
	}()

	paymentH := handlers.NewPayment(jsonV, paymentSvc)
	webhookH := handlers.NewWebhook(webhookSvc, store)
	customerH := handlers.NewCustomer(jsonV, customerSvc)
	healthH := handlers.NewHealth(healthSvc)
	metricsH := handlers.NewMetrics(metricsSvc)
	settingsH := handlers.NewSettings(cfg.StripePublishableKey, stripeClient)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /payments/intent", paymentH.CreateIntent)
	mux.HandleFunc("POST /payments/finalize", paymentH.Finalize)
	mux.HandleFunc("POST /payments/refund", paymentH.Refund)
	mux.HandleFunc("GET /payments/", paymentH.Get)
	mux.HandleFunc("GET /customers/{id}/payments", paymentH.ListByCustomer)
	mux.HandleFunc("POST /customers", customerH.Register)
	mux.HandleFunc("POST /customers/{id}", customerH.Update)
	mux.HandleFunc("GET /customers/{id}", customerH.Get)
	mux.HandleFunc("POST /webhooks/stripe", webhookH.Receive)
	mux.HandleFunc("GET /webhooks/events", webhookH.Events)
	mux.HandleFunc("GET /health", healthH.Handler)
	mux.HandleFunc("GET /metrics", metricsH.Handler)
	mux.HandleFunc("GET /config", settingsH.Config)
	mux.HandleFunc("POST /stripe/test", settingsH.TestConnection)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: mux, ReadHeaderTimeout: 2 * time.Second}

	logger.Info("web server started", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("web server error", "error", err.Error())
	}
}
