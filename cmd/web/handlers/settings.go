package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
)

type ConnectionTesterContract interface {
	TestConnection(ctx context.Context) error
}

// Settings exposes the front-end configuration and the connection probe. Only
// the publishable key ever leaves the server.
type Settings struct {
	publishableKey string
	processor      ConnectionTesterContract
}

func NewSettings(publishableKey string, processor ConnectionTesterContract) *Settings {
	return &Settings{publishableKey: publishableKey, processor: processor}
}

func (h *Settings) Config(w http.ResponseWriter, r *http.Request) {
	if err := json.NewEncoder(w).Encode(map[string]string{"publishable_key": h.publishableKey}); err != nil {
		log.Printf("layer=handler component=settings method=Config err=%v", err)
	}
}

func (h *Settings) TestConnection(w http.ResponseWriter, r *http.Request) {
	if err := h.processor.TestConnection(r.Context()); err != nil {
		log.Printf("layer=handler component=settings method=TestConnection err=%v", err)
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]any{"connected": false, "error": err.Error()})
		return
	}
	if err := json.NewEncoder(w).Encode(map[string]any{"connected": true}); err != nil {
		log.Printf("layer=handler component=settings method=TestConnection err=%v", err)
	}
}
