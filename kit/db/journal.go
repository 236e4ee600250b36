package db

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"paygate/kit/broker"
)

type JournalRecord struct {
	AggregateID string          `json:"aggregate_id"`
	EventName   string          `json:"event_name"`
	Payload     json.RawMessage `json:"payload"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// Journal is an append-only record of domain events, keyed by payment
// intent id. The ledger is the source of truth; the journal exists for
// audit and debugging, so it is append-only and never replayed into state.
// File-backed journals write JSONL only; the in-memory stream map is kept
// just for journals without a file, so a long-running server does not
// accumulate every event it ever published.
type Journal struct {
	mu      sync.RWMutex
	streams map[string][]JournalRecord

	fileMu sync.Mutex
	f      *os.File
}

func NewJournal() *Journal {
	return &Journal{streams: make(map[string][]JournalRecord)}
}

func NewJournalWithFile(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("layer=store component=db method=NewJournalWithFile path=%s err=%v", path, err)
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("layer=store component=db method=NewJournalWithFile path=%s err=%v", path, err)
		return nil, err
	}
	return &Journal{f: f}, nil
}

func (j *Journal) Close() error {
	j.fileMu.Lock()
	defer j.fileMu.Unlock()
	if j.f == nil {
		return nil
	}
	err := j.f.Close()
	if err != nil {
		log.Printf("layer=store component=db method=Close err=%v", err)
	}
	j.f = nil
	return err
}

func (j *Journal) Append(ctx context.Context, aggregateID string, evt broker.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		log.Printf("layer=store component=db method=Append aggregate_id=%s event=%s err=%v", aggregateID, evt.Name(), err)
		return err
	}

	rec := JournalRecord{
		AggregateID: aggregateID,
		EventName:   evt.Name(),
		Payload:     payload,
		OccurredAt:  time.Now().UTC(),
	}

	j.mu.Lock()
	if j.streams != nil {
		j.streams[aggregateID] = append(j.streams[aggregateID], rec)
	}
	j.mu.Unlock()

	j.fileMu.Lock()
	if j.f != nil {
		b, mErr := json.Marshal(rec)
		if mErr != nil {
			log.Printf("layer=store component=db method=Append aggregate_id=%s event=%s err=%v", aggregateID, evt.Name(), mErr)
		} else if _, wErr := j.f.Write(append(b, '\n')); wErr != nil {
			log.Printf("layer=store component=db method=Append aggregate_id=%s event=%s err=%v", aggregateID, evt.Name(), wErr)
		}
	}
	j.fileMu.Unlock()
	return nil
}

func (j *Journal) Load(ctx context.Context, aggregateID string) []JournalRecord {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return append([]JournalRecord(nil), j.streams[aggregateID]...)
}
