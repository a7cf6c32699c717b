package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"schedbot/internal/domain"
	"schedbot/internal/domain/entities"
	"schedbot/internal/ports/output"
)

// eventSlotKey is the fixed key of the single list slot. Mirrors the
// load/mutate/save-whole contract of the store port: the payload is always
// replaced as one JSON document.
const eventSlotKey = "schedbot.localEvents"

var _ output.EventStore = (*EventStore)(nil)

type EventStore struct {
	pool *pgxpool.Pool
}

func NewEventStore(pool *pgxpool.Pool) *EventStore {
	return &EventStore{pool: pool}
}

func (s *EventStore) Load(ctx context.Context) ([]entities.SavedEvent, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM event_slots WHERE key = $1`, eventSlotKey,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return []entities.SavedEvent{}, nil
	}
	if err != nil {
		return nil, domain.StorageError(fmt.Errorf("load event slot: %w", err))
	}
	events, err := decodeEvents(payload)
	if err != nil {
		return nil, domain.StorageError(err)
	}
	return events, nil
}

func (s *EventStore) Save(ctx context.Context, events []entities.SavedEvent) error {
	payload, err := encodeEvents(events)
	if err != nil {
		return domain.StorageError(err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO event_slots (key, payload, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		eventSlotKey, payload,
	)
	if err != nil {
		return domain.StorageError(fmt.Errorf("save event slot: %w", err))
	}
	return nil
}

func encodeEvents(events []entities.SavedEvent) ([]byte, error) {
	if events == nil {
		events = []entities.SavedEvent{}
	}
	payload, err := json.Marshal(events)
	if err != nil {
		return nil, fmt.Errorf("encode events: %w", err)
	}
	return payload, nil
}

func decodeEvents(payload []byte) ([]entities.SavedEvent, error) {
	events := []entities.SavedEvent{}
	if err := json.Unmarshal(payload, &events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}
