package output

import (
	"context"

	"schedbot/internal/domain/entities"
)

// EventStore is the persistence gateway: a single ordered list of saved
// events behind a fixed key, with whole-list replace semantics. Callers
// load, mutate in memory, then save the entire list back.
type EventStore interface {
	Load(ctx context.Context) ([]entities.SavedEvent, error)
	Save(ctx context.Context, events []entities.SavedEvent) error
}
