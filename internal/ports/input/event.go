package input

import (
	"context"
	"time"

	"schedbot/internal/domain/entities"
)

type EventUseCase interface {
	Upcoming(ctx context.Context) ([]entities.SavedEvent, error)
	RemoteUpcoming(ctx context.Context, maxResults int64) ([]entities.SavedEvent, error)
	RemoveAt(ctx context.Context, position int) (entities.SavedEvent, error)
	Clear(ctx context.Context) error
	StartingSoon(ctx context.Context, now time.Time, window time.Duration) ([]entities.SavedEvent, error)
}
