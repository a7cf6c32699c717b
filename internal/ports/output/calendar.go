package output

import (
	"context"
	"time"

	"schedbot/internal/domain/entities"
)

// CalendarGateway is the remote calendar service. Failures are wrapped as
// coded remote errors and never cross the boundary as panics.
type CalendarGateway interface {
	// CreateEvent inserts the event into the user's primary calendar and
	// returns the remote event's HTML link (may be empty).
	CreateEvent(ctx context.Context, event entities.SavedEvent) (string, error)
	// ListEvents returns upcoming remote events starting at timeMin,
	// capped at maxResults.
	ListEvents(ctx context.Context, maxResults int64, timeMin time.Time) ([]entities.SavedEvent, error)
}
