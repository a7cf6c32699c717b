package application

import (
	"context"
	"sort"
	"time"

	"schedbot/internal/domain"
	"schedbot/internal/domain/entities"
	"schedbot/internal/ports/input"
	"schedbot/internal/ports/output"
)

var _ input.EventUseCase = (*EventService)(nil)

// EventService exposes the saved-event list operations: the store holds one
// ordered list and every mutation is a load + in-memory edit + whole-list
// save.
type EventService struct {
	store    output.EventStore
	calendar output.CalendarGateway // nil when calendar sync is off
}

func NewEventService(store output.EventStore, calendar output.CalendarGateway) *EventService {
	return &EventService{store: store, calendar: calendar}
}

// displayOrder returns the indexes of events in display order: sorted by
// start time, events without a start last, ties keep insertion order.
func displayOrder(events []entities.SavedEvent) []int {
	order := make([]int, len(events))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := events[order[i]].Start, events[order[j]].Start
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Before(*b)
	})
	return order
}

// Upcoming returns the saved events sorted for display. The stored list
// keeps insertion order; sorting happens on a copy.
func (s *EventService) Upcoming(ctx context.Context) ([]entities.SavedEvent, error) {
	events, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	sorted := make([]entities.SavedEvent, 0, len(events))
	for _, i := range displayOrder(events) {
		sorted = append(sorted, events[i])
	}
	return sorted, nil
}

// RemoteUpcoming lists upcoming events from the remote calendar.
func (s *EventService) RemoteUpcoming(ctx context.Context, maxResults int64) ([]entities.SavedEvent, error) {
	if s.calendar == nil {
		return nil, nil
	}
	return s.calendar.ListEvents(ctx, maxResults, time.Now())
}

// RemoveAt deletes the event at the given zero-based display position (the
// order Upcoming shows) and returns it. Other events are unaffected.
func (s *EventService) RemoveAt(ctx context.Context, position int) (entities.SavedEvent, error) {
	events, err := s.store.Load(ctx)
	if err != nil {
		return entities.SavedEvent{}, err
	}
	if position < 0 || position >= len(events) {
		return entities.SavedEvent{}, domain.ErrBadPosition
	}
	index := displayOrder(events)[position]
	removed := events[index]
	events = append(events[:index], events[index+1:]...)
	if err := s.store.Save(ctx, events); err != nil {
		return entities.SavedEvent{}, err
	}
	return removed, nil
}

// Clear replaces the whole list with an empty one.
func (s *EventService) Clear(ctx context.Context) error {
	return s.store.Save(ctx, []entities.SavedEvent{})
}

// StartingSoon returns events whose start falls inside [now, now+window).
// Used by the reminder sweep.
func (s *EventService) StartingSoon(ctx context.Context, now time.Time, window time.Duration) ([]entities.SavedEvent, error) {
	events, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	var due []entities.SavedEvent
	for _, event := range events {
		if event.Start == nil {
			continue
		}
		if !event.Start.Before(now) && event.Start.Before(now.Add(window)) {
			due = append(due, event)
		}
	}
	return due, nil
}
