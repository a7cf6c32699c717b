package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schedbot/internal/domain"
	"schedbot/internal/domain/entities"
)

func savedEvent(title string, start *time.Time) entities.SavedEvent {
	return entities.SavedEvent{Title: title, Start: start, Attendees: []string{}, CreatedAt: frozenNow}
}

func ptr(t time.Time) *time.Time { return &t }

func TestUpcomingSortsByStartNilLast(t *testing.T) {
	early := at(2025, time.March, 11, 9, 0)
	late := at(2025, time.March, 20, 9, 0)
	store := &fakeStore{events: []entities.SavedEvent{
		savedEvent("no start", nil),
		savedEvent("late", ptr(late)),
		savedEvent("early", ptr(early)),
	}}
	svc := NewEventService(store, nil)

	sorted, err := svc.Upcoming(context.Background())
	require.NoError(t, err)
	require.Len(t, sorted, 3)
	assert.Equal(t, "early", sorted[0].Title)
	assert.Equal(t, "late", sorted[1].Title)
	assert.Equal(t, "no start", sorted[2].Title)

	// The stored list keeps insertion order.
	assert.Equal(t, "no start", store.events[0].Title)
}

func TestRemoveAtUsesDisplayPosition(t *testing.T) {
	early := at(2025, time.March, 11, 9, 0)
	late := at(2025, time.March, 20, 9, 0)
	store := &fakeStore{events: []entities.SavedEvent{
		savedEvent("no start", nil),
		savedEvent("late", ptr(late)),
		savedEvent("early", ptr(early)),
	}}
	svc := NewEventService(store, nil)

	removed, err := svc.RemoveAt(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "early", removed.Title)

	// The two other events survive untouched.
	require.Len(t, store.events, 2)
	assert.Equal(t, "no start", store.events[0].Title)
	assert.Equal(t, "late", store.events[1].Title)
}

func TestRemoveAtOutOfRange(t *testing.T) {
	svc := NewEventService(&fakeStore{}, nil)

	_, err := svc.RemoveAt(context.Background(), 0)
	assert.Equal(t, domain.CodeValidation, domain.Code(err))

	_, err = svc.RemoveAt(context.Background(), -1)
	assert.Equal(t, domain.CodeValidation, domain.Code(err))
}

func TestClearReplacesListWithEmpty(t *testing.T) {
	store := &fakeStore{events: []entities.SavedEvent{savedEvent("a", nil), savedEvent("b", nil)}}
	svc := NewEventService(store, nil)

	require.NoError(t, svc.Clear(context.Background()))
	assert.Empty(t, store.events)
	assert.NotNil(t, store.events)
}

func TestStartingSoonWindow(t *testing.T) {
	now := frozenNow
	store := &fakeStore{events: []entities.SavedEvent{
		savedEvent("past", ptr(now.Add(-time.Hour))),
		savedEvent("soon", ptr(now.Add(10*time.Minute))),
		savedEvent("far", ptr(now.Add(2*time.Hour))),
		savedEvent("no start", nil),
	}}
	svc := NewEventService(store, nil)

	due, err := svc.StartingSoon(context.Background(), now, 30*time.Minute)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "soon", due[0].Title)
}
