package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schedbot/internal/domain"
	"schedbot/internal/domain/entities"
)

// stubTranslator renders "key k=v ..." so tests can assert on both the
// message identity and the template data without loading real bundles.
type stubTranslator struct{}

func (stubTranslator) T(_, key string, data map[string]any) string {
	if len(data) == 0 {
		return key
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := key
	for _, k := range keys {
		out += fmt.Sprintf(" %s=%v", k, data[k])
	}
	return out
}

type fakeStore struct {
	events   []entities.SavedEvent
	failLoad bool
	failSave bool
}

func (f *fakeStore) Load(context.Context) ([]entities.SavedEvent, error) {
	if f.failLoad {
		return nil, domain.StorageError(errors.New("boom"))
	}
	return append([]entities.SavedEvent{}, f.events...), nil
}

func (f *fakeStore) Save(_ context.Context, events []entities.SavedEvent) error {
	if f.failSave {
		return domain.StorageError(errors.New("boom"))
	}
	f.events = events
	return nil
}

type fakeCalendar struct {
	created []entities.SavedEvent
	fail    bool
}

func (f *fakeCalendar) CreateEvent(_ context.Context, event entities.SavedEvent) (string, error) {
	if f.fail {
		return "", domain.RemoteError(errors.New("401"))
	}
	f.created = append(f.created, event)
	return "https://calendar.example/evt", nil
}

func (f *fakeCalendar) ListEvents(context.Context, int64, time.Time) ([]entities.SavedEvent, error) {
	return nil, nil
}

func newService(store *fakeStore, calendar *fakeCalendar) *ConversationService {
	extractor := NewExtractor(func() time.Time { return frozenNow })
	now := func() time.Time { return frozenNow }
	if calendar == nil {
		return NewConversationService(extractor, store, nil, stubTranslator{}, time.UTC, now)
	}
	return NewConversationService(extractor, store, calendar, stubTranslator{}, time.UTC, now)
}

func TestConversationEndToEnd(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store, nil)
	ctx := context.Background()

	// Turn 1: title accepted, no time yet.
	conv, reply := svc.HandleTurn(ctx, "en", nil, "Meeting")
	require.NotNil(t, conv)
	assert.Equal(t, entities.StepAskWhen, conv.Step)
	assert.Equal(t, "prompt.when", reply.Text)
	assert.False(t, reply.IsError)

	// Turn 2: time arrives.
	conv, reply = svc.HandleTurn(ctx, "en", conv, "tomorrow at 3pm")
	require.NotNil(t, conv)
	assert.Equal(t, entities.StepAskAttendees, conv.Step)
	require.NotNil(t, conv.Draft.Start)
	assert.Equal(t, at(2025, time.March, 11, 15, 0), *conv.Draft.Start)
	assert.Equal(t, at(2025, time.March, 11, 15, 30), *conv.Draft.End)

	// Turn 3: no attendees; summary mentions the title.
	conv, reply = svc.HandleTurn(ctx, "en", conv, "no")
	require.NotNil(t, conv)
	assert.Equal(t, entities.StepAskConfirm, conv.Step)
	assert.Contains(t, reply.Text, "confirm.summary")
	assert.Contains(t, reply.Text, "Meeting")

	// Turn 4: confirm persists and resets to idle.
	conv, reply = svc.HandleTurn(ctx, "en", conv, "confirm")
	assert.Nil(t, conv)
	assert.Contains(t, reply.Text, "confirm.saved")
	require.Len(t, store.events, 1)
	saved := store.events[0]
	assert.Equal(t, "Meeting", saved.Title)
	assert.Equal(t, at(2025, time.March, 11, 15, 0), *saved.Start)
	assert.Equal(t, at(2025, time.March, 11, 15, 30), *saved.End)
	assert.Empty(t, saved.Attendees)
	assert.Equal(t, frozenNow, saved.CreatedAt)
}

func TestConversationSeedWithTitleAndTimeSkipsToAttendees(t *testing.T) {
	svc := newService(&fakeStore{}, nil)

	conv, reply := svc.HandleTurn(context.Background(), "en", nil, "Lunch with Sam tomorrow at 1pm")
	require.NotNil(t, conv)
	assert.Equal(t, entities.StepAskAttendees, conv.Step)
	assert.Equal(t, "prompt.attendees", reply.Text)
	require.NotNil(t, conv.Draft.Start)
	assert.Equal(t, at(2025, time.March, 11, 13, 0), *conv.Draft.Start)
}

func TestConversationSeedWithoutTitleAsksTitle(t *testing.T) {
	svc := newService(&fakeStore{}, nil)
	ctx := context.Background()

	conv, reply := svc.HandleTurn(ctx, "en", nil, "tomorrow 4pm")
	require.NotNil(t, conv)
	assert.Equal(t, entities.StepAskTitle, conv.Step)
	assert.Equal(t, "prompt.title", reply.Text)

	// Blank answer falls back to "Untitled"; time is already known so the
	// dialogue moves on to attendees.
	conv, _ = svc.HandleTurn(ctx, "en", conv, "   ")
	require.NotNil(t, conv)
	assert.Equal(t, entities.StepAskAttendees, conv.Step)
	assert.Equal(t, "Untitled", conv.Draft.Title)
}

func TestConversationAttendeesLowercasedAndDeduped(t *testing.T) {
	svc := newService(&fakeStore{}, nil)
	ctx := context.Background()

	conv, _ := svc.HandleTurn(ctx, "en", nil, "Sync tomorrow 2pm")
	conv, _ = svc.HandleTurn(ctx, "en", conv, "Sam@Example.com sam@example.com kim@test.org")
	require.NotNil(t, conv)
	assert.Equal(t, entities.StepAskConfirm, conv.Step)
	assert.Equal(t, []string{"sam@example.com", "kim@test.org"}, conv.Draft.Attendees)
}

func TestConversationWhenRetryOnMissingTime(t *testing.T) {
	svc := newService(&fakeStore{}, nil)
	ctx := context.Background()

	conv, _ := svc.HandleTurn(ctx, "en", nil, "Meeting")
	require.Equal(t, entities.StepAskWhen, conv.Step)

	conv, reply := svc.HandleTurn(ctx, "en", conv, "soonish maybe")
	require.NotNil(t, conv)
	assert.Equal(t, entities.StepAskWhen, conv.Step)
	assert.Equal(t, "prompt.when_retry", reply.Text)
	assert.True(t, reply.IsError)
}

func TestConversationConfirmRetryOnGarbage(t *testing.T) {
	svc := newService(&fakeStore{}, nil)
	ctx := context.Background()

	conv, _ := svc.HandleTurn(ctx, "en", nil, "Demo tomorrow 5pm")
	conv, _ = svc.HandleTurn(ctx, "en", conv, "no")
	require.Equal(t, entities.StepAskConfirm, conv.Step)

	conv, reply := svc.HandleTurn(ctx, "en", conv, "hmm what")
	require.NotNil(t, conv)
	assert.Equal(t, entities.StepAskConfirm, conv.Step)
	assert.Equal(t, "confirm.retry", reply.Text)
	assert.True(t, reply.IsError)
}

func TestConversationEditFlow(t *testing.T) {
	svc := newService(&fakeStore{}, nil)
	ctx := context.Background()

	conv, _ := svc.HandleTurn(ctx, "en", nil, "Demo tomorrow 5pm")
	conv, _ = svc.HandleTurn(ctx, "en", conv, "no")
	conv, reply := svc.HandleTurn(ctx, "en", conv, "edit")
	require.NotNil(t, conv)
	assert.Equal(t, entities.StepAskWhatEdit, conv.Step)
	assert.Equal(t, "edit.what", reply.Text)

	conv, reply = svc.HandleTurn(ctx, "en", conv, "the time please")
	require.NotNil(t, conv)
	assert.Equal(t, entities.StepAskWhen, conv.Step)
	assert.Equal(t, "edit.when", reply.Text)

	conv, _ = svc.HandleTurn(ctx, "en", conv, "6pm")
	require.NotNil(t, conv)
	assert.Equal(t, entities.StepAskAttendees, conv.Step)
	assert.Equal(t, at(2025, time.March, 10, 18, 0), *conv.Draft.Start)

	// Unrecognized edit target re-prompts.
	conv.Step = entities.StepAskWhatEdit
	conv, reply = svc.HandleTurn(ctx, "en", conv, "the venue")
	assert.Equal(t, entities.StepAskWhatEdit, conv.Step)
	assert.Equal(t, "edit.retry", reply.Text)
	assert.True(t, reply.IsError)
}

func TestConversationSaveFailureKeepsConfirmState(t *testing.T) {
	store := &fakeStore{failSave: true}
	svc := newService(store, nil)
	ctx := context.Background()

	conv, _ := svc.HandleTurn(ctx, "en", nil, "Demo tomorrow 5pm")
	conv, _ = svc.HandleTurn(ctx, "en", conv, "no")
	require.Equal(t, entities.StepAskConfirm, conv.Step)

	conv, reply := svc.HandleTurn(ctx, "en", conv, "confirm")
	require.NotNil(t, conv)
	assert.Equal(t, entities.StepAskConfirm, conv.Step)
	assert.Equal(t, "error.storage_error", reply.Text)
	assert.True(t, reply.IsError)

	// Storage recovers; the retry succeeds.
	store.failSave = false
	conv, reply = svc.HandleTurn(ctx, "en", conv, "yes")
	assert.Nil(t, conv)
	assert.Contains(t, reply.Text, "confirm.saved")
	assert.Len(t, store.events, 1)
}

func TestConversationRemoteFailureSavesNothing(t *testing.T) {
	store := &fakeStore{}
	calendar := &fakeCalendar{fail: true}
	svc := newService(store, calendar)
	ctx := context.Background()

	conv, _ := svc.HandleTurn(ctx, "en", nil, "Demo tomorrow 5pm")
	conv, _ = svc.HandleTurn(ctx, "en", conv, "no")
	conv, reply := svc.HandleTurn(ctx, "en", conv, "confirm")
	require.NotNil(t, conv)
	assert.Equal(t, entities.StepAskConfirm, conv.Step)
	assert.Equal(t, "error.remote_error", reply.Text)
	assert.Empty(t, store.events)

	calendar.fail = false
	conv, _ = svc.HandleTurn(ctx, "en", conv, "confirm")
	assert.Nil(t, conv)
	assert.Len(t, calendar.created, 1)
	assert.Len(t, store.events, 1)
}

func TestConversationCancel(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store, nil)
	ctx := context.Background()

	conv, _ := svc.HandleTurn(ctx, "en", nil, "Demo tomorrow 5pm")
	require.NotNil(t, conv)

	conv, reply := svc.HandleTurn(ctx, "en", conv, "cancel")
	assert.Nil(t, conv)
	assert.Equal(t, "convo.cancelled", reply.Text)
	assert.Empty(t, store.events)
}

func TestConversationParseErrorStaysIdle(t *testing.T) {
	svc := newService(&fakeStore{}, nil)

	conv, reply := svc.HandleTurn(context.Background(), "en", nil, "?!---")
	assert.Nil(t, conv)
	assert.Equal(t, "error.parse_error", reply.Text)
	assert.True(t, reply.IsError)
}
