package application

import (
	"context"
	"log"
	"regexp"
	"strings"
	"time"

	"schedbot/internal/domain"
	"schedbot/internal/domain/entities"
	"schedbot/internal/ports/input"
	"schedbot/internal/ports/output"
)

var _ input.ConversationUseCase = (*ConversationService)(nil)

var (
	emailRe  = regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`)
	skipRe   = regexp.MustCompile(`(?i)^(no|none|skip)$`)
	cancelRe = regexp.MustCompile(`(?i)^(cancel|abort)$`)
)

// ConversationService drives the five-step scheduling dialogue. One instance
// serves all conversations; per-dialogue state travels in the Conversation
// object owned by the caller.
type ConversationService struct {
	extractor  *Extractor
	store      output.EventStore
	calendar   output.CalendarGateway // nil when calendar sync is off
	translator output.T
	loc        *time.Location
	now        func() time.Time
}

func NewConversationService(
	extractor *Extractor,
	store output.EventStore,
	calendar output.CalendarGateway,
	translator output.T,
	loc *time.Location,
	now func() time.Time,
) *ConversationService {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &ConversationService{
		extractor:  extractor,
		store:      store,
		calendar:   calendar,
		translator: translator,
		loc:        loc,
		now:        now,
	}
}

// HandleTurn processes one user message. It returns the successor
// conversation (nil = back to idle) and the assistant's reply. Failures
// never escape as errors; they become error replies and leave the
// conversation in a state the user can recover from.
func (s *ConversationService) HandleTurn(ctx context.Context, locale string, conv *entities.Conversation, text string) (*entities.Conversation, entities.Reply) {
	trimmed := strings.TrimSpace(text)

	if conv != nil && cancelRe.MatchString(trimmed) {
		return nil, s.say(locale, "convo.cancelled", nil)
	}
	if conv == nil {
		return s.seed(locale, trimmed)
	}

	switch conv.Step {
	case entities.StepAskTitle:
		return s.onTitle(locale, conv, trimmed)
	case entities.StepAskWhen:
		return s.onWhen(locale, conv, trimmed)
	case entities.StepAskAttendees:
		return s.onAttendees(locale, conv, trimmed)
	case entities.StepAskConfirm:
		return s.onConfirm(ctx, locale, conv, trimmed)
	case entities.StepAskWhatEdit:
		return s.onWhatEdit(locale, conv, trimmed)
	}

	// Unknown step means the state got corrupted somehow; reset to idle
	// instead of looping forever.
	log.Printf("⚠️ Conversation dans un état inconnu (%q), réinitialisation.", conv.Step)
	return nil, s.sayError(locale, "error.generic", nil)
}

// seed starts a new conversation from free text and jumps to the first
// missing field.
func (s *ConversationService) seed(locale, text string) (*entities.Conversation, entities.Reply) {
	ext, err := s.extractor.Extract(text)
	if err != nil {
		return nil, s.codedError(locale, err)
	}

	conv := &entities.Conversation{
		Draft: entities.Draft{
			Title:      ext.Title,
			TitleKnown: ext.TitleKnown,
			Start:      ext.Start,
			End:        ext.End,
			Attendees:  []string{},
		},
	}
	switch {
	case !conv.Draft.TitleKnown:
		conv.Step = entities.StepAskTitle
		return conv, s.say(locale, "prompt.title", nil)
	case conv.Draft.Start == nil:
		conv.Step = entities.StepAskWhen
		return conv, s.say(locale, "prompt.when", nil)
	default:
		conv.Step = entities.StepAskAttendees
		return conv, s.say(locale, "prompt.attendees", nil)
	}
}

func (s *ConversationService) onTitle(locale string, conv *entities.Conversation, text string) (*entities.Conversation, entities.Reply) {
	if text != "" {
		conv.Draft.Title = text
	} else if !conv.Draft.TitleKnown {
		conv.Draft.Title = "Untitled"
	}
	conv.Draft.TitleKnown = true

	if conv.Draft.Start != nil {
		conv.Step = entities.StepAskAttendees
		return conv, s.say(locale, "prompt.attendees", nil)
	}
	conv.Step = entities.StepAskWhen
	return conv, s.say(locale, "prompt.when", nil)
}

func (s *ConversationService) onWhen(locale string, conv *entities.Conversation, text string) (*entities.Conversation, entities.Reply) {
	ext, err := s.extractor.Extract(text)
	if err != nil {
		return conv, s.codedError(locale, err)
	}
	if ext.Start == nil {
		return conv, s.sayError(locale, "prompt.when_retry", nil)
	}
	conv.Draft.Start = ext.Start
	conv.Draft.End = ext.End
	conv.Step = entities.StepAskAttendees
	return conv, s.say(locale, "prompt.attendees", nil)
}

func (s *ConversationService) onAttendees(locale string, conv *entities.Conversation, text string) (*entities.Conversation, entities.Reply) {
	if skipRe.MatchString(text) {
		conv.Draft.Attendees = []string{}
	} else {
		conv.Draft.Attendees = extractEmails(text)
	}
	conv.Step = entities.StepAskConfirm

	attendees := "—"
	if len(conv.Draft.Attendees) > 0 {
		attendees = strings.Join(conv.Draft.Attendees, ", ")
	}
	return conv, s.say(locale, "confirm.summary", map[string]any{
		"Title":     conv.Draft.Title,
		"When":      s.formatWhen(conv.Draft.Start, conv.Draft.End),
		"Attendees": attendees,
	})
}

func (s *ConversationService) onConfirm(ctx context.Context, locale string, conv *entities.Conversation, text string) (*entities.Conversation, entities.Reply) {
	switch strings.ToLower(text) {
	case "confirm", "yes", "y":
		event := entities.SavedEvent{
			Title:     conv.Draft.Title,
			Start:     conv.Draft.Start,
			End:       conv.Draft.End,
			Attendees: conv.Draft.Attendees,
			CreatedAt: s.now(),
		}
		if err := s.persist(ctx, event); err != nil {
			log.Printf("❌ Sauvegarde de l'événement %q: %v", event.Title, err)
			// Stay on askConfirm so the user can just retry.
			return conv, s.codedError(locale, err)
		}
		return nil, s.say(locale, "confirm.saved", map[string]any{
			"Title": event.Title,
			"When":  s.formatWhen(event.Start, event.End),
		})
	case "edit", "change":
		conv.Step = entities.StepAskWhatEdit
		return conv, s.say(locale, "edit.what", nil)
	default:
		return conv, s.sayError(locale, "confirm.retry", nil)
	}
}

func (s *ConversationService) onWhatEdit(locale string, conv *entities.Conversation, text string) (*entities.Conversation, entities.Reply) {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "title"):
		conv.Step = entities.StepAskTitle
		return conv, s.say(locale, "edit.title", nil)
	case strings.Contains(lower, "time"), strings.Contains(lower, "when"):
		conv.Step = entities.StepAskWhen
		return conv, s.say(locale, "edit.when", nil)
	case strings.Contains(lower, "invite"), strings.Contains(lower, "attendee"):
		conv.Step = entities.StepAskAttendees
		return conv, s.say(locale, "edit.attendees", nil)
	default:
		return conv, s.sayError(locale, "edit.retry", nil)
	}
}

// persist pushes the event to the remote calendar (when configured) and
// appends it to the local list. Remote first: nothing is written locally
// when the calendar rejects the event, so a retry stays consistent.
func (s *ConversationService) persist(ctx context.Context, event entities.SavedEvent) error {
	if s.calendar != nil {
		if _, err := s.calendar.CreateEvent(ctx, event); err != nil {
			return err
		}
	}
	events, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	events = append(events, event)
	return s.store.Save(ctx, events)
}

func (s *ConversationService) say(locale, key string, data map[string]any) entities.Reply {
	return entities.Reply{Text: s.translator.T(locale, key, data)}
}

func (s *ConversationService) sayError(locale, key string, data map[string]any) entities.Reply {
	return entities.Reply{Text: s.translator.T(locale, key, data), IsError: true}
}

// codedError resolves a domain error to its localized message.
func (s *ConversationService) codedError(locale string, err error) entities.Reply {
	key := "error.generic"
	if code := domain.Code(err); code != "" {
		key = "error." + code
	}
	return s.sayError(locale, key, nil)
}

func (s *ConversationService) formatWhen(start, end *time.Time) string {
	if start == nil {
		return "—"
	}
	text := start.In(s.loc).Format("Mon, 02 Jan 2006 15:04")
	if end != nil {
		text += " → " + end.In(s.loc).Format("15:04")
	}
	return text
}

// extractEmails pulls out everything email-shaped, lowercased and deduped
// in first-seen order.
func extractEmails(text string) []string {
	seen := map[string]bool{}
	emails := []string{}
	for _, match := range emailRe.FindAllString(text, -1) {
		lower := strings.ToLower(match)
		if !seen[lower] {
			seen[lower] = true
			emails = append(emails, lower)
		}
	}
	return emails
}
