package google

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"schedbot/internal/domain"
	"schedbot/internal/domain/entities"
	"schedbot/internal/ports/output"
)

var _ output.CalendarGateway = (*CalendarGateway)(nil)

// CalendarGateway talks to the Google Calendar API for the signed-in user.
// The token is acquired interactively once (cmd/calauth) and refreshed by
// the oauth2 client afterwards.
type CalendarGateway struct {
	service *calendar.Service
}

// NewCalendarGateway builds an authenticated gateway. It fails when no token
// file exists yet; run calauth first in that case.
func NewCalendarGateway(ctx context.Context, clientID, clientSecret, tokenFile string) (*CalendarGateway, error) {
	config := OAuthConfig(clientID, clientSecret)
	token, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("load token %s: %w (run calauth first)", tokenFile, err)
	}
	service, err := calendar.NewService(ctx, option.WithHTTPClient(config.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	log.Println("✅ Passerelle Google Calendar prête.")
	return &CalendarGateway{service: service}, nil
}

// CreateEvent inserts the event into the primary calendar.
func (g *CalendarGateway) CreateEvent(ctx context.Context, event entities.SavedEvent) (string, error) {
	if event.Start == nil {
		return "", domain.RemoteError(fmt.Errorf("event %q has no start time", event.Title))
	}
	end := event.Start
	if event.End != nil {
		end = event.End
	}

	attendees := make([]*calendar.EventAttendee, 0, len(event.Attendees))
	for _, email := range event.Attendees {
		attendees = append(attendees, &calendar.EventAttendee{Email: email})
	}

	created, err := g.service.Events.Insert("primary", &calendar.Event{
		Summary:   event.Title,
		Start:     &calendar.EventDateTime{DateTime: event.Start.Format(time.RFC3339)},
		End:       &calendar.EventDateTime{DateTime: end.Format(time.RFC3339)},
		Attendees: attendees,
	}).Context(ctx).Do()
	if err != nil {
		return "", domain.RemoteError(fmt.Errorf("insert event: %w", err))
	}
	return created.HtmlLink, nil
}

// ListEvents returns upcoming primary-calendar events from timeMin on.
func (g *CalendarGateway) ListEvents(ctx context.Context, maxResults int64, timeMin time.Time) ([]entities.SavedEvent, error) {
	if maxResults <= 0 {
		maxResults = 10
	}
	result, err := g.service.Events.List("primary").
		ShowDeleted(false).
		SingleEvents(true).
		TimeMin(timeMin.Format(time.RFC3339)).
		MaxResults(maxResults).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, domain.RemoteError(fmt.Errorf("list events: %w", err))
	}

	events := make([]entities.SavedEvent, 0, len(result.Items))
	for _, item := range result.Items {
		event := entities.SavedEvent{Title: item.Summary}
		if item.Start != nil && item.Start.DateTime != "" {
			if start, err := time.Parse(time.RFC3339, item.Start.DateTime); err == nil {
				event.Start = &start
			}
		}
		if item.End != nil && item.End.DateTime != "" {
			if end, err := time.Parse(time.RFC3339, item.End.DateTime); err == nil {
				event.End = &end
			}
		}
		for _, attendee := range item.Attendees {
			event.Attendees = append(event.Attendees, attendee.Email)
		}
		events = append(events, event)
	}
	return events, nil
}

// OAuthConfig returns the oauth2 config used for both the interactive auth
// flow and the refreshing client.
func OAuthConfig(clientID, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
		Scopes:       []string{calendar.CalendarEventsScope},
		Endpoint:     google.Endpoint,
	}
}

// ExchangeAuthCode trades the pasted authorization code for a token.
func ExchangeAuthCode(ctx context.Context, config *oauth2.Config, authCode string) (*oauth2.Token, error) {
	return config.Exchange(ctx, authCode)
}

// SaveToken writes the token to path.
func SaveToken(path string, token *oauth2.Token) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create token file: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	token := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(token)
	return token, err
}
