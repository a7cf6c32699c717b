package discord

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	pkgdiscord "schedbot/pkg/discord"
)

// RunReminderSweep announces events starting within window to the chat
// channel. Each event is announced once per process lifetime.
func (h *Handler) RunReminderSweep(s *discordgo.Session, window time.Duration) {
	if h.chatChannel == "" {
		log.Println("⚠️ Pas de CHAT_CHANNEL_ID configuré, rappels désactivés.")
		return
	}

	announced := make(map[string]bool)
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		due, err := h.eventUseCase.StartingSoon(context.Background(), time.Now(), window)
		if err != nil {
			log.Printf("⚠️ Balayage des rappels: %v", err)
			continue
		}
		for _, event := range due {
			key := fmt.Sprintf("%s|%d", event.Title, event.Start.UnixMilli())
			if announced[key] {
				continue
			}
			announced[key] = true
			h.send(s, h.chatChannel, h.translator.T(h.locale, "reminder.soon", map[string]any{
				"Title": event.Title,
				"When":  pkgdiscord.FormatEventTime(event.Start, h.loc),
			}))
		}
	}
}
