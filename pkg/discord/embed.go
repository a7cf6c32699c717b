package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"schedbot/internal/domain/entities"
)

const embedColor = 0x5865F2

// BuildEventListEmbed renders the event list as one embed, positions
// numbered as /remove expects them. emptyText is shown when there is
// nothing to list.
func BuildEventListEmbed(title string, events []entities.SavedEvent, loc *time.Location, emptyText string) *discordgo.MessageEmbed {
	var b strings.Builder
	if len(events) == 0 {
		b.WriteString(emptyText)
	}
	for i, event := range events {
		b.WriteString(fmt.Sprintf("`%d.` **%s**\n%s", i, event.Title, FormatTimeRange(event.Start, event.End, loc)))
		if len(event.Attendees) > 0 {
			b.WriteString("\n👥 " + strings.Join(event.Attendees, ", "))
		}
		b.WriteString("\n\n")
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: strings.TrimRight(b.String(), "\n"),
		Color:       embedColor,
	}
}
