package discord

import (
	"context"
	"log"

	"github.com/bwmarrin/discordgo"

	pkgdiscord "schedbot/pkg/discord"
)

const remoteListMax = 10

// HandleUpcoming renders the saved-event list, plus the remote calendar
// section when the gateway is configured.
func (h *Handler) HandleUpcoming(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	events, err := h.eventUseCase.Upcoming(ctx)
	if err != nil {
		log.Printf("❌ Lecture de la liste des événements: %v", err)
		respondEphemeral(s, i.Interaction, h.translator.T(h.locale, pkgdiscord.ErrorMessageKey(err), nil))
		return
	}

	embeds := []*discordgo.MessageEmbed{
		pkgdiscord.BuildEventListEmbed(
			h.translator.T(h.locale, "list.title", nil),
			events, h.loc,
			h.translator.T(h.locale, "list.empty", nil),
		),
	}

	if h.remoteList {
		remote, err := h.eventUseCase.RemoteUpcoming(ctx, remoteListMax)
		if err != nil {
			log.Printf("⚠️ Lecture du calendrier distant: %v", err)
		} else if len(remote) > 0 {
			embeds = append(embeds, pkgdiscord.BuildEventListEmbed(
				h.translator.T(h.locale, "list.remote_title", nil),
				remote, h.loc,
				h.translator.T(h.locale, "list.empty", nil),
			))
		}
	}

	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: embeds},
	})
}

// HandleRemove deletes one event by its /upcoming position.
func (h *Handler) HandleRemove(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}
	position := int(options[0].IntValue())

	removed, err := h.eventUseCase.RemoveAt(context.Background(), position)
	if err != nil {
		respondEphemeral(s, i.Interaction, h.translator.T(h.locale, pkgdiscord.ErrorMessageKey(err), nil))
		return
	}
	respondEphemeral(s, i.Interaction, h.translator.T(h.locale, "remove.done", map[string]any{
		"Title": removed.Title,
	}))
}

// HandleClear wipes the whole local list.
func (h *Handler) HandleClear(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := h.eventUseCase.Clear(context.Background()); err != nil {
		respondEphemeral(s, i.Interaction, h.translator.T(h.locale, pkgdiscord.ErrorMessageKey(err), nil))
		return
	}
	respondEphemeral(s, i.Interaction, h.translator.T(h.locale, "clear.done", nil))
}

// Commands returns the slash commands this handler serves.
func Commands() []*discordgo.ApplicationCommand {
	minPosition := float64(0)
	return []*discordgo.ApplicationCommand{
		{Name: "upcoming", Description: "Show upcoming events"},
		{
			Name:        "remove",
			Description: "Remove an event by its position in /upcoming",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "position",
					Description: "Zero-based position in the list",
					Required:    true,
					MinValue:    &minPosition,
				},
			},
		},
		{Name: "clear", Description: "Clear all locally saved events"},
	}
}
