package discord

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"schedbot/internal/domain/entities"
	"schedbot/internal/ports/input"
	"schedbot/internal/ports/output"
)

// Handler routes chat messages and slash commands to the use cases. It owns
// one conversation slot per channel plus the per-channel busy gate: a turn
// runs to completion before the next message in that channel is accepted.
type Handler struct {
	convoUseCase input.ConversationUseCase
	eventUseCase input.EventUseCase
	translator   output.T
	locale       string
	loc          *time.Location
	chatChannel  string
	remoteList   bool

	mu            sync.Mutex
	conversations map[string]*entities.Conversation
	busy          map[string]bool
}

// NewHandler creates a Handler. chatChannel restricts which guild channel
// the bot converses in; DMs are always accepted. remoteList adds the remote
// calendar section to /upcoming.
func NewHandler(
	convoUseCase input.ConversationUseCase,
	eventUseCase input.EventUseCase,
	translator output.T,
	locale string,
	loc *time.Location,
	chatChannel string,
	remoteList bool,
) *Handler {
	return &Handler{
		convoUseCase:  convoUseCase,
		eventUseCase:  eventUseCase,
		translator:    translator,
		locale:        locale,
		loc:           loc,
		chatChannel:   chatChannel,
		remoteList:    remoteList,
		conversations: make(map[string]*entities.Conversation),
		busy:          make(map[string]bool),
	}
}

// HandleMessage runs one dialogue turn for a user message.
func (h *Handler) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	// Guild messages only in the configured channel; DMs always pass.
	if h.chatChannel != "" && m.GuildID != "" && m.ChannelID != h.chatChannel {
		return
	}

	h.mu.Lock()
	if h.busy[m.ChannelID] {
		h.mu.Unlock()
		h.send(s, m.ChannelID, h.translator.T(h.locale, "convo.busy", nil))
		return
	}
	h.busy[m.ChannelID] = true
	conv := h.conversations[m.ChannelID]
	h.mu.Unlock()

	// Typing indicator while the turn is in flight.
	_ = s.ChannelTyping(m.ChannelID)

	next, reply := h.convoUseCase.HandleTurn(context.Background(), h.locale, conv, m.Content)

	h.mu.Lock()
	if next == nil {
		delete(h.conversations, m.ChannelID)
	} else {
		h.conversations[m.ChannelID] = next
	}
	h.busy[m.ChannelID] = false
	h.mu.Unlock()

	// Error replies quote the message that caused them so they stand
	// out from normal assistant messages.
	if reply.IsError {
		if _, err := s.ChannelMessageSendReply(m.ChannelID, reply.Text, m.Reference()); err != nil {
			log.Printf("❌ Envoi du message d'erreur (channel=%s): %v", m.ChannelID, err)
		}
		return
	}
	h.send(s, m.ChannelID, reply.Text)
}

func (h *Handler) send(s *discordgo.Session, channelID, content string) {
	if content == "" {
		return
	}
	if _, err := s.ChannelMessageSend(channelID, content); err != nil {
		log.Printf("❌ Envoi du message (channel=%s): %v", channelID, err)
	}
}
