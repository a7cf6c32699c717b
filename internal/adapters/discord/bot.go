package discord

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"

	"schedbot/internal/application"
	"schedbot/internal/config"
	"schedbot/internal/ports/output"
	"schedbot/pkg/tz"
)

// Bot is the Discord adapter.
type Bot struct {
	session *discordgo.Session
	config  *config.Config
	handler *Handler
}

// NewBot creates a Bot and wires ports: output adapters -> application (use cases) -> handler.
// calendar may be nil when calendar sync is off.
func NewBot(cfg *config.Config, store output.EventStore, calendar output.CalendarGateway, translator output.T) (*Bot, error) {
	loc := tz.Resolve(cfg.DisplayTimezone)
	extractor := application.NewExtractor(time.Now)
	convoUC := application.NewConversationService(extractor, store, calendar, translator, loc, time.Now)
	eventUC := application.NewEventService(store, calendar)

	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("création de la session Discord: %w", err)
	}
	s.Identify.Intents |= discordgo.IntentMessageContent | discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages

	handler := NewHandler(convoUC, eventUC, translator, cfg.Locale, loc, cfg.ChatChannelID, calendar != nil)

	bot := &Bot{
		session: s,
		config:  cfg,
		handler: handler,
	}
	bot.setupHandlers()
	return bot, nil
}

func (b *Bot) setupHandlers() {
	b.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		b.handler.HandleMessage(s, m)
	})
	b.session.AddHandler(b.handleInteraction)
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	switch i.ApplicationCommandData().Name {
	case "upcoming":
		b.handler.HandleUpcoming(s, i)
	case "remove":
		b.handler.HandleRemove(s, i)
	case "clear":
		b.handler.HandleClear(s, i)
	}
}

// Start runs the bot until interrupted.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("erreur lors de l'ouverture de la session: %w", err)
	}
	defer b.session.Close()

	for _, cmd := range Commands() {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd); err != nil {
			log.Printf("⚠️ Erreur lors de l'enregistrement de la commande %s: %v", cmd.Name, err)
		}
	}

	go b.handler.RunReminderSweep(b.session, b.config.ReminderWindow)

	fmt.Println("🤖 Bot en ligne ! Appuyez sur CTRL+C pour quitter.")
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	return nil
}
