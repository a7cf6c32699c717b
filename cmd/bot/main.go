package main

import (
	"context"
	"log"
	"os"

	"schedbot/internal/adapters/discord"
	"schedbot/internal/config"
	"schedbot/internal/infrastructure/database"
	"schedbot/internal/infrastructure/google"
	"schedbot/internal/infrastructure/i18n"
	"schedbot/internal/ports/output"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Erreur de configuration: %v", err)
	}

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatalf("❌ Erreur lors des migrations: %v", err)
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Erreur lors de l'initialisation de la base de données: %v", err)
	}
	defer pool.Close()

	store := database.NewEventStore(pool)
	translator := i18n.NewTranslator(cfg.Locale)

	var calendar output.CalendarGateway
	if cfg.CalendarSync {
		gateway, err := google.NewCalendarGateway(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleTokenFile)
		if err != nil {
			// Local-only mode still works; remote sync just stays off.
			log.Printf("⚠️ Passerelle Google Calendar indisponible, mode local uniquement: %v", err)
		} else {
			calendar = gateway
		}
	}

	bot, err := discord.NewBot(cfg, store, calendar, translator)
	if err != nil {
		log.Fatalf("❌ Erreur lors de la création du bot: %v", err)
	}
	if err := bot.Start(); err != nil {
		log.Printf("❌ Erreur lors du démarrage du bot: %v", err)
		os.Exit(1)
	}
}
