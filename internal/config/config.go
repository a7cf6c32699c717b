package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Token           string
	ChatChannelID   string
	DatabaseURL     string
	MigrationsPath  string
	Locale          string
	DisplayTimezone string
	ReminderWindow  time.Duration

	CalendarSync       bool
	GoogleClientID     string
	GoogleClientSecret string
	GoogleTokenFile    string
}

// Load charge la configuration depuis les variables d'environnement et la valide.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env est optionnel lorsque les variables sont fournies par l'environnement (Docker, CI, etc.).
	}

	cfg := &Config{
		Token:              os.Getenv("TOKEN"),
		ChatChannelID:      os.Getenv("CHAT_CHANNEL_ID"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		MigrationsPath:     os.Getenv("MIGRATIONS_PATH"),
		Locale:             os.Getenv("LOCALE"),
		DisplayTimezone:    os.Getenv("DISPLAY_TIMEZONE"),
		CalendarSync:       strings.EqualFold(os.Getenv("GOOGLE_CALENDAR_SYNC"), "true"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleTokenFile:    os.Getenv("GOOGLE_TOKEN_FILE"),
	}

	cfg.ReminderWindow = 30 * time.Minute
	if raw := os.Getenv("REMINDER_WINDOW"); raw != "" {
		window, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("config: REMINDER_WINDOW invalide (%q): %w", raw, err)
		}
		cfg.ReminderWindow = window
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate applique toutes les règles métier sur la configuration chargée.
func (c *Config) validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("config: TOKEN est requis et ne peut pas être vide")
	}

	for _, r := range c.ChatChannelID {
		if r < '0' || r > '9' {
			return fmt.Errorf("config: CHAT_CHANNEL_ID doit être un ID de salon Discord (chiffres uniquement)")
		}
	}

	if strings.TrimSpace(c.DatabaseURL) == "" {
		// Valeur par défaut utile en local lorsque DATABASE_URL n'est pas fournie.
		c.DatabaseURL = "postgres://localhost:5432/schedbot?sslmode=disable"
	}

	parsed, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return fmt.Errorf("config: DATABASE_URL invalide (%q): %w", c.DatabaseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: DATABASE_URL invalide (%q): scheme ou host manquant", c.DatabaseURL)
	}

	if strings.TrimSpace(c.MigrationsPath) == "" {
		c.MigrationsPath = "migrations"
	}
	if strings.TrimSpace(c.Locale) == "" {
		c.Locale = "en"
	}
	if c.ReminderWindow <= 0 {
		return fmt.Errorf("config: REMINDER_WINDOW doit être positif")
	}

	if c.CalendarSync {
		if strings.TrimSpace(c.GoogleClientID) == "" || strings.TrimSpace(c.GoogleClientSecret) == "" {
			return fmt.Errorf("config: GOOGLE_CLIENT_ID et GOOGLE_CLIENT_SECRET sont requis quand GOOGLE_CALENDAR_SYNC=true")
		}
		if strings.TrimSpace(c.GoogleTokenFile) == "" {
			c.GoogleTokenFile = "token.json"
		}
	}

	return nil
}
