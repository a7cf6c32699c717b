package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"

	"schedbot/internal/infrastructure/google"
)

// calauth runs the interactive Google OAuth flow once and stores the token
// file the bot picks up when GOOGLE_CALENDAR_SYNC=true.
func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "calauth",
		Usage: "Authenticate with Google Calendar and save a token for the bot.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "token-file",
				Value:   "token.json",
				Usage:   "where to write the OAuth token",
				EnvVars: []string{"GOOGLE_TOKEN_FILE"},
			},
		},
		Action: authAction,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func authAction(c *cli.Context) error {
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("GOOGLE_CLIENT_ID et GOOGLE_CLIENT_SECRET sont requis")
	}

	config := google.OAuthConfig(clientID, clientSecret)
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Ouvre ce lien dans ton navigateur puis colle le code d'autorisation :\n%v\n\n", authURL)

	fmt.Print("Code d'autorisation : ")
	reader := bufio.NewReader(os.Stdin)
	authCode, _ := reader.ReadString('\n')
	authCode = strings.TrimSpace(authCode)

	token, err := google.ExchangeAuthCode(context.Background(), config, authCode)
	if err != nil {
		return fmt.Errorf("échange du code d'autorisation: %w", err)
	}

	tokenFile := c.String("token-file")
	if err := google.SaveToken(tokenFile, token); err != nil {
		return fmt.Errorf("écriture du token: %w", err)
	}

	log.Printf("✅ Token enregistré dans %s", tokenFile)
	return nil
}
