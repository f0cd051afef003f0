package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/cardboard/internal/agent"
	"github.com/cardboard/internal/api"
	"github.com/cardboard/internal/chat"
	"github.com/cardboard/internal/config"
	"github.com/cardboard/internal/logging"
	"github.com/cardboard/internal/tools"
)

// ServeCommand returns the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the chat web server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Override the listen port",
			},
			&cli.BoolFlag{
				Name:  "pretty-logs",
				Usage: "Human-readable log output",
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := logging.Setup(cfg.Log.Level, c.Bool("pretty-logs")); err != nil {
		return err
	}

	if c.Int("port") != 0 {
		cfg.Server.Port = c.Int("port")
	}

	toolset := tools.All(tools.Config{
		DocsURL:    cfg.Docs.URL,
		DocsAPIKey: cfg.Docs.APIKey,
	})

	connector, err := agent.New(context.Background(), agent.Options{
		Provider:    agent.Provider(cfg.AI.Provider),
		APIKey:      cfg.AI.APIKey,
		BaseURL:     cfg.AI.BaseURL,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		MaxTokens:   cfg.AI.MaxTokens,
	}, toolset)
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}

	session := chat.NewSession(connector, chat.Config{
		FallbackColor: cfg.Cards.FallbackColor,
		TurnTimeout:   time.Duration(cfg.AI.TurnTimeoutSeconds) * time.Second,
		ColorTimeout:  time.Duration(cfg.AI.ColorTimeoutSeconds) * time.Second,
	})

	log.Info().
		Str("provider", cfg.AI.Provider).
		Str("model", cfg.AI.Model).
		Int("port", cfg.Server.Port).
		Msg("starting server")

	server := api.NewServer(cfg.Server.Host, cfg.Server.Port, session)
	return server.Start()
}
