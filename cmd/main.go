package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/spotkit/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	app := newApp(NewRunner(RunnerOpts{Logger: logger}))

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented", "error", err)
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}

func newApp(runner *Runner) *cli.Command {
	return &cli.Command{
		Name:    "spotkit",
		Usage:   "Query the Spotify Web API with cached OAuth tokens",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:    "client-id",
				Usage:   "Spotify client ID; overrides [credentials.spotify] client_id",
				Sources: cli.EnvVars("SPOTIFY_CLIENT_ID"),
			},
			&cli.StringFlag{
				Name:    "client-secret",
				Usage:   "Spotify client secret; overrides [credentials.spotify] client_secret",
				Sources: cli.EnvVars("SPOTIFY_CLIENT_SECRET"),
			},
			&cli.StringFlag{
				Name:    "redirect-uri",
				Usage:   "Registered redirect URI; overrides [credentials.spotify] redirect_uri",
				Sources: cli.EnvVars("SPOTIFY_REDIRECT_URI"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error); overrides [log] level",
			},
		},
		Before:   runner.Before,
		Commands: runner.register(),
	}
}
