package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/spotkit/internal/formatter"
	"github.com/desertthunder/spotkit/internal/shared"
	"github.com/desertthunder/spotkit/internal/ui"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file when it is missing and prepares the configured token cache.
//
// For the sqlite driver this creates the database and runs migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configPath

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else if err := r.loadConfig(configPath, true); err != nil {
			r.logger.Warn("failed to load created config, using defaults", "error", err)
		}
	}

	r.logger.Info("preparing token cache", "driver", r.config.Cache.Driver)

	_, release, err := r.tokenStore()
	if err != nil {
		return err
	}
	release()

	if err := r.config.Credentials.Spotify.Validate(); err != nil {
		r.logger.Warn("credentials are not set", "path", configPath)
	}

	return r.writePlain("%s\n", ui.Styles.OK("✓ Setup complete"))
}

// ConfigInit writes the example configuration to the --config path.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", r.configPath)
	return r.writePlain("Created %s. Set client_id and client_secret under [credentials.spotify].\n", r.configPath)
}

// ConfigShow prints the effective configuration after flag and environment overrides.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	c := r.config
	creds := c.Credentials.Spotify
	t := formatter.Table{
		Title:   "Config",
		Headers: []string{"Key", "Value"},
		Rows: [][]string{
			{"credentials.spotify.client_id", creds.ClientID},
			{"credentials.spotify.client_secret", shared.MaskSecret(creds.ClientSecret)},
			{"credentials.spotify.redirect_uri", creds.RedirectURI},
			{"credentials.spotify.scope", creds.Scope},
			{"cache.driver", c.Cache.Driver},
			{"cache.path", r.cachePath()},
			{"cache.database_path", c.Cache.DatabasePath},
			{"server.addr", c.Server.Addr()},
			{"http.timeout", c.HTTP.Timeout().String()},
			{"log.level", c.Log.Level},
		},
	}
	if r.configPath != "" {
		t.Title = fmt.Sprintf("Config (%s)", r.configPath)
	}
	return formatter.Write(r.output, t, formatter.FormatText)
}
