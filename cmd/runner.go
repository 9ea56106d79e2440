package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotkit/internal/auth"
	"github.com/desertthunder/spotkit/internal/cache"
	"github.com/desertthunder/spotkit/internal/formatter"
	"github.com/desertthunder/spotkit/internal/shared"
	"github.com/desertthunder/spotkit/internal/spotify"
	"github.com/desertthunder/spotkit/internal/transport"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
	store      cache.Store
	apiURL     string
	endpoint   oauth2.Endpoint
	openURL    func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Store replaces the cache selected by [shared.CacheConfig]. A nil HTTPClient is built from [shared.HTTPConfig] on use.
type RunnerOpts struct {
	Config     *shared.Config
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
	Store      cache.Store
	APIURL     string
	Endpoint   oauth2.Endpoint
	OpenURL    func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.APIURL == "" {
		opts.APIURL = spotify.APIURL
	}
	if opts.Endpoint.AuthURL == "" {
		opts.Endpoint.AuthURL = auth.Endpoint.AuthURL
	}
	if opts.Endpoint.TokenURL == "" {
		opts.Endpoint.TokenURL = auth.Endpoint.TokenURL
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}

	return &Runner{
		config:     opts.Config,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
		store:      opts.Store,
		apiURL:     opts.APIURL,
		endpoint:   opts.Endpoint,
		openURL:    opts.OpenURL,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, configCommand, authCommand,
		trackCommand, artistCommand, albumCommand, searchCommand,
		userCommand, meCommand, recentCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the config file named by --config, applies credential overrides from flags
// or the environment, and sets the log level.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if err := r.loadConfig(cmd.String("config"), cmd.IsSet("config")); err != nil {
		return ctx, err
	}

	creds := &r.config.Credentials.Spotify
	if v := cmd.String("client-id"); v != "" {
		creds.ClientID = v
	}
	if v := cmd.String("client-secret"); v != "" {
		creds.ClientSecret = v
	}
	if v := cmd.String("redirect-uri"); v != "" {
		creds.RedirectURI = v
	}

	level := r.config.Log.Level
	if v := cmd.String("log-level"); v != "" {
		level = v
	}
	shared.SetLogLevel(r.logger, shared.ParseLogLevel(level))

	return ctx, nil
}

func (r *Runner) loadConfig(path string, explicit bool) error {
	r.configPath = path
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); err != nil {
		if explicit {
			r.logger.Warn("config file not found, using defaults", "path", path)
		} else {
			r.logger.Debug("config file not found, using defaults", "path", path)
		}
		return nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return err
	}
	r.config = config
	r.logger.Debug("loaded config", "path", path)
	return nil
}

func (r *Runner) client() *http.Client {
	if r.httpClient != nil {
		return r.httpClient
	}
	return &http.Client{Timeout: r.config.HTTP.Timeout()}
}

// tokenStore opens the configured token cache. The returned func releases it.
func (r *Runner) tokenStore() (cache.Store, func(), error) {
	if r.store != nil {
		return r.store, func() {}, nil
	}

	switch driver := r.config.Cache.Driver; driver {
	case "", "file":
		return cache.NewFileStore(""), func() {}, nil
	case "sqlite":
		store, err := cache.OpenSQLiteStore(r.config.Cache.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open token cache: %w", err)
		}
		return store, func() {
			if err := store.Close(); err != nil {
				r.logger.Warn("failed to close token cache", "error", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown cache driver %q", shared.ErrInvalidConfig, driver)
	}
}

func (r *Runner) exchanger() *auth.TokenExchanger {
	return auth.NewTokenExchanger(transport.NewClient(r.client(), r.logger), r.endpoint.TokenURL, r.logger)
}

// oauth builds the authorization code coordinator over the configured token cache.
func (r *Runner) oauth() (*auth.OAuth, func(), error) {
	creds := r.config.Credentials.Spotify
	if err := creds.Validate(); err != nil {
		return nil, nil, err
	}

	store, release, err := r.tokenStore()
	if err != nil {
		return nil, nil, err
	}

	o, err := auth.NewOAuth(auth.OAuthOpts{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURI:  creds.RedirectURI,
		State:        creds.State,
		Scope:        auth.Scope(creds.Scope),
		CachePath:    r.config.Cache.Path,
		Endpoint:     r.endpoint,
		Exchanger:    r.exchanger(),
		Store:        store,
		Logger:       r.logger,
	})
	if err != nil {
		release()
		return nil, nil, err
	}
	return o, release, nil
}

// api builds a Spotify client. With --client-credentials requests carry an app-only token
// reused until it expires; otherwise the cached user token is validated and refreshed per request.
func (r *Runner) api(ctx context.Context, cmd *cli.Command) (*spotify.Client, func(), error) {
	inner := transport.NewClient(r.client(), r.logger)

	if cmd.Bool("client-credentials") {
		creds := r.config.Credentials.Spotify
		cc, err := auth.NewClientCredentials(creds.ClientID, creds.ClientSecret, r.exchanger())
		if err != nil {
			return nil, nil, err
		}

		hc := auth.NewAuthorizedClient(inner, auth.FromTokenSource(auth.TokenSource(ctx, cc)))
		return spotify.NewClient(hc, r.apiURL, r.logger), func() {}, nil
	}

	o, release, err := r.oauth()
	if err != nil {
		return nil, nil, err
	}

	hc := auth.NewAuthorizedClient(inner, o)
	return spotify.NewClient(hc, r.apiURL, r.logger), release, nil
}

func (r *Runner) writeTable(cmd *cli.Command, t formatter.Table) error {
	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	return formatter.Write(r.output, t, f)
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
