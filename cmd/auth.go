package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/desertthunder/spotkit/internal/auth"
	"github.com/desertthunder/spotkit/internal/cache"
	"github.com/desertthunder/spotkit/internal/formatter"
	"github.com/desertthunder/spotkit/internal/server"
	"github.com/desertthunder/spotkit/internal/shared"
	"github.com/desertthunder/spotkit/internal/ui"
	"github.com/urfave/cli/v3"
)

// AuthLogin returns the cached token when it is still usable. Otherwise it opens the
// authorization URL and exchanges the code from the redirect, either received on the
// local callback server (--listen) or pasted into a prompt.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	o, release, err := r.oauth()
	if err != nil {
		return err
	}
	defer release()

	if !cmd.Bool("force") {
		tok, err := o.CachedToken(ctx)
		if err == nil {
			r.logger.Info("using cached token", "path", o.CachePath())
			return r.writeTable(cmd, formatter.Token(tok, o.CachePath()))
		}
		r.logger.Debug("cached token unusable", "error", err)
	}

	state, err := r.state("")
	if err != nil {
		return err
	}

	authURL, err := o.AuthorizeURL(state, cmd.Bool("show-dialog"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
	defer cancel()

	var ln net.Listener
	if cmd.Bool("listen") {
		addr, _, err := r.callbackAddr()
		if err != nil {
			return err
		}
		if ln, err = server.Listen(addr); err != nil {
			return err
		}
	}

	if !cmd.Bool("no-browser") {
		if err := r.openURL(authURL); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	var code string
	if ln != nil {
		if err := r.writePlain("Open %s\nWaiting for the redirect...\n", authURL); err != nil {
			ln.Close()
			return err
		}
		code, err = r.receiveCode(ctx, ln, state)
	} else {
		code, err = ui.PromptRedirect(ctx, authURL, r.input, r.output)
	}
	if err != nil {
		return err
	}

	tok, err := o.FetchAccessToken(ctx, code)
	if err != nil {
		return err
	}

	r.logger.Info("authorization complete", "path", o.CachePath())
	if err := r.writePlain("%s\n", ui.Styles.OK("✓ Authorization complete")); err != nil {
		return err
	}
	return r.writeTable(cmd, formatter.Token(tok, o.CachePath()))
}

// state prefers an explicit value, then the configured one, then a random one.
func (r *Runner) state(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if s := r.config.Credentials.Spotify.State; s != "" {
		return s, nil
	}

	s, err := shared.GenerateState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return s, nil
}

// callbackAddr returns the listen address and path encoded in the redirect URI, falling
// back to [shared.ServerConfig] for a missing port.
func (r *Runner) callbackAddr() (string, string, error) {
	u, err := url.Parse(r.config.Credentials.Spotify.RedirectURI)
	if err != nil || u.Host == "" {
		return "", "", fmt.Errorf("%w: redirect_uri %q cannot be served locally", shared.ErrInvalidConfig, r.config.Credentials.Spotify.RedirectURI)
	}

	addr := u.Host
	if u.Port() == "" {
		addr = fmt.Sprintf("%s:%d", u.Hostname(), r.config.Server.Port)
	}
	return addr, u.Path, nil
}

// receiveCode serves the redirect path on ln until one callback arrives or ctx is done.
func (r *Runner) receiveCode(ctx context.Context, ln net.Listener, state string) (string, error) {
	_, path, err := r.callbackAddr()
	if err != nil {
		ln.Close()
		return "", err
	}

	handler := server.NewCallbackHandler(path, state)
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(handler)

	ctx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, ln, router, r.logger) }()

	code, err := handler.Wait(ctx)
	stop()
	if serveErr := <-done; serveErr != nil {
		r.logger.Warn("callback server stopped with error", "error", serveErr)
	}
	return code, err
}

// AuthURL prints the authorization URL so the flow can be completed elsewhere.
func (r *Runner) AuthURL(ctx context.Context, cmd *cli.Command) error {
	o, release, err := r.oauth()
	if err != nil {
		return err
	}
	defer release()

	state, err := r.state(cmd.String("state"))
	if err != nil {
		return err
	}

	authURL, err := o.AuthorizeURL(state, cmd.Bool("show-dialog"))
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", authURL)
}

// AuthCode exchanges the code in a redirect URL given as an argument.
func (r *Runner) AuthCode(ctx context.Context, cmd *cli.Command) error {
	raw := cmd.StringArg("url")
	if raw == "" {
		return fmt.Errorf("%w: redirect URL", shared.ErrMissingArgument)
	}

	code, ok := auth.ParseRedirectCode(raw)
	if !ok {
		return shared.ErrNoRedirectCode
	}

	o, release, err := r.oauth()
	if err != nil {
		return err
	}
	defer release()

	tok, err := o.FetchAccessToken(ctx, code)
	if err != nil {
		return err
	}
	return r.writeTable(cmd, formatter.Token(tok, o.CachePath()))
}

// AuthStatus reports the cached token as stored, without refreshing it.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	o, release, err := r.oauth()
	if err != nil {
		return err
	}
	defer release()

	tok, err := o.ReadCache(ctx)
	if errors.Is(err, shared.ErrCacheMiss) {
		return r.writePlain("%s\n", ui.Styles.Warn("No cached token. Run `spotkit auth login`."))
	}
	if err != nil {
		return err
	}

	if !o.Scope().IsSubset(tok.Scope) {
		r.logger.Warn("cached token does not cover the configured scope", "cached", tok.Scope, "configured", o.Scope())
	}
	return r.writeTable(cmd, formatter.Token(tok, o.CachePath()))
}

// AuthRefresh exchanges the cached refresh token even if the access token is still valid.
func (r *Runner) AuthRefresh(ctx context.Context, cmd *cli.Command) error {
	o, release, err := r.oauth()
	if err != nil {
		return err
	}
	defer release()

	start := time.Now()
	tok, err := o.Refresh(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("token refreshed", "path", o.CachePath(), "elapsed", time.Since(start))
	return r.writeTable(cmd, formatter.Token(tok, o.CachePath()))
}

// AuthClient runs the client credentials grant. The token is shown but never cached.
func (r *Runner) AuthClient(ctx context.Context, cmd *cli.Command) error {
	creds := r.config.Credentials.Spotify
	cc, err := auth.NewClientCredentials(creds.ClientID, creds.ClientSecret, r.exchanger())
	if err != nil {
		return err
	}

	tok, err := cc.Token(ctx)
	if err != nil {
		return err
	}
	return r.writeTable(cmd, formatter.Token(tok, "(not cached)"))
}

// AuthLogout deletes the cached token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	store, release, err := r.tokenStore()
	if err != nil {
		return err
	}
	defer release()

	deleter, ok := store.(cache.Deleter)
	if !ok {
		return fmt.Errorf("%w: token cache cannot delete entries", shared.ErrNotImplemented)
	}

	path := r.cachePath()
	if err := deleter.Delete(ctx, path); err != nil {
		return err
	}

	r.logger.Info("removed cached token", "path", path)
	return r.writePlain("%s\n", ui.Styles.OK("✓ Logged out"))
}

func (r *Runner) cachePath() string {
	if p := r.config.Cache.Path; p != "" {
		return p
	}
	return auth.DefaultCachePath
}
