package auth

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotkit/internal/cache"
	"github.com/desertthunder/spotkit/internal/shared"
	"golang.org/x/oauth2"
)

// DefaultCachePath is the cache key used when none is configured.
const DefaultCachePath = ".spotify_token_cache.json"

// OAuthOpts configures [NewOAuth]. ClientID, ClientSecret and Store are required.
type OAuthOpts struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	State        string
	Scope        Scope
	CachePath    string
	Endpoint     oauth2.Endpoint
	Exchanger    Exchanger
	Store        cache.Store
	Logger       *log.Logger
}

// OAuth coordinates the authorization code flow: it validates and refreshes cached tokens,
// builds the consent URL, and exchanges redirect codes for tokens it then persists.
//
// OAuth holds no mutable state, so concurrent calls are independent.
type OAuth struct {
	clientID     string
	clientSecret string
	redirectURI  string
	state        string
	scope        Scope
	cachePath    string
	endpoint     oauth2.Endpoint
	exchanger    Exchanger
	store        cache.Store
	logger       *log.Logger
}

func NewOAuth(opts OAuthOpts) (*OAuth, error) {
	if opts.ClientID == "" || opts.ClientSecret == "" {
		return nil, shared.ErrEmptyCredentials
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("%w: token store is required", shared.ErrMissingConfig)
	}
	if opts.Exchanger == nil {
		return nil, fmt.Errorf("%w: exchanger is required", shared.ErrMissingConfig)
	}
	if opts.CachePath == "" {
		opts.CachePath = DefaultCachePath
	}
	if opts.Endpoint.AuthURL == "" {
		opts.Endpoint.AuthURL = Endpoint.AuthURL
	}
	if opts.Endpoint.TokenURL == "" {
		opts.Endpoint.TokenURL = Endpoint.TokenURL
	}
	if opts.Logger == nil {
		opts.Logger = shared.DiscardLogger()
	}

	return &OAuth{
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		redirectURI:  opts.RedirectURI,
		state:        opts.State,
		scope:        opts.Scope,
		cachePath:    opts.CachePath,
		endpoint:     opts.Endpoint,
		exchanger:    opts.Exchanger,
		store:        opts.Store,
		logger:       opts.Logger,
	}, nil
}

// Scope returns the scope every token must cover.
func (o *OAuth) Scope() Scope { return o.scope }

// CachePath returns the key tokens are stored under.
func (o *OAuth) CachePath() string { return o.cachePath }

// Token implements [CredentialSource] using [OAuth.CachedToken].
func (o *OAuth) Token(ctx context.Context) (*Token, error) {
	return o.CachedToken(ctx)
}

// ReadCache returns the stored token without validating scope or expiry.
func (o *OAuth) ReadCache(ctx context.Context) (*Token, error) {
	data, err := o.store.Read(ctx, o.cachePath)
	if err != nil {
		return nil, err
	}
	return FromCache(data)
}

// CachedToken returns a usable token from the cache. In order:
//
//   - a failed read or unparseable document returns that error
//   - a token whose scope does not cover the required scope fails with [shared.ErrMismatchedScope]
//   - an unexpired token is returned as is
//   - an expired token without a refresh token fails with [shared.ErrNoRefreshToken]
//   - otherwise one refresh exchange is made and its result returned; the cache is not rewritten
func (o *OAuth) CachedToken(ctx context.Context) (*Token, error) {
	tok, err := o.ReadCache(ctx)
	if err != nil {
		return nil, err
	}

	if !o.scope.IsSubset(tok.Scope) {
		return nil, fmt.Errorf("%w: have %q, need %q", shared.ErrMismatchedScope, tok.Scope, o.scope)
	}

	if !tok.IsExpired() {
		o.logger.Debug("using cached token", "expires_at", tok.ExpiresAt)
		return tok, nil
	}

	if tok.RefreshToken == "" {
		return nil, shared.ErrNoRefreshToken
	}

	o.logger.Debug("cached token expired, refreshing")
	return o.exchanger.Exchange(ctx, o.clientID, o.clientSecret, map[string]string{
		"grant_type":    GrantRefreshToken,
		"refresh_token": tok.RefreshToken,
	})
}

// Refresh forces a refresh of the cached token and persists the result.
//
// The accounts service may omit refresh_token on refresh; the previous one is kept then.
func (o *OAuth) Refresh(ctx context.Context) (*Token, error) {
	old, err := o.ReadCache(ctx)
	if err != nil {
		return nil, err
	}
	if old.RefreshToken == "" {
		return nil, shared.ErrNoRefreshToken
	}

	tok, err := o.exchanger.Exchange(ctx, o.clientID, o.clientSecret, map[string]string{
		"grant_type":    GrantRefreshToken,
		"refresh_token": old.RefreshToken,
	})
	if err != nil {
		return nil, err
	}
	refreshed := *tok
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = old.RefreshToken
	}
	if refreshed.Scope == "" {
		refreshed.Scope = old.Scope
	}

	if err := o.persist(ctx, &refreshed); err != nil {
		return nil, err
	}
	return &refreshed, nil
}

// FetchAccessToken exchanges an authorization code and writes the token to the cache.
//
// A failed write fails the call even though the exchange succeeded.
func (o *OAuth) FetchAccessToken(ctx context.Context, code string) (*Token, error) {
	tok, err := o.exchanger.Exchange(ctx, o.clientID, o.clientSecret, map[string]string{
		"grant_type":   GrantAuthorizationCode,
		"code":         code,
		"redirect_uri": o.redirectURI,
		"scope":        string(o.scope),
		"state":        o.state,
	})
	if err != nil {
		return nil, err
	}

	if err := o.persist(ctx, tok); err != nil {
		return nil, err
	}
	return tok, nil
}

func (o *OAuth) persist(ctx context.Context, tok *Token) error {
	data, err := tok.Serialize()
	if err != nil {
		return err
	}
	if err := o.store.Write(ctx, o.cachePath, data); err != nil {
		return fmt.Errorf("failed to cache token: %w", err)
	}
	o.logger.Debug("cached token", "path", o.cachePath)
	return nil
}

// AuthorizeURL builds the consent page URL. An empty state uses the configured one.
//
// redirect_uri, scope and state are always sent, even when empty.
func (o *OAuth) AuthorizeURL(state string, showDialog bool) (string, error) {
	if state == "" {
		state = o.state
	}

	config := oauth2.Config{
		ClientID:    o.clientID,
		RedirectURL: o.redirectURI,
		Scopes:      o.scope.Fields(),
		Endpoint:    o.endpoint,
	}
	opts := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("redirect_uri", o.redirectURI),
		oauth2.SetAuthURLParam("scope", string(o.scope)),
		oauth2.SetAuthURLParam("state", state),
	}
	if showDialog {
		opts = append(opts, oauth2.SetAuthURLParam("show_dialog", "true"))
	}

	raw := config.AuthCodeURL(state, opts...)
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrInvalidURL, o.endpoint.AuthURL)
	}
	if u.RawQuery == "" {
		return "", shared.ErrInvalidQueryParameters
	}
	return raw, nil
}

// ParseRedirectCode pulls the code out of a redirect URL such as
// "http://127.0.0.1:3000/callback?code=ABC&state=xyz".
//
// Matching is textual: everything after the first "?code=" up to the next "&". A code that is
// not the first query parameter is not found.
func ParseRedirectCode(raw string) (string, bool) {
	parts := strings.Split(raw, "?code=")
	if len(parts) < 2 {
		return "", false
	}
	for piece := range strings.SplitSeq(parts[1], "&") {
		if piece != "" {
			return piece, true
		}
	}
	return "", false
}
