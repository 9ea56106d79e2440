package auth

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotkit/internal/shared"
	"golang.org/x/oauth2"
)

// CredentialSource resolves the token to present on the next API request.
type CredentialSource interface {
	Token(ctx context.Context) (*Token, error)
}

// ClientCredentials requests an app-only token on every call. Nothing is cached.
type ClientCredentials struct {
	clientID     string
	clientSecret string
	exchanger    Exchanger
}

func NewClientCredentials(clientID, clientSecret string, exchanger Exchanger) (*ClientCredentials, error) {
	if clientID == "" || clientSecret == "" {
		return nil, shared.ErrEmptyCredentials
	}
	return &ClientCredentials{clientID: clientID, clientSecret: clientSecret, exchanger: exchanger}, nil
}

func (c *ClientCredentials) Token(ctx context.Context) (*Token, error) {
	return c.exchanger.Exchange(ctx, c.clientID, c.clientSecret, map[string]string{
		"grant_type": GrantClientCredentials,
	})
}

// FixedToken hands out one token until it expires. It cannot refresh; use [OAuth] for that.
type FixedToken struct {
	token Token
}

func NewFixedToken(token Token) *FixedToken {
	return &FixedToken{token: token}
}

func (f *FixedToken) Token(context.Context) (*Token, error) {
	if f.token.IsExpired() {
		return nil, shared.ErrExpiredToken
	}
	tok := f.token
	return &tok, nil
}

type tokenSource struct {
	ctx context.Context
	src CredentialSource
}

func (s tokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token(s.ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}
	return tok.OAuth2(), nil
}

// TokenSource adapts src to [oauth2.TokenSource], reusing each token until it expires.
// The result can back [oauth2.NewClient].
func TokenSource(ctx context.Context, src CredentialSource) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(nil, tokenSource{ctx: ctx, src: src})
}

type oauth2Source struct {
	ts oauth2.TokenSource
}

func (s oauth2Source) Token(context.Context) (*Token, error) {
	tok, err := s.ts.Token()
	if err != nil {
		return nil, err
	}
	return FromOAuth2(tok), nil
}

// FromTokenSource adapts an [oauth2.TokenSource] back to a [CredentialSource]. Paired with
// [TokenSource] it gives an [AuthorizedClient] a source that reuses tokens until they expire.
func FromTokenSource(ts oauth2.TokenSource) CredentialSource {
	return oauth2Source{ts: ts}
}
