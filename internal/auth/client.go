package auth

import (
	"context"
	"strings"

	"github.com/desertthunder/spotkit/internal/transport"
)

// AuthorizedClient decorates a [transport.HTTPClient] so API calls carry a bearer token.
//
// The token is resolved before every call. When resolution fails the request is never sent.
type AuthorizedClient struct {
	inner  transport.HTTPClient
	source CredentialSource
}

func NewAuthorizedClient(inner transport.HTTPClient, source CredentialSource) *AuthorizedClient {
	return &AuthorizedClient{inner: inner, source: source}
}

// AuthenticationRequest is used to obtain tokens and is passed through unchanged.
func (c *AuthorizedClient) AuthenticationRequest(ctx context.Context, url, username, password string, params map[string]string) (*transport.Response, error) {
	return c.inner.AuthenticationRequest(ctx, url, username, password, params)
}

func (c *AuthorizedClient) Get(ctx context.Context, url string, params, headers map[string]string) (*transport.Response, error) {
	h, err := c.authorize(ctx, headers)
	if err != nil {
		return nil, err
	}
	return c.inner.Get(ctx, url, params, h)
}

func (c *AuthorizedClient) Post(ctx context.Context, url string, payload []byte, headers map[string]string) (*transport.Response, error) {
	h, err := c.authorize(ctx, headers)
	if err != nil {
		return nil, err
	}
	return c.inner.Post(ctx, url, payload, h)
}

func (c *AuthorizedClient) Put(ctx context.Context, url string, payload []byte, headers map[string]string) (*transport.Response, error) {
	h, err := c.authorize(ctx, headers)
	if err != nil {
		return nil, err
	}
	return c.inner.Put(ctx, url, payload, h)
}

func (c *AuthorizedClient) Delete(ctx context.Context, url string, payload []byte, headers map[string]string) (*transport.Response, error) {
	h, err := c.authorize(ctx, headers)
	if err != nil {
		return nil, err
	}
	return c.inner.Delete(ctx, url, payload, h)
}

// authorize copies headers and sets Authorization last so it replaces any caller value.
// The "Bearer: " prefix (with colon) is what the API has always been sent here.
func (c *AuthorizedClient) authorize(ctx context.Context, headers map[string]string) (map[string]string, error) {
	tok, err := c.source.Token(ctx)
	if err != nil {
		return nil, err
	}

	h := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		if strings.EqualFold(k, "Authorization") {
			continue
		}
		h[k] = v
	}
	h["Authorization"] = "Bearer: " + tok.AccessToken
	return h, nil
}
