package auth

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotkit/internal/shared"
	"github.com/desertthunder/spotkit/internal/transport"
	"golang.org/x/oauth2"
)

// Endpoint is the Spotify accounts service. [TokenExchanger] always authenticates with HTTP
// Basic, so AuthStyle is left unset.
var Endpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.spotify.com/authorize",
	TokenURL: "https://accounts.spotify.com/api/token",
}

// Grant types sent as grant_type.
const (
	GrantAuthorizationCode = "authorization_code"
	GrantRefreshToken      = "refresh_token"
	GrantClientCredentials = "client_credentials"
)

// Exchanger trades client credentials plus grant parameters for a [Token].
type Exchanger interface {
	Exchange(ctx context.Context, clientID, clientSecret string, params map[string]string) (*Token, error)
}

// TokenExchanger performs one POST against the token endpoint per call. It never retries.
type TokenExchanger struct {
	client   transport.HTTPClient
	tokenURL string
	logger   *log.Logger
}

// NewTokenExchanger builds an exchanger for tokenURL. An empty tokenURL uses [Endpoint].
func NewTokenExchanger(client transport.HTTPClient, tokenURL string, logger *log.Logger) *TokenExchanger {
	if tokenURL == "" {
		tokenURL = Endpoint.TokenURL
	}
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &TokenExchanger{client: client, tokenURL: tokenURL, logger: logger}
}

// Exchange authenticates with HTTP Basic and sends params as the form body.
//
// Failures are reported in order: the transport error as-is, [shared.ErrNilResponse],
// a [*transport.ResponseError] for any status but 200, [shared.ErrNilBody], then parse errors.
func (e *TokenExchanger) Exchange(ctx context.Context, clientID, clientSecret string, params map[string]string) (*Token, error) {
	e.logger.Debug("exchanging token", "grant_type", params["grant_type"])

	body, err := transport.Check(e.client.AuthenticationRequest(ctx, e.tokenURL, clientID, clientSecret, params))
	if err != nil {
		return nil, err
	}

	return FromProviderResponse(body)
}
