// package transport defines the HTTP capability the auth core and API client depend on
package transport

import (
	"context"
	"net/http"
)

// Response is the result of a completed HTTP exchange.
//
// Body is nil when the server sent no bytes, so callers can tell an empty body from an empty JSON document.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// HTTPClient issues the requests used by the token exchanger and the API client.
type HTTPClient interface {
	// AuthenticationRequest POSTs params as a form body using HTTP Basic credentials.
	AuthenticationRequest(ctx context.Context, url, username, password string, params map[string]string) (*Response, error)

	// Get sends params as the query string.
	Get(ctx context.Context, url string, params, headers map[string]string) (*Response, error)

	Post(ctx context.Context, url string, payload []byte, headers map[string]string) (*Response, error)
	Put(ctx context.Context, url string, payload []byte, headers map[string]string) (*Response, error)
	Delete(ctx context.Context, url string, payload []byte, headers map[string]string) (*Response, error)
}
