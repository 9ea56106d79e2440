package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotkit/internal/shared"
)

// Client implements [HTTPClient] on top of [http.Client].
type Client struct {
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient wraps client, defaulting to [http.DefaultClient]. A nil logger discards output.
func NewClient(client *http.Client, logger *log.Logger) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &Client{httpClient: client, logger: logger}
}

// AuthenticationRequest POSTs a form-encoded body authenticated with HTTP Basic credentials.
func (c *Client) AuthenticationRequest(ctx context.Context, rawURL, username, password string, params map[string]string) (*Response, error) {
	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(username, password)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

// Get performs a GET with params appended to any query already present in rawURL.
func (c *Client) Get(ctx context.Context, rawURL string, params, headers map[string]string) (*Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse url: %w", err)
	}
	if len(params) > 0 {
		q := u.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	setHeaders(req, headers)

	return c.do(req)
}

func (c *Client) Post(ctx context.Context, rawURL string, payload []byte, headers map[string]string) (*Response, error) {
	return c.send(ctx, http.MethodPost, rawURL, payload, headers)
}

func (c *Client) Put(ctx context.Context, rawURL string, payload []byte, headers map[string]string) (*Response, error) {
	return c.send(ctx, http.MethodPut, rawURL, payload, headers)
}

func (c *Client) Delete(ctx context.Context, rawURL string, payload []byte, headers map[string]string) (*Response, error) {
	return c.send(ctx, http.MethodDelete, rawURL, payload, headers)
}

// send issues a request with a JSON payload.
func (c *Client) send(ctx context.Context, method, rawURL string, payload []byte, headers map[string]string) (*Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	setHeaders(req, headers)

	return c.do(req)
}

func (c *Client) do(req *http.Request) (*Response, error) {
	c.logger.Debug("http request", "method", req.Method, "url", redact(req.URL))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) == 0 {
		body = nil
	}

	c.logger.Debug("http response", "method", req.Method, "status", resp.StatusCode, "bytes", len(body))

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// setHeaders applies caller headers; Content-Type defaults to JSON like the Web API expects.
func setHeaders(req *http.Request, headers map[string]string) {
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
}

// redact drops the query string so codes and tokens never reach the log.
func redact(u *url.URL) string {
	c := *u
	c.RawQuery = ""
	return c.String()
}
