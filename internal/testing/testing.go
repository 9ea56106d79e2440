// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/spotkit/internal/shared"
	"github.com/desertthunder/spotkit/internal/transport"
)

// Call records one request made through [MockHTTPClient].
type Call struct {
	Method   string
	URL      string
	Username string
	Password string
	Params   map[string]string
	Headers  map[string]string
	Payload  []byte
}

// MockHTTPClient is a test double for [transport.HTTPClient].
//
// Every call is recorded and answered with Response and Err. Respond, when set, takes precedence.
type MockHTTPClient struct {
	Response *transport.Response
	Err      error
	Respond  func(c Call) (*transport.Response, error)

	mu    sync.Mutex
	calls []Call
}

// NewMockHTTPClient answers every request with a 200 carrying body.
func NewMockHTTPClient(body string) *MockHTTPClient {
	return &MockHTTPClient{Response: &transport.Response{StatusCode: http.StatusOK, Body: []byte(body)}}
}

func (m *MockHTTPClient) record(c Call) (*transport.Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, c)
	m.mu.Unlock()

	if m.Respond != nil {
		return m.Respond(c)
	}
	return m.Response, m.Err
}

// Calls returns a copy of the recorded calls.
func (m *MockHTTPClient) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// LastCall returns the most recent call. It fails the test when nothing was called.
func (m *MockHTTPClient) LastCall(t *testing.T) Call {
	t.Helper()
	calls := m.Calls()
	if len(calls) == 0 {
		t.Fatal("expected at least one HTTP call")
	}
	return calls[len(calls)-1]
}

func (m *MockHTTPClient) AuthenticationRequest(_ context.Context, url, username, password string, params map[string]string) (*transport.Response, error) {
	return m.record(Call{Method: http.MethodPost, URL: url, Username: username, Password: password, Params: params})
}

func (m *MockHTTPClient) Get(_ context.Context, url string, params, headers map[string]string) (*transport.Response, error) {
	return m.record(Call{Method: http.MethodGet, URL: url, Params: params, Headers: headers})
}

func (m *MockHTTPClient) Post(_ context.Context, url string, payload []byte, headers map[string]string) (*transport.Response, error) {
	return m.record(Call{Method: http.MethodPost, URL: url, Payload: payload, Headers: headers})
}

func (m *MockHTTPClient) Put(_ context.Context, url string, payload []byte, headers map[string]string) (*transport.Response, error) {
	return m.record(Call{Method: http.MethodPut, URL: url, Payload: payload, Headers: headers})
}

func (m *MockHTTPClient) Delete(_ context.Context, url string, payload []byte, headers map[string]string) (*transport.Response, error) {
	return m.record(Call{Method: http.MethodDelete, URL: url, Payload: payload, Headers: headers})
}

// MemoryStore is an in-memory [cache.Store] that counts reads and writes.
//
// ReadErr and WriteErr, when set, are returned instead of touching the map.
type MemoryStore struct {
	ReadErr  error
	WriteErr error

	mu     sync.Mutex
	data   map[string][]byte
	reads  int
	writes int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Seed stores data without counting a write.
func (m *MemoryStore) Seed(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
}

func (m *MemoryStore) Read(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	data, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrCacheMiss, key)
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryStore) Write(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Get returns what is stored under key.
func (m *MemoryStore) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	return data, ok
}

func (m *MemoryStore) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

func (m *MemoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
