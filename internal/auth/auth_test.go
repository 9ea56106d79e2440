package auth

import (
	"context"
	"sync"
	"testing"
	"time"
)

// fakeExchanger answers every exchange with token and err, recording the params it saw.
type fakeExchanger struct {
	token *Token
	err   error

	mu     sync.Mutex
	params []map[string]string
	ids    []string
}

func (f *fakeExchanger) Exchange(_ context.Context, clientID, clientSecret string, params map[string]string) (*Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.params = append(f.params, params)
	f.ids = append(f.ids, clientID+":"+clientSecret)
	if f.err != nil {
		return nil, f.err
	}
	tok := *f.token
	return &tok, nil
}

func (f *fakeExchanger) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.params)
}

// countingSource counts resolutions and returns token or err.
type countingSource struct {
	token *Token
	err   error
	n     int
}

func (c *countingSource) Token(context.Context) (*Token, error) {
	c.n++
	if c.err != nil {
		return nil, c.err
	}
	return c.token, nil
}

var frozen = time.Unix(1_700_000_000, 0)

// freezeTime pins timeNow for the rest of the test.
func freezeTime(t *testing.T, now time.Time) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = orig })
}
