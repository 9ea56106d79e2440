package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/desertthunder/spotkit/internal/shared"
	tu "github.com/desertthunder/spotkit/internal/testing"
)

func TestAuthorizedClient(t *testing.T) {
	ctx := context.Background()
	valid := &Token{AccessToken: "T0K", TokenType: "Bearer", ExpiresAt: time.Now().Add(time.Hour)}

	t.Run("Adds the authorization header", func(t *testing.T) {
		inner := tu.NewMockHTTPClient("{}")
		c := NewAuthorizedClient(inner, &countingSource{token: valid})

		headers := map[string]string{"Accept": "application/json"}
		if _, err := c.Get(ctx, "https://api.spotify.com/v1/me", nil, headers); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		call := inner.LastCall(t)
		if call.Headers["Authorization"] != "Bearer: T0K" {
			t.Errorf("unexpected Authorization %q", call.Headers["Authorization"])
		}
		if call.Headers["Accept"] != "application/json" {
			t.Errorf("expected caller headers to survive, got %v", call.Headers)
		}
		if _, ok := headers["Authorization"]; ok {
			t.Error("expected caller headers to be left untouched")
		}
	})

	t.Run("Overrides a caller supplied Authorization", func(t *testing.T) {
		inner := tu.NewMockHTTPClient("{}")
		c := NewAuthorizedClient(inner, &countingSource{token: valid})

		_, _ = c.Get(ctx, "u", nil, map[string]string{"Authorization": "Basic xyz", "authorization": "lower"})

		call := inner.LastCall(t)
		if call.Headers["Authorization"] != "Bearer: T0K" {
			t.Errorf("expected generated header to win, got %q", call.Headers["Authorization"])
		}
		if _, ok := call.Headers["authorization"]; ok {
			t.Error("expected differently cased Authorization to be dropped")
		}
	})

	t.Run("Resolution failure skips the request", func(t *testing.T) {
		inner := tu.NewMockHTTPClient("{}")
		c := NewAuthorizedClient(inner, &countingSource{err: shared.ErrExpiredToken})

		calls := []func() error{
			func() error { _, err := c.Get(ctx, "u", nil, nil); return err },
			func() error { _, err := c.Post(ctx, "u", nil, nil); return err },
			func() error { _, err := c.Put(ctx, "u", nil, nil); return err },
			func() error { _, err := c.Delete(ctx, "u", nil, nil); return err },
		}
		for _, call := range calls {
			if err := call(); !errors.Is(err, shared.ErrExpiredToken) {
				t.Errorf("expected ErrExpiredToken, got %v", err)
			}
		}
		if n := len(inner.Calls()); n != 0 {
			t.Errorf("expected no network calls, got %d", n)
		}
	})

	t.Run("Every verb is authorized", func(t *testing.T) {
		inner := tu.NewMockHTTPClient("{}")
		src := &countingSource{token: valid}
		c := NewAuthorizedClient(inner, src)

		_, _ = c.Post(ctx, "u", []byte(`{"a":1}`), nil)
		_, _ = c.Put(ctx, "u", nil, nil)
		_, _ = c.Delete(ctx, "u", nil, nil)

		calls := inner.Calls()
		wantMethods := []string{http.MethodPost, http.MethodPut, http.MethodDelete}
		for i, call := range calls {
			if call.Method != wantMethods[i] {
				t.Errorf("expected %s, got %s", wantMethods[i], call.Method)
			}
			if call.Headers["Authorization"] != "Bearer: T0K" {
				t.Errorf("expected %s to be authorized", call.Method)
			}
		}
		if string(calls[0].Payload) != `{"a":1}` {
			t.Errorf("expected payload to be forwarded, got %s", calls[0].Payload)
		}
		if src.n != 3 {
			t.Errorf("expected a resolution per call, got %d", src.n)
		}
	})

	t.Run("Authentication requests bypass the source", func(t *testing.T) {
		inner := tu.NewMockHTTPClient(providerBody)
		src := &countingSource{err: shared.ErrExpiredToken}
		c := NewAuthorizedClient(inner, src)

		resp, err := c.AuthenticationRequest(ctx, Endpoint.TokenURL, "id", "secret", map[string]string{"grant_type": "client_credentials"})
		if err != nil || resp.StatusCode != http.StatusOK {
			t.Fatalf("expected pass through, got %v", err)
		}
		if src.n != 0 {
			t.Errorf("expected no token resolution, got %d", src.n)
		}
		if call := inner.LastCall(t); call.Headers != nil || call.Username != "id" {
			t.Errorf("expected untouched authentication request, got %+v", call)
		}
	})
}
