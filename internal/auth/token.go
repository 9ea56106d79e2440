package auth

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/spotkit/internal/shared"
	"golang.org/x/oauth2"
)

// expiryBuffer absorbs clock skew and request latency so a token is never sent just past its deadline.
const expiryBuffer = 10 * time.Second

var timeNow = time.Now

// Token is an access token and its metadata. Values are never modified after construction.
//
// A zero ExpiresAt means the expiry is unknown and the token is treated as expired.
// An empty RefreshToken means none was issued.
type Token struct {
	AccessToken  string
	TokenType    string
	Scope        Scope
	ExpiresAt    time.Time
	RefreshToken string
}

// IsExpired reports whether the token should no longer be presented to the API.
func (t Token) IsExpired() bool {
	return t.ExpiredAt(timeNow())
}

// ExpiredAt reports whether the token counts as expired at now: true when ExpiresAt is unknown
// or now is past ExpiresAt minus the 10 second buffer.
func (t Token) ExpiredAt(now time.Time) bool {
	if t.ExpiresAt.IsZero() {
		return true
	}
	return now.After(t.ExpiresAt.Add(-expiryBuffer))
}

// Equal reports whether two tokens carry the same values. Scopes compare as sets.
func (t Token) Equal(other Token) bool {
	return t.AccessToken == other.AccessToken &&
		t.TokenType == other.TokenType &&
		t.Scope.Equal(other.Scope) &&
		t.ExpiresAt.Equal(other.ExpiresAt) &&
		t.RefreshToken == other.RefreshToken
}

// providerToken is the token endpoint's response body.
type providerToken struct {
	AccessToken  *string `json:"access_token"`
	TokenType    *string `json:"token_type"`
	Scope        *string `json:"scope"`
	ExpiresIn    *int64  `json:"expires_in"`
	RefreshToken *string `json:"refresh_token"`
}

// cachedToken is the cache file document. expires_at holds Unix seconds, with a fractional
// part down to the nanosecond when the expiry has one.
type cachedToken struct {
	AccessToken  *string      `json:"access_token"`
	TokenType    *string      `json:"token_type"`
	Scope        *string      `json:"scope"`
	ExpiresAt    *json.Number `json:"expires_at"`
	RefreshToken *string `json:"refresh_token,omitempty"`
}

// FromProviderResponse parses a token endpoint response, converting expires_in to an absolute
// ExpiresAt relative to the time of the call.
//
// access_token and token_type are required. A missing expires_in leaves ExpiresAt unknown.
//
// Unlike the cache format, scope is optional here: client credentials responses omit it, so a
// missing scope is read as the empty scope rather than rejected as malformed.
func FromProviderResponse(data []byte) (*Token, error) {
	var raw providerToken
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedTokenResponse, err)
	}
	if raw.AccessToken == nil {
		return nil, fmt.Errorf("%w: missing access_token", shared.ErrMalformedTokenResponse)
	}
	if raw.TokenType == nil {
		return nil, fmt.Errorf("%w: missing token_type", shared.ErrMalformedTokenResponse)
	}

	token := &Token{
		AccessToken: *raw.AccessToken,
		TokenType:   *raw.TokenType,
	}
	if raw.Scope != nil {
		token.Scope = Scope(*raw.Scope)
	}
	if raw.ExpiresIn != nil {
		token.ExpiresAt = timeNow().Add(time.Duration(*raw.ExpiresIn) * time.Second)
	}
	if raw.RefreshToken != nil {
		token.RefreshToken = *raw.RefreshToken
	}

	return token, nil
}

// FromCache parses a document produced by [Token.Serialize].
func FromCache(data []byte) (*Token, error) {
	var raw cachedToken
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedTokenResponse, err)
	}

	switch {
	case raw.AccessToken == nil:
		return nil, fmt.Errorf("%w: missing access_token", shared.ErrMalformedTokenResponse)
	case raw.TokenType == nil:
		return nil, fmt.Errorf("%w: missing token_type", shared.ErrMalformedTokenResponse)
	case raw.Scope == nil:
		return nil, fmt.Errorf("%w: missing scope", shared.ErrMalformedTokenResponse)
	}

	token := &Token{
		AccessToken: *raw.AccessToken,
		TokenType:   *raw.TokenType,
		Scope:       Scope(*raw.Scope),
	}
	if raw.ExpiresAt != nil {
		expiresAt, err := parseEpoch(*raw.ExpiresAt)
		if err != nil {
			return nil, fmt.Errorf("%w: expires_at: %v", shared.ErrMalformedTokenResponse, err)
		}
		token.ExpiresAt = expiresAt
	}
	if raw.RefreshToken != nil {
		token.RefreshToken = *raw.RefreshToken
	}

	return token, nil
}

// Serialize encodes the token in the cache file shape. [FromCache] reads it back exactly.
func (t Token) Serialize() ([]byte, error) {
	scope := string(t.Scope)
	raw := cachedToken{
		AccessToken: &t.AccessToken,
		TokenType:   &t.TokenType,
		Scope:       &scope,
	}
	if !t.ExpiresAt.IsZero() {
		epoch := formatEpoch(t.ExpiresAt)
		raw.ExpiresAt = &epoch
	}
	if t.RefreshToken != "" {
		raw.RefreshToken = &t.RefreshToken
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to encode token: %w", err)
	}
	return data, nil
}

// formatEpoch writes t as decimal Unix seconds without going through float64.
func formatEpoch(t time.Time) json.Number {
	sec, nsec := t.Unix(), int64(t.Nanosecond())
	if nsec == 0 {
		return json.Number(strconv.FormatInt(sec, 10))
	}

	sign := ""
	if sec < 0 {
		sign = "-"
		sec, nsec = -sec-1, 1e9-nsec
	}
	frac := strings.TrimRight(fmt.Sprintf("%09d", nsec), "0")
	return json.Number(fmt.Sprintf("%s%d.%s", sign, sec, frac))
}

// parseEpoch reads decimal Unix seconds. Digits past the nanosecond are dropped.
func parseEpoch(n json.Number) (time.Time, error) {
	s := string(n)
	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return time.Time{}, err
		}
		sec, frac := math.Modf(f)
		return time.Unix(int64(sec), int64(frac*1e9)), nil
	}

	neg := strings.HasPrefix(s, "-")
	whole, frac, _ := strings.Cut(strings.TrimPrefix(s, "-"), ".")

	sec, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return time.Time{}, err
	}

	var nsec int64
	if frac != "" {
		if len(frac) > 9 {
			frac = frac[:9]
		}
		if nsec, err = strconv.ParseInt(frac+strings.Repeat("0", 9-len(frac)), 10, 64); err != nil {
			return time.Time{}, err
		}
	}

	if neg {
		sec, nsec = -sec, -nsec
	}
	return time.Unix(sec, nsec), nil
}

// OAuth2 converts the token for use with [oauth2.Transport] and friends. The scope is kept under
// the "scope" extra.
//
// oauth2 treats a zero expiry as "never expires", so an unknown ExpiresAt becomes the Unix epoch.
func (t Token) OAuth2() *oauth2.Token {
	expiry := t.ExpiresAt
	if expiry.IsZero() {
		expiry = time.Unix(0, 0)
	}

	tok := &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
		Expiry:       expiry,
	}
	return tok.WithExtra(map[string]any{"scope": string(t.Scope)})
}

// FromOAuth2 converts an [oauth2.Token], reading the scope from its "scope" extra when present.
func FromOAuth2(tok *oauth2.Token) *Token {
	token := &Token{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		ExpiresAt:    tok.Expiry,
		RefreshToken: tok.RefreshToken,
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		token.Scope = Scope(scope)
	}
	return token
}
