package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig    = fmt.Errorf("configuration not found")
	ErrInvalidConfig    = fmt.Errorf("invalid configuration")
	ErrEmptyCredentials = fmt.Errorf("client id and client secret must not be empty")

	// Token endpoint and API protocol errors
	ErrNilResponse            = fmt.Errorf("no response received")
	ErrInvalidResponse        = fmt.Errorf("unexpected response status")
	ErrNilBody                = fmt.Errorf("response body is empty")
	ErrMalformedTokenResponse = fmt.Errorf("malformed token response")

	// Cached token errors
	ErrMismatchedScope = fmt.Errorf("cached token scope does not cover requested scope")
	ErrNoRefreshToken  = fmt.Errorf("no refresh token available")
	ErrExpiredToken    = fmt.Errorf("access token expired")
	ErrCacheMiss       = fmt.Errorf("token cache entry not found")

	// Authorization URL errors
	ErrInvalidQueryParameters = fmt.Errorf("invalid query parameters")
	ErrInvalidURL             = fmt.Errorf("invalid authorization URL")
	ErrNoRedirectCode         = fmt.Errorf("no code found in redirect URL")
	ErrStateMismatch          = fmt.Errorf("invalid state parameter")

	// Authentication errors
	ErrAuthFailed = fmt.Errorf("authentication failed")
	ErrTimeout    = fmt.Errorf("operation timed out")

	// Pagination errors
	ErrNoPagesLeft = fmt.Errorf("no pages left")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
