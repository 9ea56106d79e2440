// Package server receives the OAuth redirect on a local HTTP listener.
//
// # Router
//
// The [Router] interface defines HTTP routing with middleware support. [BasicRouter] uses [http.ServeMux]
// method patterns, so a route registered for GET answers other methods with 405.
//
// [Middleware] wraps handlers in reverse order (last added executes first). [RequestLogger] tags each
// request with an id and logs it without its query string, which carries the authorization code.
//
// # Callback Handler
//
// [CallbackHandler] serves the redirect URI registered with Spotify. It checks the state parameter,
// extracts the code with [auth.ParseRedirectCode], and delivers exactly one [CallbackResult].
// Later hits are rejected so a replayed redirect cannot deliver a second code.
//
// The CLI starts the server with [Serve] on the redirect URI's address before opening the browser
// and stops it once a result arrives.
package server
