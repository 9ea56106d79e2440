// package spotify is a typed client for a subset of the Spotify Web API.
//
// Resource types based on https://developer.spotify.com/documentation/web-api/reference/
//
// [Client] issues plain GETs over a [transport.HTTPClient]; pair it with [auth.AuthorizedClient]
// so requests carry a bearer token.
package spotify
