// package auth manages Spotify OAuth tokens: acquiring them from the accounts service,
// caching them between runs, detecting expiry, refreshing, and checking scope.
//
// The [OAuth] coordinator handles the authorization code flow. [ClientCredentials] and
// [FixedToken] are simpler [CredentialSource] implementations. [AuthorizedClient] attaches
// whatever token a source resolves to each outgoing API request.
package auth
