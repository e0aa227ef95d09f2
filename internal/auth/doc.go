// Package auth implements the OAuth2 credential lifecycle for the Spotify
// Web API: grant exchange, concurrency-safe token refresh, scope-based
// authorization checks, and persistence of authorization state.
//
// The package is organized around three pieces:
//
// 1. [Backend]: interchangeable flow strategies that exchange authorization
// grants for tokens. Five variants are provided:
//   - [CodeBackend] : confidential authorization-code flow (Basic auth)
//   - [PKCEBackend] : authorization-code flow with PKCE for public clients
//   - [ClientCredentialsBackend] : app-only access
//   - [ProxyCodeBackend] / [ProxyClientCredentialsBackend] : variants that
//     delegate secret handling to a trusted intermediary server
//
// 2. [Info]: an immutable snapshot of {access token, token type, expiry,
// scopes, refresh token} with expiry and equality logic.
//
// 3. [Manager]: the owner of the current [Info]. It guarantees at most one
// in-flight refresh per manager regardless of how many goroutines request
// one concurrently, preserves the stored refresh token when a refresh
// response omits it, and fires change notifications after every state
// mutation so the host application can persist the encoded manager (see
// [Manager.Encode] and [DecodeManager]).
//
// Errors follow a small taxonomy: transport failures wrap
// [shared.ErrNetwork] and may be retried; malformed bodies wrap
// [shared.ErrDecoding]; OAuth error payloads surface as [*AuthError] and
// require re-running the grant flow; missing scopes surface as
// [*InsufficientScopeError]. The library performs no silent retries.
package auth
