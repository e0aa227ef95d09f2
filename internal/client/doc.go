// Package client provides a typed Spotify Web API client.
//
// All endpoint wrappers call through [Client.Request], the single chokepoint
// that asks the authorization manager for a valid access token (refreshing
// it on demand), checks the endpoint's required scopes against the current
// grant, rate limits outbound calls, and performs the HTTP request. Endpoint
// wrappers themselves are thin: path construction, scope declaration, and
// JSON decoding into the response types.
//
// The client performs no silent retries; the automatic refresh-if-expired
// behavior in the authorization manager is the only automatic recovery.
package client
