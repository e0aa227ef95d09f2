package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Authorization errors
	//
	// ErrNotAuthenticated means no credential is present at all, while
	// ErrAuthorization covers OAuth error payloads returned by the token
	// endpoint (invalid_grant, access_denied, etc.) which require the user
	// to re-run the grant flow rather than retry.
	ErrNotAuthenticated  = fmt.Errorf("not authenticated")
	ErrAuthorization     = fmt.Errorf("authorization failed")
	ErrTokenExpired      = fmt.Errorf("access token expired")
	ErrRefreshFailed     = fmt.Errorf("token refresh failed")
	ErrNoRefreshToken    = fmt.Errorf("no refresh token available")
	ErrInsufficientScope = fmt.Errorf("insufficient scope")

	// Transport and decoding errors
	ErrNetwork  = fmt.Errorf("network request failed")
	ErrDecoding = fmt.Errorf("malformed response body")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrNotFound           = fmt.Errorf("resource not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
