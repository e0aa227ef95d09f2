package auth

import (
	"encoding/json"
	"fmt"

	"github.com/desertthunder/tempo/internal/shared"
)

// AuthError represents an OAuth error payload returned by a token endpoint
// (RFC 6749 §5.2). These are terminal for the current credential: the caller
// must re-run the grant flow rather than retry the refresh.
type AuthError struct {
	Code        string `json:"error"`
	Description string `json:"error_description"`
	StatusCode  int    `json:"-"`
}

func (e *AuthError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("authorization failed: %s: %s", e.Code, e.Description)
	}
	return fmt.Sprintf("authorization failed: %s", e.Code)
}

// Unwrap makes AuthError match [shared.ErrAuthorization] via errors.Is.
func (e *AuthError) Unwrap() error {
	return shared.ErrAuthorization
}

// RequiresReauthorization reports whether the error invalidates the stored
// refresh token. invalid_grant is what Spotify returns for a revoked or
// already-exchanged refresh token.
func (e *AuthError) RequiresReauthorization() bool {
	switch e.Code {
	case "invalid_grant", "access_denied", "invalid_client":
		return true
	}
	return false
}

// oauthError extracts an OAuth error payload from a token-endpoint response
// body, returning nil when the body does not carry one.
func oauthError(body []byte, statusCode int) *AuthError {
	var payload AuthError
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}
	if payload.Code == "" {
		return nil
	}
	payload.StatusCode = statusCode
	return &payload
}

// InsufficientScopeError is returned when a request declares scopes that the
// current grant does not include. Distinct from "not authorized at all" so
// callers can prompt for re-authorization with a broader scope set.
type InsufficientScopeError struct {
	Required ScopeSet
	Actual   ScopeSet
}

func (e *InsufficientScopeError) Error() string {
	return fmt.Sprintf("insufficient scope: required [%s], granted [%s]", e.Required, e.Actual)
}

// Unwrap makes InsufficientScopeError match [shared.ErrInsufficientScope].
func (e *InsufficientScopeError) Unwrap() error {
	return shared.ErrInsufficientScope
}
