package auth

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/desertthunder/tempo/internal/shared"
)

// Info is an immutable snapshot of an authorization: the access token, its
// type and absolute expiry, the granted scopes, and (for flows that support
// it) the refresh token.
type Info struct {
	AccessToken    string    `json:"access_token"`
	TokenType      string    `json:"token_type"`
	ExpirationDate time.Time `json:"expiration_date"`
	Scopes         ScopeSet  `json:"scope"`
	RefreshToken   string    `json:"refresh_token,omitempty"`
}

// tokenResponse is the wire shape of a token-endpoint success payload.
type tokenResponse struct {
	AccessToken  *string `json:"access_token"`
	TokenType    *string `json:"token_type"`
	ExpiresIn    *int    `json:"expires_in"`
	Scope        string  `json:"scope"`
	RefreshToken string  `json:"refresh_token"`
}

// now is stubbed in tests.
var now = time.Now

// DecodeTokenResponse parses a token-endpoint JSON body into an [Info].
//
// The expiration date is anchored to the time of decoding plus the
// server-reported TTL; expiry buffers are applied at check time via
// [Info.IsExpired], never at storage time. Missing or malformed required
// fields (access_token, token_type, expires_in) wrap [shared.ErrDecoding].
func DecodeTokenResponse(body []byte) (*Info, error) {
	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDecoding, err)
	}

	if resp.AccessToken == nil || *resp.AccessToken == "" {
		return nil, fmt.Errorf("%w: missing access_token", shared.ErrDecoding)
	}
	if resp.TokenType == nil || *resp.TokenType == "" {
		return nil, fmt.Errorf("%w: missing token_type", shared.ErrDecoding)
	}
	if resp.ExpiresIn == nil {
		return nil, fmt.Errorf("%w: missing expires_in", shared.ErrDecoding)
	}

	return &Info{
		AccessToken:    *resp.AccessToken,
		TokenType:      *resp.TokenType,
		ExpirationDate: now().Add(time.Duration(*resp.ExpiresIn) * time.Second),
		Scopes:         ParseScopes(resp.Scope),
		RefreshToken:   resp.RefreshToken,
	}, nil
}

// IsExpired reports whether the access token is within tolerance of its
// expiration date. A tolerance of zero checks hard expiry; callers that are
// about to issue a request pass a buffer so the token outlives the call.
func (i *Info) IsExpired(tolerance time.Duration) bool {
	return !now().Add(tolerance).Before(i.ExpirationDate)
}

// Equal reports whether two snapshots are the same authorization.
func (i *Info) Equal(other *Info) bool {
	if i == nil || other == nil {
		return i == other
	}
	return i.AccessToken == other.AccessToken &&
		i.TokenType == other.TokenType &&
		i.ExpirationDate.Equal(other.ExpirationDate) &&
		i.Scopes.Equal(other.Scopes) &&
		i.RefreshToken == other.RefreshToken
}
