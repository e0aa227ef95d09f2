package auth

import (
	"encoding/json"
	"sort"
	"strings"
)

// Scope is a named Spotify permission unit required by specific API operations.
//
// See https://developer.spotify.com/documentation/web-api/concepts/scopes
type Scope string

const (
	// Images
	ScopeUGCImageUpload Scope = "ugc-image-upload"

	// Playback
	ScopeUserReadPlaybackState    Scope = "user-read-playback-state"
	ScopeUserModifyPlaybackState  Scope = "user-modify-playback-state"
	ScopeUserReadCurrentlyPlaying Scope = "user-read-currently-playing"
	ScopeUserReadPlaybackPosition Scope = "user-read-playback-position"

	// Playlists
	ScopePlaylistReadPrivate       Scope = "playlist-read-private"
	ScopePlaylistReadCollaborative Scope = "playlist-read-collaborative"
	ScopePlaylistModifyPrivate     Scope = "playlist-modify-private"
	ScopePlaylistModifyPublic      Scope = "playlist-modify-public"

	// Follow
	ScopeUserFollowModify Scope = "user-follow-modify"
	ScopeUserFollowRead   Scope = "user-follow-read"

	// Listening history
	ScopeUserTopRead              Scope = "user-top-read"
	ScopeUserReadRecentlyPlayed   Scope = "user-read-recently-played"

	// Library
	ScopeUserLibraryModify Scope = "user-library-modify"
	ScopeUserLibraryRead   Scope = "user-library-read"

	// Users
	ScopeUserReadEmail   Scope = "user-read-email"
	ScopeUserReadPrivate Scope = "user-read-private"
)

// ScopeSet is an unordered collection of scopes.
//
// Authorization checks compare sets by subset relation: a credential
// satisfies a request when every required scope is present in the grant.
type ScopeSet map[Scope]struct{}

// NewScopeSet creates a ScopeSet from the given scopes.
func NewScopeSet(scopes ...Scope) ScopeSet {
	set := make(ScopeSet, len(scopes))
	for _, s := range scopes {
		set[s] = struct{}{}
	}
	return set
}

// ParseScopes parses a space-delimited scope string (the OAuth wire format)
// into a ScopeSet. An empty string yields an empty set.
func ParseScopes(raw string) ScopeSet {
	set := ScopeSet{}
	for _, field := range strings.Fields(raw) {
		set[Scope(field)] = struct{}{}
	}
	return set
}

// Contains reports whether the set includes the given scope.
func (s ScopeSet) Contains(scope Scope) bool {
	_, ok := s[scope]
	return ok
}

// IsSubsetOf reports whether every scope in the set is present in other.
// The empty set is a subset of everything.
func (s ScopeSet) IsSubsetOf(other ScopeSet) bool {
	for scope := range s {
		if !other.Contains(scope) {
			return false
		}
	}
	return true
}

// Equal reports whether two sets contain exactly the same scopes.
func (s ScopeSet) Equal(other ScopeSet) bool {
	return len(s) == len(other) && s.IsSubsetOf(other)
}

// Slice returns the scopes in sorted order.
func (s ScopeSet) Slice() []Scope {
	scopes := make([]Scope, 0, len(s))
	for scope := range s {
		scopes = append(scopes, scope)
	}
	sort.Slice(scopes, func(i, j int) bool { return scopes[i] < scopes[j] })
	return scopes
}

// Strings returns the scopes as sorted plain strings.
func (s ScopeSet) Strings() []string {
	scopes := s.Slice()
	out := make([]string, len(scopes))
	for i, scope := range scopes {
		out[i] = string(scope)
	}
	return out
}

// String renders the set in the OAuth wire format: space-delimited, sorted.
func (s ScopeSet) String() string {
	return strings.Join(s.Strings(), " ")
}

// MarshalJSON encodes the set as a space-delimited string.
func (s ScopeSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a space-delimited scope string.
func (s *ScopeSet) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseScopes(raw)
	return nil
}
