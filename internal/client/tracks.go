package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/tempo/internal/auth"
	"github.com/desertthunder/tempo/internal/shared"
)

// ExternalIDs holds external identifiers attached to a track.
type ExternalIDs struct {
	ISRC string `json:"isrc"`
}

// Track represents a Spotify track.
type Track struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Artists     []Artist    `json:"artists"`
	Album       Album       `json:"album"`
	DurationMS  int         `json:"duration_ms"`
	Explicit    bool        `json:"explicit"`
	ExternalIDs ExternalIDs `json:"external_ids"`
	Popularity  int         `json:"popularity"`
	URI         string      `json:"uri"`
}

// Artist represents a Spotify artist.
type Artist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
	Images []Image  `json:"images"`
	URI    string   `json:"uri"`
}

// Album represents a Spotify album.
type Album struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []Artist `json:"artists"`
	ReleaseDate string   `json:"release_date"`
	TotalTracks int      `json:"total_tracks"`
	Images      []Image  `json:"images"`
	URI         string   `json:"uri"`
}

// SavedTrack represents a track saved in the user's library.
type SavedTrack struct {
	AddedAt string `json:"added_at"`
	Track   Track  `json:"track"`
}

// Track retrieves a single track by ID. No scopes required.
func (c *Client) Track(ctx context.Context, trackID string) (*Track, error) {
	var track Track
	if err := c.getJSON(ctx, fmt.Sprintf("/tracks/%s", trackID), nil, auth.NewScopeSet(), &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// SeveralTracks retrieves multiple tracks by their IDs (up to 50).
func (c *Client) SeveralTracks(ctx context.Context, trackIDs []string) ([]Track, error) {
	if len(trackIDs) == 0 {
		return nil, fmt.Errorf("%w: no track IDs provided", shared.ErrMissingArgument)
	}
	if len(trackIDs) > 50 {
		return nil, fmt.Errorf("%w: maximum 50 track IDs allowed", shared.ErrInvalidArgument)
	}

	query := url.Values{"ids": {strings.Join(trackIDs, ",")}}

	var response struct {
		Tracks []Track `json:"tracks"`
	}
	if err := c.getJSON(ctx, "/tracks", query, auth.NewScopeSet(), &response); err != nil {
		return nil, err
	}

	return response.Tracks, nil
}

// SavedTracks retrieves the user's saved tracks with pagination.
// Requires user-library-read.
func (c *Client) SavedTracks(ctx context.Context, limit, offset int) (*Paging[SavedTrack], error) {
	query := url.Values{
		"limit":  {fmt.Sprint(clampPage(limit))},
		"offset": {fmt.Sprint(offset)},
	}

	var page Paging[SavedTrack]
	if err := c.getJSON(ctx, "/me/tracks", query, auth.NewScopeSet(auth.ScopeUserLibraryRead), &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// SaveTracks adds tracks to the user's library. Requires user-library-modify.
func (c *Client) SaveTracks(ctx context.Context, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return fmt.Errorf("%w: no track IDs provided", shared.ErrMissingArgument)
	}
	if len(trackIDs) > 50 {
		return fmt.Errorf("%w: maximum 50 track IDs allowed", shared.ErrInvalidArgument)
	}

	payload := map[string][]string{"ids": trackIDs}
	return c.sendJSON(ctx, "PUT", "/me/tracks", payload, auth.NewScopeSet(auth.ScopeUserLibraryModify), nil)
}
