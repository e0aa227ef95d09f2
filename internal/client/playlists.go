package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/desertthunder/tempo/internal/auth"
	"github.com/desertthunder/tempo/internal/shared"
)

// Owner represents the owning user of a playlist.
type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// PlaylistTrack represents a track within a playlist context.
type PlaylistTrack struct {
	AddedAt string `json:"added_at"`
	Track   Track  `json:"track"`
}

type playlistTracks struct {
	Total int             `json:"total"`
	Items []PlaylistTrack `json:"items"`
}

// Playlist represents a full Spotify playlist object.
type Playlist struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Owner       Owner          `json:"owner"`
	Public      bool           `json:"public"`
	Tracks      playlistTracks `json:"tracks"`
	Images      []Image        `json:"images"`
	URI         string         `json:"uri"`
}

type simplePlaylistTracks struct {
	Total int `json:"total"`
}

// SimplePlaylist represents a simplified playlist object (used in lists).
type SimplePlaylist struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Owner       Owner                `json:"owner"`
	Public      bool                 `json:"public"`
	Tracks      simplePlaylistTracks `json:"tracks"`
	Images      []Image              `json:"images"`
	URI         string               `json:"uri"`
}

// UserPlaylists retrieves the current user's playlists with pagination.
// Requires playlist-read-private to include private playlists.
func (c *Client) UserPlaylists(ctx context.Context, limit, offset int) (*Paging[SimplePlaylist], error) {
	query := url.Values{
		"limit":  {fmt.Sprint(clampPage(limit))},
		"offset": {fmt.Sprint(offset)},
	}

	var page Paging[SimplePlaylist]
	if err := c.getJSON(ctx, "/me/playlists", query, auth.NewScopeSet(auth.ScopePlaylistReadPrivate), &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// AllPlaylists walks every page of the current user's playlists.
func (c *Client) AllPlaylists(ctx context.Context) ([]SimplePlaylist, error) {
	return Collect(ctx, func(ctx context.Context, limit, offset int) (*Paging[SimplePlaylist], error) {
		return c.UserPlaylists(ctx, limit, offset)
	})
}

// Playlist retrieves a playlist by ID.
func (c *Client) Playlist(ctx context.Context, playlistID string) (*Playlist, error) {
	var playlist Playlist
	if err := c.getJSON(ctx, fmt.Sprintf("/playlists/%s", playlistID), nil, auth.NewScopeSet(), &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// PlaylistItems retrieves a playlist's tracks with pagination.
func (c *Client) PlaylistItems(ctx context.Context, playlistID string, limit, offset int) (*Paging[PlaylistTrack], error) {
	query := url.Values{
		"limit":  {fmt.Sprint(clampPage(limit))},
		"offset": {fmt.Sprint(offset)},
	}

	var page Paging[PlaylistTrack]
	path := fmt.Sprintf("/playlists/%s/tracks", playlistID)
	if err := c.getJSON(ctx, path, query, auth.NewScopeSet(), &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// CreatePlaylistOpts describes a playlist to create.
type CreatePlaylistOpts struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Public      bool   `json:"public"`
}

// modifyScope returns the scope gating playlist writes for the given
// visibility.
func modifyScope(public bool) auth.Scope {
	if public {
		return auth.ScopePlaylistModifyPublic
	}
	return auth.ScopePlaylistModifyPrivate
}

// CreatePlaylist creates a new playlist for the given user.
// Requires playlist-modify-public or playlist-modify-private depending on
// the playlist's visibility.
func (c *Client) CreatePlaylist(ctx context.Context, userID string, opts CreatePlaylistOpts) (*Playlist, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("%w: playlist name required", shared.ErrMissingArgument)
	}

	var playlist Playlist
	path := fmt.Sprintf("/users/%s/playlists", userID)
	scopes := auth.NewScopeSet(modifyScope(opts.Public))
	if err := c.sendJSON(ctx, "POST", path, opts, scopes, &playlist); err != nil {
		return nil, err
	}

	return &playlist, nil
}

// AddPlaylistItems appends tracks to a playlist by URI (up to 100 per call).
func (c *Client) AddPlaylistItems(ctx context.Context, playlistID string, public bool, uris []string) error {
	if len(uris) == 0 {
		return fmt.Errorf("%w: no track URIs provided", shared.ErrMissingArgument)
	}
	if len(uris) > 100 {
		return fmt.Errorf("%w: maximum 100 track URIs allowed", shared.ErrInvalidArgument)
	}

	payload := map[string][]string{"uris": uris}
	path := fmt.Sprintf("/playlists/%s/tracks", playlistID)
	return c.sendJSON(ctx, "POST", path, payload, auth.NewScopeSet(modifyScope(public)), nil)
}
