package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/tempo/internal/auth"
	"github.com/desertthunder/tempo/internal/shared"
)

// SearchType selects which catalog types a search covers.
type SearchType string

const (
	SearchTrack    SearchType = "track"
	SearchAlbum    SearchType = "album"
	SearchArtist   SearchType = "artist"
	SearchPlaylist SearchType = "playlist"
)

// SearchResult holds the typed result pages of a search. Only the pages
// matching the requested types are populated.
type SearchResult struct {
	Tracks    *Paging[Track]          `json:"tracks"`
	Albums    *Paging[Album]          `json:"albums"`
	Artists   *Paging[Artist]         `json:"artists"`
	Playlists *Paging[SimplePlaylist] `json:"playlists"`
}

// Search queries the Spotify catalog. No scopes required.
func (c *Client) Search(ctx context.Context, q string, types []SearchType, limit, offset int) (*SearchResult, error) {
	if q == "" {
		return nil, fmt.Errorf("%w: search query required", shared.ErrMissingArgument)
	}
	if len(types) == 0 {
		types = []SearchType{SearchTrack}
	}

	names := make([]string, len(types))
	for i, st := range types {
		names[i] = string(st)
	}

	query := url.Values{
		"q":      {q},
		"type":   {strings.Join(names, ",")},
		"limit":  {fmt.Sprint(clampPage(limit))},
		"offset": {fmt.Sprint(offset)},
	}

	var result SearchResult
	if err := c.getJSON(ctx, "/search", query, auth.NewScopeSet(), &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// FindTrack finds the best track match for a title and artist pair.
func (c *Client) FindTrack(ctx context.Context, title, artist string) (*Track, error) {
	q := title
	if artist != "" {
		q = fmt.Sprintf("track:%s artist:%s", title, artist)
	}

	result, err := c.Search(ctx, q, []SearchType{SearchTrack}, 1, 0)
	if err != nil {
		return nil, err
	}

	if result.Tracks == nil || len(result.Tracks.Items) == 0 {
		return nil, fmt.Errorf("%w: no match for %q", shared.ErrNotFound, title)
	}

	return &result.Tracks.Items[0], nil
}
