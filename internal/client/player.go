package client

import (
	"context"
	"net/http"

	"github.com/desertthunder/tempo/internal/auth"
)

// Device represents a Spotify Connect playback device.
type Device struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	IsActive      bool   `json:"is_active"`
	VolumePercent int    `json:"volume_percent"`
}

// CurrentlyPlaying represents the user's playback state for one item.
type CurrentlyPlaying struct {
	IsPlaying  bool   `json:"is_playing"`
	ProgressMS int    `json:"progress_ms"`
	Item       *Track `json:"item"`
}

// Playing retrieves the user's currently playing track, or nil when nothing
// is playing. Requires user-read-currently-playing.
func (c *Client) Playing(ctx context.Context) (*CurrentlyPlaying, error) {
	scopes := auth.NewScopeSet(auth.ScopeUserReadCurrentlyPlaying)

	resp, err := c.Request(ctx, RequestOpts{Method: http.MethodGet, Path: "/me/player/currently-playing", Scopes: scopes})
	if err != nil {
		return nil, err
	}

	// 204 means no active playback
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var playing CurrentlyPlaying
	if err := decodeJSON(resp.Body, &playing); err != nil {
		return nil, err
	}
	return &playing, nil
}

// Devices retrieves the user's available playback devices.
// Requires user-read-playback-state.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	var response struct {
		Devices []Device `json:"devices"`
	}

	scopes := auth.NewScopeSet(auth.ScopeUserReadPlaybackState)
	if err := c.getJSON(ctx, "/me/player/devices", nil, scopes, &response); err != nil {
		return nil, err
	}

	return response.Devices, nil
}
