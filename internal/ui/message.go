package ui

import (
	"github.com/desertthunder/tempo/internal/client"
)

// playlistsFetchedMsg carries the user's playlists or a fetch error.
type playlistsFetchedMsg struct {
	playlists []client.SimplePlaylist
	err       error
}

// tracksFetchedMsg carries the tracks of one playlist or a fetch error.
type tracksFetchedMsg struct {
	playlist client.SimplePlaylist
	tracks   []client.PlaylistTrack
	err      error
}

// playingFetchedMsg carries the current playback state. playing is nil when
// nothing is playing.
type playingFetchedMsg struct {
	playing *client.CurrentlyPlaying
	err     error
}
