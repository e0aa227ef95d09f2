// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing a Spotify library:
//  1. [PlaylistListView] : Browse the current user's playlists
//  2. [TrackListView] : Inspect the tracks of a selected playlist
//  3. [NowPlayingView] : Show the current playback state
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via typed message structs.
// All API calls run as tea.Cmd closures so the event loop never blocks on the network.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, p, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
