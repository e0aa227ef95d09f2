package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tempo/internal/client"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	TrackListView
	NowPlayingView
)

// Model represents the TUI application state.
type Model struct {
	ctx              context.Context
	view             ViewState
	api              *client.Client
	width            int
	height           int
	playlistList     list.Model
	playlists        []client.SimplePlaylist
	trackList        list.Model
	selectedPlaylist client.SimplePlaylist
	playing          *client.CurrentlyPlaying
	loading          bool
	err              error
	help             help.Model
	keys             keyMap
}

// NewModel creates a new TUI model backed by the provided API client.
func NewModel(ctx context.Context, api *client.Client) *Model {
	return &Model{
		ctx:     ctx,
		view:    PlaylistListView,
		api:     api,
		loading: true,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by fetching the user's playlists.
func (m *Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.playlistList.Width() == 0 {
			m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.trackList.Width() == 0 {
			m.trackList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case NowPlayingView:
			return m.handleNowPlayingKeys(msg)
		}

	case playlistsFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.playlists = msg.playlists
		items := make([]list.Item, len(msg.playlists))
		for i, pl := range msg.playlists {
			items[i] = playlistItem{playlist: pl}
		}
		m.playlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.playlistList.Title = "Playlists"
		m.playlistList.SetSize(m.width-4, m.height-8)
		return m, nil

	case tracksFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.view = PlaylistListView
			return m, nil
		}
		m.err = nil
		m.selectedPlaylist = msg.playlist
		items := make([]list.Item, len(msg.tracks))
		for i, pt := range msg.tracks {
			items[i] = trackItem{track: pt.Track}
		}
		m.trackList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.trackList.Title = fmt.Sprintf("Tracks in '%s'", msg.playlist.Name)
		m.trackList.SetSize(m.width-4, m.height-8)
		m.view = TrackListView
		return m, nil

	case playingFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.playing = msg.playing
		m.view = NowPlayingView
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err))
	}
	if m.loading {
		return styles.help.Render("Loading...")
	}

	switch m.view {
	case PlaylistListView:
		return m.renderPlaylistList()
	case TrackListView:
		return m.renderTrackList()
	case NowPlayingView:
		return m.renderNowPlaying()
	default:
		return ""
	}
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.loading = true
		m.err = nil
		return m, m.fetchPlaylists()
	case "p":
		m.loading = true
		return m, m.fetchPlaying()
	case "enter":
		selected := m.playlistList.SelectedItem()
		if selected != nil {
			if pl, ok := selected.(playlistItem); ok {
				m.loading = true
				return m, m.fetchTracks(pl.playlist)
			}
		}
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = PlaylistListView
		return m, nil
	case "p":
		m.loading = true
		return m, m.fetchPlaying()
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleNowPlayingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = PlaylistListView
		return m, nil
	case "r":
		m.loading = true
		return m, m.fetchPlaying()
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case TrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.api.AllPlaylists(m.ctx)
		return playlistsFetchedMsg{playlists: playlists, err: err}
	}
}

func (m *Model) fetchTracks(playlist client.SimplePlaylist) tea.Cmd {
	return func() tea.Msg {
		tracks, err := client.Collect(m.ctx, func(ctx context.Context, limit, offset int) (*client.Paging[client.PlaylistTrack], error) {
			return m.api.PlaylistItems(ctx, playlist.ID, limit, offset)
		})
		return tracksFetchedMsg{playlist: playlist, tracks: tracks, err: err}
	}
}

func (m *Model) fetchPlaying() tea.Cmd {
	return func() tea.Msg {
		playing, err := m.api.Playing(m.ctx)
		return playingFetchedMsg{playing: playing, err: err}
	}
}

func (m *Model) renderPlaylistList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.playing, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderTrackList() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.playing, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), helpView)
}

func (m *Model) renderNowPlaying() string {
	title := styles.title.Render("Now Playing")

	var body string
	switch {
	case m.playing == nil || m.playing.Item == nil:
		body = styles.warn.Render("Nothing is playing.")
	case m.playing.IsPlaying:
		body = fmt.Sprintf("%s\n%s • %s\n%s",
			styles.ok.Render(m.playing.Item.Name),
			artistNames(m.playing.Item.Artists),
			m.playing.Item.Album.Name,
			progressLine(m.playing.ProgressMS, m.playing.Item.DurationMS),
		)
	default:
		body = fmt.Sprintf("%s (paused)\n%s", m.playing.Item.Name, artistNames(m.playing.Item.Artists))
	}

	helpKeys := []key.Binding{m.keys.refresh, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, body, helpView)
}

func progressLine(progressMS, durationMS int) string {
	format := func(ms int) string {
		s := ms / 1000
		return fmt.Sprintf("%d:%02d", s/60, s%60)
	}
	return styles.help.Render(fmt.Sprintf("%s / %s", format(progressMS), format(durationMS)))
}
