// package tasks implements bulk operations over the Spotify Web API.
package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tempo/internal/client"
	"github.com/desertthunder/tempo/internal/formatter"
)

// PlaylistFetcher is the subset of the API client the exporter needs.
type PlaylistFetcher interface {
	Playlist(ctx context.Context, playlistID string) (*client.Playlist, error)
	PlaylistItems(ctx context.Context, playlistID string, limit, offset int) (*client.Paging[client.PlaylistTrack], error)
}

// PlaylistExportJob is a unit of work for an export worker.
type PlaylistExportJob struct {
	PlaylistID string
	Export     *formatter.PlaylistExport
}

// PlaylistExportResult records the outcome of exporting a single playlist.
type PlaylistExportResult struct {
	PlaylistID   string   `json:"playlist_id"`
	PlaylistName string   `json:"playlist_name"`
	Success      bool     `json:"success"`
	Files        []string `json:"files"`
	Error        error    `json:"-"`
}

// BulkExportResult summarizes an entire export run.
type BulkExportResult struct {
	TotalPlaylists    int                    `json:"total_playlists"`
	SuccessfulExports int                    `json:"successful_exports"`
	FailedExports     int                    `json:"failed_exports"`
	OutputDirectory   string                 `json:"output_directory"`
	ManifestPath      string                 `json:"manifest_path,omitempty"`
	Results           []PlaylistExportResult `json:"results"`
}

// Exporter runs bulk playlist exports against the Spotify Web API.
type Exporter struct {
	api    PlaylistFetcher
	logger *log.Logger
}

// NewExporter creates an Exporter backed by the given fetcher.
func NewExporter(api PlaylistFetcher, logger *log.Logger) *Exporter {
	return &Exporter{api: api, logger: logger}
}

// sendProgress delivers an update without blocking when the channel is full or nil.
func (e *Exporter) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
