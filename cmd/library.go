package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/tempo/internal/client"
	"github.com/desertthunder/tempo/internal/shared"
	"github.com/desertthunder/tempo/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Profile fetches and prints the authorized user's profile.
func (r *Runner) Profile(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	user, err := r.api.Me(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, cmd.Bool("pretty"))
	}

	r.writePlainHeader(user.DisplayName)
	r.writePlain("ID: %s\n", user.ID)
	if user.Email != "" {
		r.writePlain("Email: %s\n", user.Email)
	}
	if user.Country != "" {
		r.writePlain("Country: %s\n", user.Country)
	}
	if user.Product != "" {
		r.writePlain("Product: %s\n", user.Product)
	}
	r.writePlain("Followers: %d\n", user.Followers.Total)
	return nil
}

// PlaylistsList lists the current user's playlists.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	limit := cmd.Int("limit")
	r.logger.Infof("listing playlists with limit %v", limit)

	playlists, err := r.api.AllPlaylists(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if limit > 0 && limit < len(playlists) {
		playlists = playlists[:limit]
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		if p.Description != "" {
			r.writePlain("   Description: %s\n", p.Description)
		}
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Tracks: %d\n", p.Tracks.Total)
		if p.Public {
			r.writePlain("   Visibility: Public\n")
		} else {
			r.writePlain("   Visibility: Private\n")
		}
		r.writePlain("\n")
	}

	return nil
}

// PlaylistsShow prints one playlist with its full track listing.
func (r *Runner) PlaylistsShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist ID", shared.ErrMissingArgument)
	}

	playlist, err := r.api.Playlist(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	tracks, err := client.Collect(ctx, func(ctx context.Context, limit, offset int) (*client.Paging[client.PlaylistTrack], error) {
		return r.api.PlaylistItems(ctx, id, limit, offset)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"playlist": playlist, "tracks": tracks}, cmd.Bool("pretty"))
	}

	r.writePlainHeader(playlist.Name)
	if playlist.Description != "" {
		r.writePlain("%s\n", playlist.Description)
	}
	r.writePlain("Owner: %s\n", playlist.Owner.DisplayName)
	r.writePlain("Tracks: %d\n\n", len(tracks))
	for i, item := range tracks {
		r.writePlain("%d. %s - %s\n", i+1, artistLine(item.Track), item.Track.Name)
	}

	return nil
}

// PlaylistsExport exports one or all playlists to local files.
func (r *Runner) PlaylistsExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	var ids []string
	switch {
	case cmd.Bool("all"):
		playlists, err := r.api.AllPlaylists(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
		for _, p := range playlists {
			ids = append(ids, p.ID)
		}
	case cmd.String("id") != "":
		ids = []string{cmd.String("id")}
	default:
		return fmt.Errorf("%w: provide --id or --all", shared.ErrMissingArgument)
	}

	exporter := tasks.NewExporter(r.api, shared.WithLogger(r.logger, "component", "exporter"))

	prog := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := exporter.BulkExport(ctx, prog, ids, tasks.BulkExportOpts{
		Format:    cmd.String("format"),
		OutputDir: cmd.String("output"),
		RateLimit: r.config.Client.RateLimit,
	})
	close(prog)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\nExported %d/%d playlists to %s\n", result.SuccessfulExports, result.TotalPlaylists, result.OutputDirectory)
	if result.FailedExports > 0 {
		r.writePlain("%d failed, see %s\n", result.FailedExports, result.ManifestPath)
	}
	return nil
}

func artistLine(track client.Track) string {
	if len(track.Artists) == 0 {
		return "Unknown"
	}
	names := make([]string, len(track.Artists))
	for i, a := range track.Artists {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}
