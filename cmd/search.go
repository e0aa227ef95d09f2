package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/tempo/internal/client"
	"github.com/desertthunder/tempo/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search queries the catalog and caches any returned tracks locally.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	var types []client.SearchType
	for _, name := range strings.Split(cmd.String("type"), ",") {
		types = append(types, client.SearchType(strings.TrimSpace(name)))
	}

	result, err := r.api.Search(ctx, query, types, cmd.Int("limit"), 0)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if result.Tracks != nil {
		if err := r.cache.CacheAll(result.Tracks.Items); err != nil {
			r.logger.Warn("failed to cache tracks", "error", err)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	if result.Tracks != nil && len(result.Tracks.Items) > 0 {
		r.writePlainHeader("Tracks")
		for i, t := range result.Tracks.Items {
			r.writePlain("%d. %s - %s (%s)\n", i+1, artistLine(t), t.Name, t.ID)
		}
	}
	if result.Albums != nil && len(result.Albums.Items) > 0 {
		r.writePlainHeader("Albums")
		for i, a := range result.Albums.Items {
			r.writePlain("%d. %s (%s)\n", i+1, a.Name, a.ID)
		}
	}
	if result.Artists != nil && len(result.Artists.Items) > 0 {
		r.writePlainHeader("Artists")
		for i, a := range result.Artists.Items {
			r.writePlain("%d. %s (%s)\n", i+1, a.Name, a.ID)
		}
	}
	if result.Playlists != nil && len(result.Playlists.Items) > 0 {
		r.writePlainHeader("Playlists")
		for i, p := range result.Playlists.Items {
			r.writePlain("%d. %s (%s)\n", i+1, p.Name, p.ID)
		}
	}

	return nil
}
