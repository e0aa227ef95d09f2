package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// CacheList prints recently cached tracks.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	if err := r.openDatabase(); err != nil {
		return err
	}

	tracks, err := r.cache.Recent(cmd.Int("limit"))
	if err != nil {
		return err
	}

	count, err := r.cache.Count()
	if err != nil {
		return err
	}

	if count == 0 {
		return r.writePlain("Track cache is empty\n")
	}

	r.writePlain("%d cached tracks (showing %d):\n\n", count, len(tracks))
	for i, t := range tracks {
		r.writePlain("%d. %s - %s\n", i+1, t.Artists, t.Title)
		if t.ISRC != "" {
			r.writePlain("   ISRC: %s\n", t.ISRC)
		}
		r.writePlain("   Cached: %s\n", t.CachedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// CacheClear removes every cached track.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	if err := r.openDatabase(); err != nil {
		return err
	}

	if err := r.cache.Clear(); err != nil {
		return err
	}

	r.logger.Info("track cache cleared")
	return r.writePlain("✓ Cache cleared\n")
}
