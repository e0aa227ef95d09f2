package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tempo/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlayerNow shows the currently playing track.
func (r *Runner) PlayerNow(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	playing, err := r.api.Playing(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playing, true)
	}

	if playing == nil || playing.Item == nil {
		return r.writePlain("Nothing is playing\n")
	}

	state := "▶"
	if !playing.IsPlaying {
		state = "⏸"
	}
	r.writePlain("%s %s - %s\n", state, artistLine(*playing.Item), playing.Item.Name)
	r.writePlain("  %s / %s\n", formatMS(playing.ProgressMS), formatMS(playing.Item.DurationMS))
	return nil
}

// PlayerDevices lists available playback devices.
func (r *Runner) PlayerDevices(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	devices, err := r.api.Devices(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(devices, true)
	}

	if len(devices) == 0 {
		return r.writePlain("No devices available\n")
	}

	for _, d := range devices {
		active := " "
		if d.IsActive {
			active = "*"
		}
		r.writePlain("%s %s (%s) volume %d%%\n", active, d.Name, d.Type, d.VolumePercent)
	}
	return nil
}

func formatMS(ms int) string {
	s := ms / 1000
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
