package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/desertthunder/starsync/internal/services"
	"github.com/desertthunder/starsync/internal/ui"
	"github.com/urfave/cli/v3"
)

// RemoteDump saves the remote library as a snapshot for offline dry runs.
func (r *Runner) RemoteDump(ctx context.Context, cmd *cli.Command) error {
	if err := r.prepare(cmd); err != nil {
		return err
	}

	remote := r.remoteLibrary(ctx)
	tracks, err := remote.ListTracks(ctx)
	if err != nil {
		return fmt.Errorf("failed to load remote library: %w", err)
	}

	outputPath := cmd.String("output")
	var w io.Writer = r.output
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create snapshot file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := services.WriteSnapshot(w, remote.Name(), tracks); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	r.logger.Info("remote library saved", "tracks", len(tracks), "path", outputPath)
	if outputPath != "" {
		r.writePlain("✓ Saved %d tracks to %s\n", len(tracks), outputPath)
	}
	return nil
}

// RemoteTracks lists the remote library, live or from a snapshot.
func (r *Runner) RemoteTracks(ctx context.Context, cmd *cli.Command) error {
	if err := r.prepare(cmd); err != nil {
		return err
	}

	var remote services.RemoteLibrary
	if path := cmd.String("snapshot"); path != "" {
		snap, err := services.LoadSnapshot(path)
		if err != nil {
			return err
		}
		remote = snap
	} else {
		remote = r.remoteLibrary(ctx)
	}

	tracks, err := remote.ListTracks(ctx)
	if err != nil {
		return fmt.Errorf("failed to load remote library: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, true)
	}

	r.writePlain("%s\n", ui.RemoteTable(tracks))
	r.writePlain("%d tracks in %s library\n", len(tracks), remote.Name())
	return nil
}

