package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/starsync/internal/models"
	"github.com/desertthunder/starsync/internal/tasks"
	"github.com/desertthunder/starsync/internal/ui"
	"github.com/urfave/cli/v3"
)

// localTrack is the JSON form of a normalized local track.
type localTrack struct {
	Title       string `json:"title"`
	Album       string `json:"album"`
	Artist      string `json:"artist"`
	TrackNumber *int   `json:"trackNumber,omitempty"`
	Year        *int   `json:"year,omitempty"`
	Rating      int    `json:"rating"`
}

// LocalAmarok lists normalized tracks from an Amarok collection database.
func (r *Runner) LocalAmarok(ctx context.Context, cmd *cli.Command) error {
	if err := r.prepare(cmd); err != nil {
		return err
	}

	src, err := r.amarokSource(cmd)
	if err != nil {
		return err
	}
	defer src.Close()

	return r.listLocal(ctx, cmd, src)
}

// LocalTags lists normalized tracks read from audio file tags.
func (r *Runner) LocalTags(ctx context.Context, cmd *cli.Command) error {
	if err := r.prepare(cmd); err != nil {
		return err
	}

	src, err := r.tagSource(cmd)
	if err != nil {
		return err
	}

	return r.listLocal(ctx, cmd, src)
}

// listLocal normalizes every record the way a sync would. Invalid records are logged and left out.
func (r *Runner) listLocal(ctx context.Context, cmd *cli.Command, src tasks.LocalSource) error {
	records, err := src.Records(ctx)
	if err != nil {
		return fmt.Errorf("failed to read local library: %w", err)
	}

	ratedOnly := cmd.Bool("rated")
	tracks := make([]models.CanonicalTrack, 0, len(records))
	invalid := 0
	for _, rec := range records {
		track, err := rec.Normalize()
		if err != nil {
			invalid++
			r.logger.Warn("invalid record", "record", rec.Origin(), "error", err)
			continue
		}
		if ratedOnly && !track.Rated() {
			continue
		}
		tracks = append(tracks, track)
	}

	if cmd.Bool("json") {
		out := make([]localTrack, len(tracks))
		for i, t := range tracks {
			out[i] = localTrack{
				Title:       t.Title,
				Album:       t.Album,
				Artist:      t.Artist,
				TrackNumber: t.TrackNumber,
				Year:        t.Year,
				Rating:      t.Rating,
			}
		}
		return r.writeJSON(out, true)
	}

	r.writePlain("%s\n", ui.TrackTable(tracks))
	r.writePlain("%d tracks from %s (%d records, %d invalid)\n", len(tracks), src.Name(), len(records), invalid)
	return nil
}
