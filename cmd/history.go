package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/starsync/internal/models"
	"github.com/desertthunder/starsync/internal/repositories"
	"github.com/desertthunder/starsync/internal/shared"
	"github.com/desertthunder/starsync/internal/ui"
	"github.com/urfave/cli/v3"
)

type runView struct {
	*models.SyncRun
	Changes []models.RatingChange `json:"changes,omitempty"`
}

// HistoryList shows recent sync runs.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	if err := r.prepare(cmd); err != nil {
		return err
	}

	db, err := r.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := repositories.NewRunRepository(db).List(ctx, int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(runs, true)
	}

	if len(runs) == 0 {
		r.writePlain("No sync runs recorded yet.\n")
		return nil
	}
	r.writePlain("%s\n", ui.RunTable(runs))
	return nil
}

// HistoryShow shows one run, looked up by id or unique id prefix, and the ratings it changed.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.prepare(cmd); err != nil {
		return err
	}

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: run id", shared.ErrMissingArgument)
	}

	db, err := r.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewRunRepository(db)
	run, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	changes, err := repo.Changes(ctx, run.ID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(runView{SyncRun: run, Changes: changes}, true)
	}

	r.writePlainHeader("Run " + run.ID)
	r.writePlain("Started: %s\n", run.StartedAt.Local().Format(time.DateTime))
	r.writePlain("Took: %s\n", run.Duration().Round(time.Millisecond))
	r.writePlain("Source: %s\n", run.Source)
	r.writePlain("Policy: %s\n", run.Policy)
	r.writePlain("Status: %s\n", run.Status)
	r.writePlain("Local records: %d (%d unrated, %d invalid)\n", run.LocalCount, run.SkippedCount, run.InvalidCount)
	r.writePlain("Updates: %d\n", run.UpdateCount)
	if run.Error != "" {
		r.writePlain("Error: %s\n", run.Error)
	}

	if len(changes) > 0 {
		r.writePlainln("Rating changes:")
		r.writePlain("%s\n", ui.ChangeTable(changes))
	}
	return nil
}
