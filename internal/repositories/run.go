package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/starsync/internal/models"
	"github.com/desertthunder/starsync/internal/shared"
)

const runColumns = `
	id, source, policy, local_count, skipped_count, invalid_count,
	update_count, status, error, started_at, finished_at`

// RunRepository stores sync runs and the rating changes they pushed.
//
// It is an audit log only; nothing in a sync reads it back.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// RecordRun inserts a run and its changes atomically.
func (r *RunRepository) RecordRun(ctx context.Context, run *models.SyncRun, changes []models.RatingChange) error {
	if run.ID == "" {
		run.ID = shared.GenerateID()
	}

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var finishedAt any
		if run.FinishedAt != nil {
			finishedAt = *run.FinishedAt
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO sync_runs (`+runColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			run.Source,
			run.Policy,
			run.LocalCount,
			run.SkippedCount,
			run.InvalidCount,
			run.UpdateCount,
			string(run.Status),
			run.Error,
			run.StartedAt,
			finishedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO rating_updates (run_id, remote_id, title, artist, album, old_rating, new_rating, score)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare rating insert: %w", err)
		}
		defer stmt.Close()

		for _, c := range changes {
			if _, err := stmt.ExecContext(ctx, run.ID, c.RemoteID, c.Title, c.Artist, c.Album, c.OldRating, c.NewRating, c.Score); err != nil {
				return fmt.Errorf("failed to insert rating change for %s: %w", c.RemoteID, err)
			}
		}
		return nil
	})
}

// Get retrieves a run by full id or by a unique id prefix.
func (r *RunRepository) Get(ctx context.Context, id string) (*models.SyncRun, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: run id", shared.ErrMissingArgument)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT`+runColumns+`
		FROM sync_runs
		WHERE id = ? OR id LIKE ? || '%'
		ORDER BY id = ? DESC, started_at DESC
		LIMIT 2`, id, id, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	defer rows.Close()

	var found []*models.SyncRun
	for rows.Next() {
		run, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}

	switch {
	case len(found) == 0:
		return nil, fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	case found[0].ID == id, len(found) == 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("%w: run id prefix %q is ambiguous", shared.ErrInvalidArgument, id)
	}
}

// List returns the most recent runs first. limit <= 0 returns every run.
func (r *RunRepository) List(ctx context.Context, limit int) ([]*models.SyncRun, error) {
	query := `SELECT` + runColumns + ` FROM sync_runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		run, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	return runs, nil
}

// Changes returns the rating changes recorded for a run, in push order.
func (r *RunRepository) Changes(ctx context.Context, runID string) ([]models.RatingChange, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT remote_id, title, artist, album, old_rating, new_rating, score
		FROM rating_updates
		WHERE run_id = ?
		ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating changes: %w", err)
	}
	defer rows.Close()

	var changes []models.RatingChange
	for rows.Next() {
		var c models.RatingChange
		if err := rows.Scan(&c.RemoteID, &c.Title, &c.Artist, &c.Album, &c.OldRating, &c.NewRating, &c.Score); err != nil {
			return nil, fmt.Errorf("failed to scan rating change: %w", err)
		}
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rating changes: %w", err)
	}
	return changes, nil
}

func (r *RunRepository) scan(s scanner) (*models.SyncRun, error) {
	var (
		run        models.SyncRun
		status     string
		finishedAt sql.NullTime
	)

	err := s.Scan(
		&run.ID,
		&run.Source,
		&run.Policy,
		&run.LocalCount,
		&run.SkippedCount,
		&run.InvalidCount,
		&run.UpdateCount,
		&status,
		&run.Error,
		&run.StartedAt,
		&finishedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run.Status = models.RunStatus(status)
	if finishedAt.Valid {
		t := finishedAt.Time
		run.FinishedAt = &t
	}
	return &run, nil
}
