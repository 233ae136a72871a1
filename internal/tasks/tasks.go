// package tasks runs a rating sync: load local records, load the remote library, reconcile, push one batch.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/starsync/internal/matching"
	"github.com/desertthunder/starsync/internal/models"
	"github.com/desertthunder/starsync/internal/normalize"
	"github.com/desertthunder/starsync/internal/services"
	"github.com/desertthunder/starsync/internal/shared"
)

const suggestionLimit = 3

// LocalSource yields raw records from a local library.
type LocalSource interface {
	Name() string
	Records(ctx context.Context) ([]normalize.Record, error)
}

// RunRecorder persists the audit trail of applied runs. It is never read back during a sync.
type RunRecorder interface {
	RecordRun(ctx context.Context, run *models.SyncRun, changes []models.RatingChange) error
}

// RunConfig controls a single sync run.
type RunConfig struct {
	DryRun    bool // compute the batch but never call the update sink
	Policy    matching.Policy
	OnInvalid InvalidPolicy
	Suggest   bool // attach near-miss title suggestions to unmatched tracks
}

// InvalidRecord is a local record that failed normalization and was skipped.
type InvalidRecord struct {
	Origin string
	Err    error
}

// Unmatched is a rated local track with no surviving remote candidate.
type Unmatched struct {
	Decision    matching.Decision
	Suggestions []matching.Suggestion
}

// SyncResult is everything a run produced, applied or not.
type SyncResult struct {
	RunID   string
	Source  string
	Remote  string
	Config  RunConfig
	Local   int // records read from the source
	Invalid []InvalidRecord
	Remotes int // tracks in the remote library
	Batch   *Batch
	Applied bool // the update sink accepted the batch

	Unmatched  []Unmatched
	StartedAt  time.Time
	FinishedAt time.Time
}

// Status maps the result onto a history status.
func (r *SyncResult) Status() models.RunStatus {
	switch {
	case r.Applied:
		return models.RunApplied
	case r.Batch != nil && r.Batch.Empty():
		return models.RunEmpty
	default:
		return models.RunFailed
	}
}

// Engine wires the reconciler to a remote library and an optional history recorder.
type Engine struct {
	remote  services.RemoteLibrary
	confirm matching.Confirmer
	history RunRecorder
	logger  *log.Logger
}

// NewEngine creates an engine. confirm is required for interactive runs; history may be nil.
func NewEngine(remote services.RemoteLibrary, confirm matching.Confirmer, history RunRecorder, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Engine{remote: remote, confirm: confirm, history: history, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run performs a full sync from source into the remote library.
//
// The update sink is called at most once, with the whole batch, and only when cfg.DryRun is false and the
// batch is not empty. Progress updates are suppressed under [matching.PolicyInteractive] so they never
// interleave with a prompt.
func (e *Engine) Run(ctx context.Context, source LocalSource, cfg RunConfig, progress chan<- ProgressUpdate) (*SyncResult, error) {
	if e.remote == nil {
		return nil, fmt.Errorf("%w: remote library not initialized", shared.ErrServiceUnavailable)
	}
	if source == nil {
		return nil, fmt.Errorf("%w: local source not initialized", shared.ErrServiceUnavailable)
	}
	if cfg.Policy == matching.PolicyInteractive {
		progress = nil
	}

	result := &SyncResult{
		RunID:     shared.GenerateID(),
		Source:    source.Name(),
		Remote:    e.remote.Name(),
		Config:    cfg,
		StartedAt: time.Now().UTC(),
	}
	logger := shared.WithLogger(e.logger, "run", result.RunID[:8])

	local, err := e.loadLocal(ctx, source, cfg, result, progress, logger)
	if err != nil {
		return result, err
	}

	e.sendProgress(progress, loadRemoteUpdate(0, 0, e.remote.Name()))
	remote, err := e.remote.ListTracks(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to load remote library: %w", err)
	}
	result.Remotes = len(remote)
	e.sendProgress(progress, loadRemoteUpdate(1, 1, e.remote.Name()))
	logger.Info("loaded remote library", "library", e.remote.Name(), "tracks", len(remote))

	reconciler := matching.NewReconciler(cfg.Policy, e.confirm, logger)
	batch, err := collect(local, remote, reconciler, func(i int, d matching.Decision) {
		e.sendProgress(progress, reconcileUpdate(i+1, len(local), d))
	})
	if err != nil {
		return result, fmt.Errorf("reconciliation aborted: %w", err)
	}
	result.Batch = batch

	for _, d := range batch.Unmatched() {
		u := Unmatched{Decision: d}
		if cfg.Suggest {
			u.Suggestions = matching.Suggest(remote, d.Local, 0, suggestionLimit)
		}
		result.Unmatched = append(result.Unmatched, u)
	}

	logger.Info("reconciled",
		"rated", len(batch.Decisions),
		"unrated", batch.Skipped,
		"updates", batch.Len(),
		"unchanged", batch.Count(matching.OutcomeUnchanged),
		"rejected", batch.Count(matching.OutcomeRejected),
		"unmatched", len(result.Unmatched),
	)

	if cfg.DryRun {
		logger.Info("dry run, remote library left untouched", "updates", batch.Len())
		result.FinishedAt = time.Now().UTC()
		return result, nil
	}

	if batch.Empty() {
		result.FinishedAt = time.Now().UTC()
		e.record(ctx, result, nil, logger)
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	e.sendProgress(progress, pushUpdatesUpdate(0, 1, batch.Len()))
	if err := e.remote.UpdateTracks(ctx, batch.Tracks); err != nil {
		uerr := &RemoteUpdateError{Count: batch.Len(), Err: err}
		result.FinishedAt = time.Now().UTC()
		e.record(ctx, result, uerr, logger)
		return result, uerr
	}
	result.Applied = true
	result.FinishedAt = time.Now().UTC()
	e.sendProgress(progress, pushUpdatesUpdate(1, 1, batch.Len()))
	logger.Info("ratings pushed", "tracks", batch.Len())

	e.record(ctx, result, nil, logger)
	return result, nil
}

func (e *Engine) loadLocal(ctx context.Context, source LocalSource, cfg RunConfig, result *SyncResult, progress chan<- ProgressUpdate, logger *log.Logger) ([]models.CanonicalTrack, error) {
	e.sendProgress(progress, loadLocalUpdate(0, 0, source.Name()))

	records, err := source.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read local library: %w", err)
	}
	result.Local = len(records)

	tracks := make([]models.CanonicalTrack, 0, len(records))
	for i, rec := range records {
		track, err := rec.Normalize()
		if err != nil {
			if cfg.OnInvalid == InvalidAbort {
				return nil, fmt.Errorf("invalid local record: %w", err)
			}
			logger.Warn("skipping invalid record", "record", rec.Origin(), "error", err)
			result.Invalid = append(result.Invalid, InvalidRecord{Origin: rec.Origin(), Err: err})
			continue
		}
		tracks = append(tracks, track)
		e.sendProgress(progress, loadLocalUpdate(i+1, len(records), source.Name()))
	}

	logger.Info("loaded local library", "source", source.Name(), "records", len(records), "invalid", len(result.Invalid))
	return tracks, nil
}

// record writes the run to history. Failures are logged and never change the run's outcome.
func (e *Engine) record(ctx context.Context, result *SyncResult, runErr error, logger *log.Logger) {
	if e.history == nil {
		return
	}

	run := &models.SyncRun{
		ID:           result.RunID,
		Source:       result.Source,
		Policy:       result.Config.Policy.String(),
		LocalCount:   result.Local,
		InvalidCount: len(result.Invalid),
		Status:       result.Status(),
		StartedAt:    result.StartedAt,
	}
	finished := result.FinishedAt
	run.FinishedAt = &finished

	var changes []models.RatingChange
	if result.Batch != nil {
		run.SkippedCount = result.Batch.Skipped
		run.UpdateCount = result.Batch.Len()
		if result.Applied {
			changes = result.Batch.Changes()
		}
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}

	if err := e.history.RecordRun(ctx, run, changes); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("failed to record run history", "error", err)
	}
}
