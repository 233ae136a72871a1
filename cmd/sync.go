package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/desertthunder/starsync/internal/formatter"
	"github.com/desertthunder/starsync/internal/library"
	"github.com/desertthunder/starsync/internal/matching"
	"github.com/desertthunder/starsync/internal/repositories"
	"github.com/desertthunder/starsync/internal/services"
	"github.com/desertthunder/starsync/internal/shared"
	"github.com/desertthunder/starsync/internal/tasks"
	"github.com/desertthunder/starsync/internal/ui"
	"github.com/urfave/cli/v3"
)

const (
	promptAuto = "auto"
	promptTUI  = "tui"
	promptLine = "line"
)

// SyncAmarok pushes ratings from an Amarok collection database.
func (r *Runner) SyncAmarok(ctx context.Context, cmd *cli.Command) error {
	if err := r.prepare(cmd); err != nil {
		return err
	}

	src, err := r.amarokSource(cmd)
	if err != nil {
		return err
	}
	defer src.Close()

	return r.sync(ctx, cmd, src)
}

// SyncTags pushes ratings read from audio file tags under a music directory.
func (r *Runner) SyncTags(ctx context.Context, cmd *cli.Command) error {
	if err := r.prepare(cmd); err != nil {
		return err
	}

	src, err := r.tagSource(cmd)
	if err != nil {
		return err
	}

	return r.sync(ctx, cmd, src)
}

func (r *Runner) sync(ctx context.Context, cmd *cli.Command, src tasks.LocalSource) error {
	cfg, prompt, err := r.runConfig(cmd)
	if err != nil {
		return err
	}

	remote, err := r.syncRemote(ctx, cmd)
	if err != nil {
		return err
	}

	var history tasks.RunRecorder
	if !cfg.DryRun {
		db, err := r.openHistory()
		if err != nil {
			return err
		}
		defer db.Close()
		history = repositories.NewRunRepository(db)
	}

	confirm, usesTUI := r.confirmer(prompt, cfg.Policy)
	withProgress := cfg.Policy == matching.PolicyAutomatic && r.interactiveTerminal()
	if usesTUI || withProgress {
		r.redirectLogs()
	}

	engine := tasks.NewEngine(remote, confirm, history, r.logger)
	r.logger.Info("starting sync",
		"source", src.Name(),
		"remote", remote.Name(),
		"policy", cfg.Policy,
		"dry_run", cfg.DryRun,
		"on_invalid", cfg.OnInvalid,
	)

	var result *tasks.SyncResult
	if withProgress {
		result, err = ui.RunWithProgress(ctx, r.input, r.output, func(ctx context.Context, progress chan<- tasks.ProgressUpdate) (*tasks.SyncResult, error) {
			return engine.Run(ctx, src, cfg, progress)
		})
	} else {
		result, err = engine.Run(ctx, src, cfg, nil)
	}

	if report := cmd.String("report"); report != "" && result != nil && result.Batch != nil {
		if rerr := formatter.WriteReport(result, report); rerr != nil {
			r.logger.Error("failed to write report", "path", report, "error", rerr)
		} else {
			r.logger.Info("report written", "path", report)
		}
	}

	if err != nil {
		return err
	}

	r.printSummary(result)
	return nil
}

// runConfig merges sync flags over the [sync] config section. It also returns the prompt mode.
func (r *Runner) runConfig(cmd *cli.Command) (tasks.RunConfig, string, error) {
	sc := r.config.Sync

	policyName := sc.Policy
	if cmd.IsSet("policy") {
		policyName = cmd.String("policy")
	}
	policy, err := matching.ParsePolicy(policyName)
	if err != nil {
		return tasks.RunConfig{}, "", fmt.Errorf("%w: --policy: %v", shared.ErrInvalidFlag, err)
	}

	invalidName := sc.OnInvalid
	if cmd.IsSet("on-invalid") {
		invalidName = cmd.String("on-invalid")
	}
	onInvalid, err := tasks.ParseInvalidPolicy(invalidName)
	if err != nil {
		return tasks.RunConfig{}, "", fmt.Errorf("%w: --on-invalid: %v", shared.ErrInvalidFlag, err)
	}

	prompt := strings.ToLower(sc.Prompt)
	if cmd.IsSet("prompt") {
		prompt = strings.ToLower(cmd.String("prompt"))
	}
	switch prompt {
	case "":
		prompt = promptAuto
	case promptAuto, promptTUI, promptLine:
	default:
		return tasks.RunConfig{}, "", fmt.Errorf("%w: --prompt must be auto, tui or line, got %q", shared.ErrInvalidFlag, prompt)
	}

	dryRun := sc.DryRun
	if cmd.IsSet("dry-run") {
		dryRun = cmd.Bool("dry-run")
	}
	if cmd.String("snapshot") != "" && !dryRun {
		r.logger.Info("snapshot libraries are read-only, running as a dry run")
		dryRun = true
	}

	return tasks.RunConfig{
		DryRun:    dryRun,
		Policy:    policy,
		OnInvalid: onInvalid,
		Suggest:   cmd.String("report") != "",
	}, prompt, nil
}

// syncRemote picks the snapshot named by --snapshot or the live library.
func (r *Runner) syncRemote(ctx context.Context, cmd *cli.Command) (services.RemoteLibrary, error) {
	if path := cmd.String("snapshot"); path != "" {
		snap, err := services.LoadSnapshot(path)
		if err != nil {
			return nil, err
		}
		r.logger.Info("using remote snapshot", "path", path, "saved_at", snap.SavedAt())
		return snap, nil
	}
	return r.remoteLibrary(ctx), nil
}

// confirmer picks the confirmation backend for interactive runs and reports whether it draws a TUI.
func (r *Runner) confirmer(prompt string, policy matching.Policy) (matching.Confirmer, bool) {
	if policy != matching.PolicyInteractive {
		return nil, false
	}
	if r.confirm != nil {
		return r.confirm, false
	}

	switch prompt {
	case promptTUI:
		return ui.NewTUIConfirmer(r.input, r.output), true
	case promptLine:
		return ui.NewLinePrompt(r.input, r.output), false
	default:
		if r.interactiveTerminal() {
			return ui.NewTUIConfirmer(r.input, r.output), true
		}
		return ui.NewLinePrompt(r.input, r.output), false
	}
}

func (r *Runner) interactiveTerminal() bool {
	return ui.IsTerminal(r.input) && ui.IsTerminal(r.output)
}

// redirectLogs sends logs to the configured file while a bubbletea program owns the terminal.
func (r *Runner) redirectLogs() {
	path := r.config.Logging.File
	if path == "" {
		return
	}

	fileLogger, err := shared.NewFileLogger(path)
	if err != nil {
		r.logger.Warn("failed to open log file, logging to stderr", "path", path, "error", err)
		return
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)
}

// openHistory opens the run history database and applies pending migrations.
func (r *Runner) openHistory() (*sql.DB, error) {
	dc := r.config.Database

	db, err := shared.NewDatabase(dc.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	shared.ConfigureDatabase(db, dc.MaxOpenConns, dc.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

func (r *Runner) amarokSource(cmd *cli.Command) (*library.AmarokSource, error) {
	path := cmd.String("db")
	if path == "" {
		path = r.config.Local.AmarokDB
	}
	if path == "" {
		return nil, fmt.Errorf("%w: --db or local.amarok_db", shared.ErrMissingArgument)
	}
	return library.OpenAmarok(path)
}

func (r *Runner) tagSource(cmd *cli.Command) (*library.TagSource, error) {
	dir := cmd.StringArg("dir")
	if dir == "" {
		dir = r.config.Local.MusicDir
	}
	if dir == "" {
		return nil, fmt.Errorf("%w: music directory argument or local.music_dir", shared.ErrMissingArgument)
	}

	exts, err := shared.ResolveExtensions(r.config.Local)
	if err != nil {
		return nil, err
	}
	return library.NewTagSource(dir, exts, r.readTags, shared.WithLogger(r.logger, "source", "tags")), nil
}

func (r *Runner) printSummary(result *tasks.SyncResult) {
	batch := result.Batch

	switch {
	case result.Config.DryRun:
		r.writePlainHeader("Dry Run Complete")
	case result.Applied:
		r.writePlainHeader("Sync Complete")
	default:
		r.writePlainHeader("Nothing To Update")
	}

	r.writePlain("Source: %s (%d records, %d invalid)\n", result.Source, result.Local, len(result.Invalid))
	r.writePlain("Remote: %s (%d tracks)\n", result.Remote, result.Remotes)
	r.writePlain("Policy: %s\n", result.Config.Policy)
	r.writePlain("Unrated: %d  Updates: %d  Unchanged: %d  Rejected: %d  Unmatched: %d\n",
		batch.Skipped,
		batch.Len(),
		batch.Count(matching.OutcomeUnchanged),
		batch.Count(matching.OutcomeRejected),
		len(result.Unmatched),
	)

	if !batch.Empty() {
		r.writePlainln("Rating changes:")
		r.writePlain("%s\n", ui.ChangeTable(batch.Changes()))
	}

	if !result.Config.DryRun {
		r.writePlain("\nRun: %s\n", result.RunID)
	}
}
