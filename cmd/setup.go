package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/starsync/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the default configuration file.
//
// The path argument wins over --config.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		path = cmd.String("config")
	}
	if path == "" {
		return fmt.Errorf("%w: config path", shared.ErrMissingArgument)
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Configuration written to %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set remote.base_url and remote.token (or remote.auth_file)\n")
	r.writePlain("2. Set local.amarok_db or local.music_dir\n")
	r.writePlain("3. Run 'starsync sync amarok --dry-run' to preview the rating changes\n")
	return nil
}

// SetupDatabase initializes the run history database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	if err := r.prepare(cmd); err != nil {
		return err
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)
	db, err := r.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	r.writePlain("✓ History database ready at %s\n", r.config.Database.Path)
	return nil
}
