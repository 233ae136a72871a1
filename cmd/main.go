package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/starsync/internal/shared"
	"github.com/urfave/cli/v3"
)

func newApp(runner *Runner) *cli.Command {
	return &cli.Command{
		Name:    "starsync",
		Usage:   "Push star ratings from a local music library to a cloud library",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Commands: runner.register(),
	}
}

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := newApp(runner).Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrPromptAborted) {
			logger.Warn("sync aborted, no ratings were changed")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
