// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func syncFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "policy",
			Usage: "Ambiguous match policy: interactive or automatic (default from config)",
		},
		&cli.BoolFlag{
			Name:    "dry-run",
			Aliases: []string{"n"},
			Usage:   "Compute the rating changes without sending them",
		},
		&cli.StringFlag{
			Name:  "snapshot",
			Usage: "Match against a saved remote snapshot instead of the live library (implies --dry-run)",
		},
		&cli.StringFlag{
			Name:    "report",
			Aliases: []string{"r"},
			Usage:   "Write a report of every decision (.csv, .md, or text)",
		},
		&cli.StringFlag{
			Name:  "on-invalid",
			Usage: "What to do with a local record that cannot be normalized: skip or abort",
		},
		&cli.StringFlag{
			Name:  "prompt",
			Usage: "Confirmation prompt: auto, tui, or line",
		},
	}
}

// syncCommand pushes local ratings to the remote library
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Push local star ratings to the remote library",
		Commands: []*cli.Command{
			{
				Name:  "amarok",
				Usage: "Sync ratings from an Amarok collection database",
				Flags: append(syncFlags(), &cli.StringFlag{
					Name:  "db",
					Usage: "Path to the Amarok SQLite database (default from config)",
				}),
				Action: r.SyncAmarok,
			},
			{
				Name:  "tags",
				Usage: "Sync ratings read from audio file tags",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "dir"},
				},
				Flags:  syncFlags(),
				Action: r.SyncTags,
			},
		},
	}
}

// remoteCommand handles remote library operations
func remoteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "remote",
		Usage: "Remote library operations",
		Commands: []*cli.Command{
			{
				Name:  "dump",
				Usage: "Save the remote library as a JSON snapshot",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: stdout)",
					},
				},
				Action: r.RemoteDump,
			},
			{
				Name:  "tracks",
				Usage: "List remote tracks",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "snapshot",
						Usage: "Read a saved snapshot instead of the live library",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.RemoteTracks,
			},
		},
	}
}

// localCommand prints normalized local tracks
func localCommand(r *Runner) *cli.Command {
	listFlags := func(extra ...cli.Flag) []cli.Flag {
		return append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "rated",
				Usage: "Only list rated tracks",
			},
		}, extra...)
	}

	return &cli.Command{
		Name:  "local",
		Usage: "Inspect the local library as the matcher sees it",
		Commands: []*cli.Command{
			{
				Name:  "amarok",
				Usage: "List tracks from an Amarok collection database",
				Flags: listFlags(&cli.StringFlag{
					Name:  "db",
					Usage: "Path to the Amarok SQLite database (default from config)",
				}),
				Action: r.LocalAmarok,
			},
			{
				Name:  "tags",
				Usage: "List tracks read from audio file tags",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "dir"},
				},
				Flags:  listFlags(),
				Action: r.LocalTags,
			},
		},
	}
}

// setupCommand handles setup operations for config and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write the default configuration file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the run history database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// historyCommand reads the run history
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show past sync runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent runs, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show a run and the ratings it changed",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryShow,
			},
		},
	}
}
