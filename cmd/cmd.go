// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// syncCommand runs the catalog sync.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Synchronize catalog content into the local store",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run one incremental sync against the catalog API",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "updated-since",
						Usage: "Override the stored watermark (RFC3339 timestamp)",
					},
					&cli.BoolFlag{
						Name:  "full",
						Usage: "Ignore the watermark and fetch the entire catalog",
					},
				},
				Action: r.SyncRun,
			},
		},
	}
}

// setupCommand handles first-run initialization.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the database file and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}

// stateCommand inspects and clears the persisted sync state.
func stateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "state",
		Usage: "Inspect or reset the sync watermark",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the stored watermark and last-run statistics",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.StateShow,
			},
			{
				Name:   "reset",
				Usage:  "Clear the watermark so the next run fetches everything",
				Flags:  []cli.Flag{configFlag()},
				Action: r.StateReset,
			},
		},
	}
}

// catalogCommand exposes debug access to the catalog API.
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Direct catalog API calls",
		Commands: []*cli.Command{
			{
				Name:  "fetch",
				Usage: "Fetch a single page of catalog content, prints raw JSON",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "offset",
						Usage: "Page offset",
					},
					&cli.IntFlag{
						Name:  "max",
						Usage: "Page size",
						Value: 10,
					},
					&cli.StringFlag{
						Name:  "updated-since",
						Usage: "Only content updated after this RFC3339 timestamp",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.CatalogFetch,
			},
		},
	}
}
