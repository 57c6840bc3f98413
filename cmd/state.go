package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"catalog-sync/internal/store"
)

// StateShow prints the stored watermark and the statistics of the last
// completed run.
func (r *Runner) StateShow(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfigLenient(cmd.String("config"))

	db, err := r.openStore(config)
	if err != nil {
		return err
	}
	defer db.Close()

	state, err := store.NewStateRepository(db).Load(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(state, true)
	}

	r.writePlainHeader("Sync State")
	watermark := state.UpdatedSince
	if watermark == "" {
		watermark = "(none, next run fetches the full catalog)"
	}
	r.writePlain("Watermark:       %s\n", watermark)
	r.writePlain("Last run ID:     %s\n", valueOrDash(state.LastRunID))
	r.writePlain("Last downloaded: %d\n", state.LastDownloaded)
	r.writePlain("Last succeeded:  %d\n", state.LastSucceeded)
	r.writePlain("Last failed:     %d\n", state.LastFailed)

	return nil
}

// StateReset clears the watermark and last-run counters.
func (r *Runner) StateReset(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfigLenient(cmd.String("config"))

	db, err := r.openStore(config)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.NewStateRepository(db).Reset(ctx); err != nil {
		return err
	}

	r.logger.Info("sync state cleared")
	return r.writePlain("Watermark cleared. The next run fetches the full catalog.\n")
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
