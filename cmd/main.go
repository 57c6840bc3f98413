package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"catalog-sync/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "catsync",
		Usage:    "Synchronize external catalog content into the local course store",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
