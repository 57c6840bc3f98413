package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"catalog-sync/internal/catalog"
)

// CatalogFetch performs a single-page catalog request and prints the raw
// result. Intended for debugging connectivity and inspecting asset payloads.
func (r *Runner) CatalogFetch(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("catalog fetch not configured: %w", err)
	}

	page, err := r.newClient(config).FetchPage(ctx, catalog.PageRequest{
		Offset:       cmd.Int("offset"),
		Max:          cmd.Int("max"),
		UpdatedSince: cmd.String("updated-since"),
	})
	if err != nil {
		return err
	}

	r.logger.Info("fetched catalog page",
		"items", len(page.Assets), "total", page.TotalCount, "paging_request_id", page.PagingRequestID)

	return r.writeJSON(page, cmd.Bool("pretty"))
}
