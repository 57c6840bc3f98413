package tasks

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"catalog-sync/internal/catalog"
	"catalog-sync/internal/mapper"
	"catalog-sync/internal/reconcile"
	"catalog-sync/internal/shared"
	"catalog-sync/internal/store"
)

// allowedPageSizes are the page sizes the catalog API accepts. Anything
// else snaps to the default.
var allowedPageSizes = map[int]bool{250: true, 500: true, 750: true, 1000: true}

// PageFetcher fetches one page of catalog content.
type PageFetcher interface {
	FetchPage(ctx context.Context, req catalog.PageRequest) (*catalog.CatalogPage, error)
}

// AssetMapper normalizes a raw asset into an import record.
type AssetMapper interface {
	Map(asset *catalog.Asset) (*mapper.ImportRecord, error)
}

// RecordApplier reconciles one import record into the store.
type RecordApplier interface {
	Apply(ctx context.Context, record *mapper.ImportRecord) reconcile.Outcome
}

// StateStore reads and persists the sync watermark and run counters.
type StateStore interface {
	Load(ctx context.Context) (*store.SyncState, error)
	Save(ctx context.Context, state *store.SyncState) error
}

// Config wires an Engine.
type Config struct {
	Client     PageFetcher
	Mapper     AssetMapper
	Reconciler RecordApplier
	State      StateStore

	// PageSize outside the allowed set snaps to 1000.
	PageSize int

	// UpdatedSince overrides the stored watermark when non-empty. Full
	// ignores both and fetches the entire catalog.
	UpdatedSince string
	Full         bool

	Logger *log.Logger
}

// Engine runs the sync state machine over one invocation.
type Engine struct {
	client     PageFetcher
	mapper     AssetMapper
	reconciler RecordApplier
	state      StateStore
	pageSize   int
	since      string
	full       bool
	logger     *log.Logger
	now        func() time.Time
}

func NewEngine(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{
		client:     cfg.Client,
		mapper:     cfg.Mapper,
		reconciler: cfg.Reconciler,
		state:      cfg.State,
		pageSize:   normalizePageSize(cfg.PageSize),
		since:      cfg.UpdatedSince,
		full:       cfg.Full,
		logger:     logger,
		now:        time.Now,
	}
}

// Run executes one full sync. The progress channel is optional and never
// blocks the run. The returned error is fatal: a page fetch failure aborts
// immediately and leaves the stored watermark untouched. Per-item mapping
// and reconcile failures only increment the failed counter.
func (e *Engine) Run(ctx context.Context, progress chan<- ProgressUpdate) (*SyncResult, error) {
	result := &SyncResult{RunID: shared.GenerateID()}

	// The watermark candidate is the run's start time, so content updated
	// while the run is in flight gets picked up again next time.
	start := e.now().UTC().Format(time.RFC3339)

	updatedSince, err := e.resolveUpdatedSince(ctx)
	if err != nil {
		return nil, err
	}

	e.logger.Info("starting sync", "run_id", result.RunID,
		"page_size", e.pageSize, "updated_since", updatedSince)
	e.sendProgress(progress, ProgressUpdate{Phase: PhaseStart, Message: "starting sync"})

	var (
		offset      int
		pagingToken string
		firstPage   = true
	)

	for firstPage || result.Downloaded < result.TotalCount {
		e.sendProgress(progress, ProgressUpdate{
			Phase:   PhaseFetching,
			Message: fmt.Sprintf("fetching page at offset %d", offset),
			Current: result.Downloaded,
			Total:   result.TotalCount,
		})

		page, err := e.client.FetchPage(ctx, catalog.PageRequest{
			Offset:          offset,
			Max:             e.pageSize,
			UpdatedSince:    updatedSince,
			PagingRequestID: pagingToken,
		})
		result.Requests++
		if err != nil {
			e.logger.Error("aborting sync, page fetch failed", "offset", offset, "error", err)
			e.sendProgress(progress, ProgressUpdate{Phase: PhaseAborted, Message: err.Error()})
			return nil, fmt.Errorf("sync aborted at offset %d: %w", offset, err)
		}

		if firstPage {
			// The first page's total governs loop termination for the
			// whole run; the continuation token is also issued here.
			result.TotalCount = page.TotalCount
			if pagingToken == "" {
				pagingToken = page.PagingRequestID
			}
			firstPage = false
		} else if page.TotalCount != result.TotalCount {
			e.logger.Warn("total count diverged mid-run",
				"first", result.TotalCount, "current", page.TotalCount)
		}

		if len(page.Assets) == 0 && result.Downloaded < result.TotalCount {
			e.sendProgress(progress, ProgressUpdate{Phase: PhaseAborted, Message: "empty page"})
			return nil, fmt.Errorf("sync aborted: empty page at offset %d with %d of %d downloaded",
				offset, result.Downloaded, result.TotalCount)
		}

		e.processPage(ctx, page, result, progress)

		result.Downloaded += len(page.Assets)
		offset += e.pageSize
	}

	result.Watermark = start
	if err := e.saveState(ctx, result); err != nil {
		return nil, err
	}

	e.logger.Info("sync finished", "run_id", result.RunID, "requests", result.Requests,
		"downloaded", result.Downloaded, "succeeded", result.Succeeded, "failed", result.Failed)
	e.sendProgress(progress, ProgressUpdate{
		Phase:   PhaseDone,
		Message: "sync finished",
		Current: result.Downloaded,
		Total:   result.TotalCount,
	})

	return result, nil
}

func (e *Engine) processPage(ctx context.Context, page *catalog.CatalogPage, result *SyncResult, progress chan<- ProgressUpdate) {
	for i := range page.Assets {
		asset := &page.Assets[i]

		e.sendProgress(progress, ProgressUpdate{
			Phase:   PhaseProcessing,
			Message: asset.Title,
			Current: result.Downloaded + i + 1,
			Total:   result.TotalCount,
		})

		record, err := e.mapper.Map(asset)
		if err != nil {
			result.Failed++
			e.logger.Error(fmt.Sprintf("FAILED. Asset ID: %s: %v", asset.ID, err))
			continue
		}

		outcome := e.reconciler.Apply(ctx, record)
		if !outcome.Success {
			result.Failed++
			e.logger.Error(fmt.Sprintf("FAILED. Asset ID: %s: %s", asset.ID, outcome.Message))
			continue
		}

		result.Succeeded++
		e.logger.Info(fmt.Sprintf("SUCCESS. Course ID: %d (%s), Module ID: %d (%s)",
			outcome.CourseID, outcome.CourseStatus, outcome.ModuleID, outcome.ModuleStatus))
	}
}

// resolveUpdatedSince picks the incremental watermark for this run: an
// explicit override wins, a full run clears it, otherwise the stored value
// from the last successful run applies.
func (e *Engine) resolveUpdatedSince(ctx context.Context) (string, error) {
	if e.full {
		return "", nil
	}
	if e.since != "" {
		return e.since, nil
	}

	state, err := e.state.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load sync state: %w", err)
	}
	return state.UpdatedSince, nil
}

func (e *Engine) saveState(ctx context.Context, result *SyncResult) error {
	return e.state.Save(ctx, &store.SyncState{
		UpdatedSince:   result.Watermark,
		LastRunID:      result.RunID,
		LastDownloaded: result.Downloaded,
		LastSucceeded:  result.Succeeded,
		LastFailed:     result.Failed,
	})
}

// sendProgress delivers an update without ever blocking the sync loop.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func normalizePageSize(size int) int {
	if allowedPageSizes[size] {
		return size
	}
	return catalog.DefaultPageSize
}
