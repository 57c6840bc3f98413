package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"catalog-sync/internal/catalog"
	"catalog-sync/internal/mapper"
	"catalog-sync/internal/reconcile"
	"catalog-sync/internal/render"
	"catalog-sync/internal/shared"
	"catalog-sync/internal/store"
	"catalog-sync/internal/tasks"
)

// Runner holds the dependencies shared by all CLI commands and provides a
// method per command action.
type Runner struct {
	logger     *log.Logger
	output     io.Writer
	httpClient *http.Client
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Logger     *log.Logger
	Output     io.Writer
	HTTPClient *http.Client
}

// NewRunner creates a Runner. A nil HTTPClient leaves token handling to the
// catalog client's own oauth2 transport.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return &Runner{
		logger:     opts.Logger,
		output:     opts.Output,
		httpClient: opts.HTTPClient,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		syncCommand, setupCommand, stateCommand, catalogCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig reads the config file when present, falls back to defaults
// otherwise, and applies environment overrides on top. Validation failures
// surface as errors so commands exit non-zero on missing credentials.
func (r *Runner) loadConfig(path string) (*shared.Config, error) {
	config := shared.DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if config, err = shared.LoadConfig(path); err != nil {
			return nil, err
		}
	} else {
		r.logger.Warn("config file not found, relying on defaults and environment", "path", path)
	}

	config.ApplyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// loadConfigLenient loads what it can and never fails validation. Commands
// that only touch the local database use it, since they need no API
// credentials.
func (r *Runner) loadConfigLenient(path string) *shared.Config {
	config := shared.DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if loaded, err := shared.LoadConfig(path); err == nil {
			config = loaded
		} else {
			r.logger.Warn("failed to load config, using defaults", "error", err)
		}
	}
	config.ApplyEnv()
	return config
}

// openStore opens the configured SQLite database and applies migrations.
func (r *Runner) openStore(config *shared.Config) (*sql.DB, error) {
	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// newClient builds a catalog client from the config.
func (r *Runner) newClient(config *shared.Config) *catalog.Client {
	return catalog.NewClient(catalog.ClientConfig{
		BaseURL:           config.API.BaseURL,
		OrgID:             config.API.OrgID,
		BearerToken:       config.API.BearerToken,
		RequestsPerSecond: config.API.RequestsPerSecond,
	}, r.httpClient, r.logger)
}

// buildEngine assembles the full sync pipeline over an open database.
func (r *Runner) buildEngine(config *shared.Config, db *sql.DB, updatedSince string, full bool) (*tasks.Engine, error) {
	renderer, err := render.New(config.Template.Path)
	if err != nil {
		return nil, err
	}

	reconciler := reconcile.New(reconcile.Config{
		Categories:     store.NewCategoryRepository(db),
		Courses:        store.NewCourseRepository(db),
		Modules:        store.NewModuleRepository(db),
		Completion:     store.NewCompletionRepository(db),
		ParentCategory: config.Sync.ParentCategory,
		Logger:         r.logger,
	})

	return tasks.NewEngine(tasks.Config{
		Client:       r.newClient(config),
		Mapper:       mapper.New(renderer, config.Sync.Thumbnails),
		Reconciler:   reconciler,
		State:        store.NewStateRepository(db),
		PageSize:     config.Sync.PageSize,
		UpdatedSince: updatedSince,
		Full:         full,
		Logger:       r.logger,
	}), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
