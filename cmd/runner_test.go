package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"catalog-sync/internal/shared"
	"catalog-sync/internal/store"
)

// runApp builds a fresh command tree per invocation; flag state does not
// survive re-running the same *cli.Command.
func runApp(ctx context.Context, output *bytes.Buffer, args ...string) error {
	runner := NewRunner(RunnerOpts{
		Logger: log.New(os.Stderr),
		Output: output,
	})

	app := &cli.Command{
		Name:     "catsync",
		Commands: runner.register(),
	}
	return app.Run(ctx, append([]string{"catsync"}, args...))
}

func writeTestConfig(t *testing.T, baseURL string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf(`[api]
base_url = %q
org_id = "org-test"
bearer_token = "token-test"

[sync]
page_size = 1000
parent_category = "1"
thumbnails = true

[database]
path = %q
max_open_conns = 1
max_idle_conns = 1
`, baseURL, filepath.Join(dir, "catsync.db"))

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSyncRun_EndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("x-total-count", "1")
		w.Header().Set("x-paging-request-id", "tok1")
		w.Write([]byte(`[
			{"id": "abc123", "title": "My Course",
			 "description": "About the course.",
			 "localeCodes": ["en-US"],
			 "contentType": {"type": "COURSE", "displayLabel": "Course"},
			 "lifecycle": {"status": "ACTIVE"},
			 "duration": "PT1H",
			 "keywords": ["k1"],
			 "associations": {"channels": [{"id": "C1", "title": "Channel One"}]}}
		]`))
	}))
	defer server.Close()

	configPath := writeTestConfig(t, server.URL)
	output := &bytes.Buffer{}

	if err := runApp(context.Background(), output, "sync", "run", "--config", configPath); err != nil {
		t.Fatalf("sync run failed: %v", err)
	}

	out := output.String()
	for _, want := range []string{"Sync Summary", "Downloaded:  1 of 1", "Succeeded:   1", "Failed:      0"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q\n%s", want, out)
		}
	}

	// The run persisted the course and advanced the watermark.
	config, err := shared.LoadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	course, err := store.NewCourseRepository(db).ByIDNumber(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("course not persisted: %v", err)
	}
	if course.FullName != "My Course" {
		t.Errorf("FullName = %q", course.FullName)
	}

	state, err := store.NewStateRepository(db).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if state.UpdatedSince == "" {
		t.Error("watermark should be set after a successful run")
	}
	if state.LastSucceeded != 1 {
		t.Errorf("LastSucceeded = %d, want 1", state.LastSucceeded)
	}
}

func TestSyncRun_MissingConfiguration(t *testing.T) {
	err := runApp(context.Background(), &bytes.Buffer{},
		"sync", "run", "--config", filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil {
		t.Fatal("sync run should fail without credentials")
	}
}

func TestStateCommands(t *testing.T) {
	configPath := writeTestConfig(t, "https://api.example.com")
	output := &bytes.Buffer{}
	ctx := context.Background()

	if err := runApp(ctx, output, "setup", "database", "--config", configPath); err != nil {
		t.Fatalf("setup database failed: %v", err)
	}

	if err := runApp(ctx, output, "state", "show", "--config", configPath); err != nil {
		t.Fatalf("state show failed: %v", err)
	}
	if !strings.Contains(output.String(), "next run fetches the full catalog") {
		t.Errorf("expected empty-watermark notice, got:\n%s", output.String())
	}

	output.Reset()
	if err := runApp(ctx, output, "state", "reset", "--config", configPath); err != nil {
		t.Fatalf("state reset failed: %v", err)
	}
	if !strings.Contains(output.String(), "Watermark cleared") {
		t.Errorf("unexpected reset output:\n%s", output.String())
	}
}

func TestRunner_writeJSON(t *testing.T) {
	output := &bytes.Buffer{}
	r := NewRunner(RunnerOpts{Output: output, Logger: log.New(os.Stderr)})

	if err := r.writeJSON(map[string]int{"count": 3}, false); err != nil {
		t.Fatalf("writeJSON() error = %v", err)
	}
	if got := output.String(); got != "{\"count\":3}\n" {
		t.Errorf("writeJSON() = %q", got)
	}
}
