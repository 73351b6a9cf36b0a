package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"milwatch/shared/config"
)

type fakeRenderer struct {
	calls int
	err   error
}

func (f *fakeRenderer) Render(ctx context.Context) error {
	f.calls++
	return f.err
}

func newTestReportAgent(t *testing.T, renderer SiteRenderer) *Agent {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Poll: config.PollConfig{
			CSVPath: filepath.Join(dir, "mil.csv"),
		},
		Store: config.StoreConfig{
			DBPath: filepath.Join(dir, "events.db"),
		},
		Report: config.ReportConfig{
			Period:   "daily",
			BlogPath: dir,
			PostsDir: filepath.Join(dir, "content", "posts"),
			BaseURL:  "https://example.org/posts",
			Slug:     "monitor-mil-report",
			Tags:     []string{"ads-b", "report"},
			Timezone: "UTC",
		},
	}

	agent := New(cfg)
	agent.renderer = renderer
	if err := agent.Initialize(); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	t.Cleanup(func() { agent.Close() })
	return agent
}

func TestRunOncePublishesEmptyReport(t *testing.T) {
	renderer := &fakeRenderer{}
	agent := newTestReportAgent(t, renderer)

	if err := agent.RunOnce(context.Background(), nil); err != nil {
		t.Fatalf("RunOnce() error: %v", err)
	}
	if renderer.calls != 1 {
		t.Errorf("expected 1 site rebuild, got %d", renderer.calls)
	}

	posts, err := filepath.Glob(filepath.Join(agent.config.Report.PostsDir, "*", "*-monitor-mil-report.md"))
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post file, got %d", len(posts))
	}

	body, err := os.ReadFile(posts[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), EmptyPlaceholder) {
		t.Errorf("post without events must carry the placeholder:\n%s", body)
	}
}

func TestRunOnceIngestsSinkAndRendersEvents(t *testing.T) {
	renderer := &fakeRenderer{}
	agent := newTestReportAgent(t, renderer)

	firstSeen := time.Now().UTC().Format("2006-01-02 15:04:05 UTC")
	csvBody := "first_seen_utc,hex,callsign,reg,model_t,lat,lon,alt_ft,gs_kt,squawk,ground\n" +
		firstSeen + ",abc123,RCH101,09-0017,C17,45.5,10.5,28000,440,,false\n"
	if err := os.WriteFile(agent.config.Poll.CSVPath, []byte(csvBody), 0644); err != nil {
		t.Fatal(err)
	}

	if err := agent.RunOnce(context.Background(), nil); err != nil {
		t.Fatalf("RunOnce() error: %v", err)
	}

	posts, err := filepath.Glob(filepath.Join(agent.config.Report.PostsDir, "*", "*.md"))
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post file, got %d", len(posts))
	}
	body, err := os.ReadFile(posts[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "| abc123 | RCH101 |") {
		t.Errorf("event row missing from post:\n%s", body)
	}

	// A second run re-ingests the same CSV without duplicating the row.
	if err := agent.RunOnce(context.Background(), nil); err != nil {
		t.Fatalf("second RunOnce() error: %v", err)
	}
	count, err := agent.store.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("re-ingest duplicated rows: store holds %d", count)
	}
}

func TestRunOnceSiteBuildFailureIsFatal(t *testing.T) {
	renderer := &fakeRenderer{err: errors.New("hugo exploded")}
	agent := newTestReportAgent(t, renderer)

	err := agent.RunOnce(context.Background(), nil)
	if err == nil {
		t.Fatal("expected an error when the site build fails")
	}
	if !strings.Contains(err.Error(), "failed to rebuild site") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPublishMetricsGetSummary(t *testing.T) {
	m := PublishMetrics{Imported: 2, Events: 5, Published: true, Notified: true}
	want := "report published (5 event(s), 2 newly imported, notified=true)"
	if got := m.GetSummary(); got != want {
		t.Errorf("GetSummary() = %q, want %q", got, want)
	}

	m = PublishMetrics{}
	want = "report not published (0 event(s), 0 newly imported, notified=false)"
	if got := m.GetSummary(); got != want {
		t.Errorf("GetSummary() = %q, want %q", got, want)
	}
}
