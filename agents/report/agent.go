package report

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"milwatch/shared/config"
	"milwatch/shared/email"
	"milwatch/shared/monitoring"
	"milwatch/shared/notify"
	"milwatch/shared/scheduler"
	"milwatch/shared/storage"
)

// PublishMetrics represents what happened during a report run
type PublishMetrics struct {
	Imported  int  `json:"imported"`
	Events    int  `json:"events"`
	Published bool `json:"published"`
	Notified  bool `json:"notified"`
}

// GetSummary implements the scheduler.Metrics interface
func (m PublishMetrics) GetSummary() string {
	status := "report published"
	if !m.Published {
		status = "report not published"
	}
	return fmt.Sprintf("%s (%d event(s), %d newly imported, notified=%t)",
		status, m.Events, m.Imported, m.Notified)
}

// Agent compiles stored events for a period into a blog post, rebuilds
// the site and announces the new post. It implements the
// scheduler.Agent interface.
type Agent struct {
	config   *config.Config
	store    *storage.EventStore
	renderer SiteRenderer
	notifier notify.Channel
	mailer   *email.Sender
	location *time.Location
}

func New(cfg *config.Config) *Agent {
	return &Agent{
		config: cfg,
	}
}

func (a *Agent) Name() string {
	return "Flight Report Publisher"
}

func (a *Agent) Initialize() error {
	log.Printf("Initializing %s...", a.Name())

	if a.store == nil {
		store, err := storage.OpenEventStore(a.config.Store.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open event store: %w", err)
		}
		a.store = store
		log.Printf("Event store: %s", a.config.Store.DBPath)
	}

	if a.renderer == nil {
		a.renderer = NewHugoRenderer(a.config.Report.BlogPath)
	}

	if a.notifier == nil {
		a.notifier = notify.NewTelegram(a.config.Telegram.BotToken, a.config.Telegram.ChatID)
	}

	if a.mailer == nil && a.config.Email.Configured() {
		a.mailer = email.NewSender(&a.config.Email)
		log.Println("Email sender initialized")
	}

	if a.location == nil {
		loc, err := time.LoadLocation(a.config.Report.Timezone)
		if err != nil {
			log.Printf("Warning: failed to load timezone %s, using UTC: %v", a.config.Report.Timezone, err)
			loc = time.UTC
		}
		a.location = loc
	}

	return nil
}

// RunOnce generates and publishes one report: ingest the CSV sink,
// query the period, render the post, rebuild the site, notify.
// Store and renderer failures are fatal; notification failures are not.
func (a *Agent) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := time.Now()
	metrics := PublishMetrics{}

	fail := func(err error) error {
		if events != nil && events.OnCriticalFailure != nil {
			events.OnCriticalFailure(err, time.Since(startTime))
		}
		return err
	}

	now := time.Now().In(a.location)
	bounds := Bounds(a.config.Report.Period, now)
	log.Printf("Generating %s report for %s (%s .. %s)",
		a.config.Report.Period, bounds.Label, bounds.StartDay(), bounds.EndDay())

	imported, err := a.store.IngestCSV(a.config.Poll.CSVPath)
	if err != nil {
		return fail(fmt.Errorf("failed to ingest CSV: %w", err))
	}
	metrics.Imported = imported
	monitoring.EventsIngested.Add(float64(imported))

	rows, err := a.store.QueryRange(bounds.StartDay(), bounds.EndDay())
	if err != nil {
		return fail(fmt.Errorf("failed to query events: %w", err))
	}
	metrics.Events = len(rows)

	title := TitleFor(bounds.Label)
	body, err := RenderPost(title, now, a.config.Report.Tags, rows)
	if err != nil {
		return fail(err)
	}

	filename, err := a.writePost(now, body)
	if err != nil {
		return fail(err)
	}

	if err := a.renderer.Render(ctx); err != nil {
		return fail(fmt.Errorf("failed to rebuild site: %w", err))
	}
	metrics.Published = true
	monitoring.ReportsPublished.Inc()

	postURL := fmt.Sprintf("%s/%s/", strings.TrimRight(a.config.Report.BaseURL, "/"),
		strings.TrimSuffix(filename, ".md"))
	log.Printf("Report published: %s", postURL)

	message := fmt.Sprintf("🛩️ New report published:\n%s\n%s", title, postURL)
	if err := a.notifier.Send(ctx, message); err != nil {
		log.Printf("Warning: notification failed: %v", err)
		if events != nil && events.OnPartialFailure != nil {
			events.OnPartialFailure(fmt.Errorf("notification failed: %w", err), time.Since(startTime))
		}
	} else {
		metrics.Notified = true
	}

	if a.mailer != nil {
		if err := a.mailer.SendReport(title, body); err != nil {
			log.Printf("Warning: email delivery failed: %v", err)
			if events != nil && events.OnPartialFailure != nil {
				events.OnPartialFailure(fmt.Errorf("email delivery failed: %w", err), time.Since(startTime))
			}
		}
	}

	if events != nil && events.OnSuccess != nil {
		events.OnSuccess(metrics, time.Since(startTime))
	}
	return nil
}

// writePost stores the rendered post under <posts_dir>/<year>/ and
// returns the post filename.
func (a *Agent) writePost(published time.Time, body string) (string, error) {
	pubDate := published.Format("2006-01-02")
	dir := filepath.Join(a.config.Report.PostsDir, published.Format("2006"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create posts directory: %w", err)
	}

	filename := fmt.Sprintf("%s-%s.md", pubDate, a.config.Report.Slug)
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		return "", fmt.Errorf("failed to write post %s: %w", path, err)
	}
	log.Printf("Post written: %s", path)
	return filename, nil
}

// Close releases the event store.
func (a *Agent) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}
