package milwatch

import (
	"context"
	"fmt"
	"log"
	"time"

	"milwatch/internal/models"
	"milwatch/shared/config"
	"milwatch/shared/monitoring"
	"milwatch/shared/scheduler"
	"milwatch/shared/storage"
)

// CycleMetrics represents what happened during one poll cycle
type CycleMetrics struct {
	Fetched    int  `json:"fetched"`
	Normalized int  `json:"normalized"`
	InRegion   int  `json:"in_region"`
	Alerts     int  `json:"alerts"`
	FeedFailed bool `json:"feed_failed"`
}

// GetSummary implements the scheduler.Metrics interface
func (m CycleMetrics) GetSummary() string {
	if m.FeedFailed {
		return "feed unavailable, cycle completed with empty batch"
	}
	return fmt.Sprintf("%d aircraft fetched, %d in region, %d alert(s)",
		m.Fetched, m.InRegion, m.Alerts)
}

// Agent polls the ADS-B feed for military aircraft and turns accepted
// sightings into alerts and CSV rows. It implements the scheduler.Agent
// interface, though in normal operation it drives its own fixed-interval
// loop via Run.
type Agent struct {
	config    *config.Config
	feed      *FeedClient
	polygons  []Polygon
	debouncer *Debouncer
	sink      *CSVSink
}

func New(cfg *config.Config) *Agent {
	return &Agent{
		config: cfg,
	}
}

func (a *Agent) Name() string {
	return "Military Flight Watch"
}

func (a *Agent) Initialize() error {
	log.Printf("Initializing %s...", a.Name())

	if a.feed == nil {
		guard := storage.NewRateGuard(a.config.Poll.RateGuardPath,
			time.Duration(a.config.Poll.MinRequestGapMs)*time.Millisecond)
		a.feed = NewFeedClient(&a.config.Feed, guard)
		log.Printf("Feed client initialized for %s", a.config.Feed.URL)
	}

	// A requested geofence that cannot be loaded is fatal: running
	// unfiltered when filtering was asked for would silently widen the
	// alert region.
	if a.polygons == nil && a.config.Poll.PolygonsFile != "" {
		polys, err := LoadPolygons(a.config.Poll.PolygonsFile)
		if err != nil {
			return fmt.Errorf("failed to load geofence: %w", err)
		}
		a.polygons = polys
		log.Printf("Geofence loaded: %d polygon(s) from %s", len(polys), a.config.Poll.PolygonsFile)
	}

	if a.debouncer == nil {
		a.debouncer = NewDebouncer(time.Duration(a.config.Poll.CooldownSeconds) * time.Second)
		log.Printf("Alert cooldown set to %ds", a.config.Poll.CooldownSeconds)
	}

	if a.sink == nil {
		a.sink = NewCSVSink(a.config.Poll.CSVPath)
		log.Printf("CSV sink: %s", a.config.Poll.CSVPath)
	}

	return nil
}

// RunOnce executes a single poll cycle: fetch, normalize, geofence,
// debounce, alert, append. A dead feed or a failing sink degrades the
// cycle, never aborts it.
func (a *Agent) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := time.Now()
	metrics := CycleMetrics{}

	raw, err := a.feed.Fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("Warning: feed fetch failed after retries: %v", err)
		monitoring.FetchFailures.Inc()
		metrics.FeedFailed = true
		if events != nil && events.OnPartialFailure != nil {
			events.OnPartialFailure(fmt.Errorf("feed fetch failed: %w", err), time.Since(startTime))
		}
		raw = nil
	}
	metrics.Fetched = len(raw)

	observations := make([]*models.Observation, 0, len(raw))
	for _, rec := range raw {
		obs, err := normalize(rec)
		if err != nil {
			continue // malformed records never abort the batch
		}
		observations = append(observations, obs)
	}
	metrics.Normalized = len(observations)

	if len(a.polygons) > 0 {
		inRegion := observations[:0]
		for _, obs := range observations {
			if ContainsAny(obs.Lat, obs.Lon, a.polygons) {
				inRegion = append(inRegion, obs)
			}
		}
		observations = inRegion
	}
	metrics.InRegion = len(observations)

	now := time.Now()
	firstSeen := now.UTC().Format("2006-01-02 15:04:05 UTC")
	var rows []models.EventRecord
	for _, obs := range observations {
		if !a.debouncer.ShouldAlert(obs.Hex, now) {
			continue
		}
		rows = append(rows, models.NewEventRecord(obs, firstSeen))
		log.Printf("ALERT:\n%s", models.AlertMessage(obs))
		monitoring.AlertsEmitted.Inc()
		metrics.Alerts++
	}

	if len(rows) > 0 {
		if err := a.sink.Append(rows); err != nil {
			// Data for this cycle may be lost; accepted.
			log.Printf("Warning: CSV append failed: %v", err)
			if events != nil && events.OnPartialFailure != nil {
				events.OnPartialFailure(fmt.Errorf("CSV append failed: %w", err), time.Since(startTime))
			}
		}
	}

	monitoring.PollCycles.Inc()
	if events != nil && events.OnSuccess != nil {
		events.OnSuccess(metrics, time.Since(startTime))
	}

	log.Printf("Cycle complete: %s", metrics.GetSummary())
	return nil
}

// Run executes poll cycles on the configured interval until the context
// is cancelled. The sleep compensates for time spent in-cycle; when a
// cycle overruns the interval, the loop still sleeps at least one second
// to avoid tight-looping.
func (a *Agent) Run(ctx context.Context, events *scheduler.AgentEvents) error {
	interval := time.Duration(a.config.Poll.IntervalSeconds) * time.Second
	log.Printf("%s started: interval=%s cooldown=%ds polygons=%d",
		a.Name(), interval, a.config.Poll.CooldownSeconds, len(a.polygons))

	for {
		cycleStart := time.Now()
		if err := a.RunOnce(ctx, events); err != nil {
			if ctx.Err() != nil {
				log.Printf("%s stopping: %v", a.Name(), ctx.Err())
				return ctx.Err()
			}
			log.Printf("Error running poll cycle: %v", err)
		}

		sleep := interval - time.Since(cycleStart)
		if sleep < time.Second {
			sleep = time.Second
		}
		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Printf("%s stopping: %v", a.Name(), ctx.Err())
			return ctx.Err()
		case <-timer.C:
		}
	}
}
