package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters shared by the watcher and report agents, exposed on the
// health server's /metrics endpoint.
var (
	PollCycles = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "milwatch",
		Name:      "poll_cycles_total",
		Help:      "Completed poll cycles",
	})
	FetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "milwatch",
		Name:      "fetch_failures_total",
		Help:      "Feed fetches that exhausted all retries",
	})
	AlertsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "milwatch",
		Name:      "alerts_total",
		Help:      "Alerts emitted after geofence and cooldown checks",
	})
	EventsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "milwatch",
		Name:      "events_ingested_total",
		Help:      "New rows inserted into the event store",
	})
	ReportsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "milwatch",
		Name:      "reports_published_total",
		Help:      "Reports rendered and published",
	})
)
