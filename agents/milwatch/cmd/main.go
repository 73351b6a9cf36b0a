package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	milwatch "milwatch/agents/milwatch"
	"milwatch/shared/config"
	"milwatch/shared/monitoring"
	"milwatch/shared/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.ValidateWatcher(); err != nil {
		log.Fatalf("Failed to validate watcher configuration: %v", err)
	}

	// Create context that responds to signals; cancellation lands
	// between cycles, never mid-cycle.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	agent := milwatch.New(cfg)
	if err := agent.Initialize(); err != nil {
		log.Fatalf("Failed to initialize agent: %v", err)
	}

	if len(os.Args) > 1 && os.Args[1] == "--once" {
		fmt.Println("Running one poll cycle...")
		if err := agent.RunOnce(ctx, nil); err != nil {
			log.Fatalf("Failed to run: %v", err)
		}
		return
	}

	monitor := monitoring.NewMonitor()
	healthServer := monitoring.NewHealthServer(monitor, fmt.Sprintf("%d", cfg.Monitoring.HealthPort))
	healthServer.Start()

	events := &scheduler.AgentEvents{
		OnSuccess: func(metrics scheduler.Metrics, duration time.Duration) {
			monitor.RecordSuccess(metrics.GetSummary(), duration)
		},
		OnPartialFailure: func(err error, duration time.Duration) {
			monitor.RecordPartialFailure(err, duration)
		},
		OnCriticalFailure: func(err error, duration time.Duration) {
			monitor.RecordCriticalFailure(err, duration)
		},
	}

	fmt.Println("Starting poll loop...")
	if err := agent.Run(ctx, events); err != nil && ctx.Err() == nil {
		log.Fatalf("Poll loop failed: %v", err)
	}
}
