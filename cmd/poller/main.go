package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dylanlee20/job-resume-builder/internal/bootstrap"
	"github.com/dylanlee20/job-resume-builder/internal/config"
	"github.com/dylanlee20/job-resume-builder/internal/observability/logging"
	"github.com/dylanlee20/job-resume-builder/internal/observability/metrics"
	"github.com/dylanlee20/job-resume-builder/internal/scheduler"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("poller", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if len(cfg.FeedURLs) == 0 {
		slog.Warn("no_feed_urls_configured")
	}

	pollerMetrics := metrics.NewWorkerMetrics("poller")
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", pollerMetrics.Handler())
		slog.Info("poller_metrics_listening", "port", cfg.PollerMetricsPort)
		if err := http.ListenAndServe(":"+cfg.PollerMetricsPort, mux); err != nil {
			slog.Error("poller_metrics_server_failed", "error", err)
		}
	}()

	sched := scheduler.New(app.Feed, app.IngestUC, pollerMetrics, cfg.FeedURLs, cfg.ScrapeIntervalHours)
	if err := sched.Start(ctx); err != nil {
		slog.Error("scheduler_start_failed", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	sched.Stop()
}
