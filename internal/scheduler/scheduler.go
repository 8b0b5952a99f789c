// Package scheduler wires the cron job that periodically polls all
// configured job feeds and ingests their postings.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/dylanlee20/job-resume-builder/internal/core/ports"
	"github.com/dylanlee20/job-resume-builder/internal/observability/metrics"
)

type Scheduler struct {
	cron     *cron.Cron
	feed     ports.JobFeed
	ingestor ports.JobIngestor
	metrics  *metrics.WorkerMetrics
	feedURLs []string
	spec     string
}

// New creates a Scheduler that polls every intervalHours hours.
func New(feed ports.JobFeed, ingestor ports.JobIngestor, pollMetrics *metrics.WorkerMetrics, feedURLs []string, intervalHours int) *Scheduler {
	if intervalHours <= 0 {
		intervalHours = 6
	}
	return &Scheduler{
		cron:     cron.New(),
		feed:     feed,
		ingestor: ingestor,
		metrics:  pollMetrics,
		feedURLs: feedURLs,
		spec:     fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the poll job and starts the cron loop. One poll runs
// immediately so a fresh deployment has postings without waiting for the
// first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runPoll(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron add func: %w", err)
	}

	s.cron.Start()
	slog.Info("scheduler_started", "spec", s.spec, "feeds", len(s.feedURLs))

	go s.runPoll(ctx)
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("scheduler_stopped")
}

// runPoll fetches every configured feed. A broken feed is logged and
// skipped; the remaining feeds still ingest.
func (s *Scheduler) runPoll(ctx context.Context) {
	slog.Info("poll_cycle_started")

	for _, feedURL := range s.feedURLs {
		scraped, err := s.feed.Fetch(ctx, feedURL)
		if err != nil {
			slog.Error("feed_fetch_failed", "feed", feedURL, "error", err)
			s.recordFetch("error")
			continue
		}
		s.recordFetch("ok")
		stats, err := s.ingestor.Ingest(ctx, scraped)
		if err != nil {
			slog.Error("feed_ingest_failed", "feed", feedURL, "error", err)
			continue
		}
		if s.metrics != nil {
			s.metrics.RecordIngested("poller", "created", stats.Created)
			s.metrics.RecordIngested("poller", "refreshed", stats.Refreshed)
			s.metrics.RecordIngested("poller", "skipped", stats.Skipped)
		}
		slog.Info("feed_ingested",
			"feed", feedURL,
			"received", stats.Received,
			"created", stats.Created,
			"refreshed", stats.Refreshed,
			"skipped", stats.Skipped,
		)
	}

	slog.Info("poll_cycle_complete")
}

func (s *Scheduler) recordFetch(status string) {
	if s.metrics != nil {
		s.metrics.RecordFeedFetch("poller", status)
	}
}
