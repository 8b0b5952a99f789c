package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dylanlee20/job-resume-builder/internal/config"
	"github.com/dylanlee20/job-resume-builder/internal/core/classify"
	"github.com/dylanlee20/job-resume-builder/internal/core/ports"
	"github.com/dylanlee20/job-resume-builder/internal/core/usecase"
	rediscache "github.com/dylanlee20/job-resume-builder/internal/infrastructure/cache/redis"
	"github.com/dylanlee20/job-resume-builder/internal/infrastructure/export/excel"
	"github.com/dylanlee20/job-resume-builder/internal/infrastructure/extractor/resumetext"
	"github.com/dylanlee20/job-resume-builder/internal/infrastructure/feed/httpjson"
	"github.com/dylanlee20/job-resume-builder/internal/infrastructure/llm/openai"
	"github.com/dylanlee20/job-resume-builder/internal/infrastructure/queue/nats"
	"github.com/dylanlee20/job-resume-builder/internal/infrastructure/repository/postgres"
	"github.com/dylanlee20/job-resume-builder/internal/infrastructure/resilience"
	"github.com/dylanlee20/job-resume-builder/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Queue   ports.MessageQueue
	Resumes ports.ResumeRepository
	Feed    ports.JobFeed

	UploadUC   ports.ResumeUploader
	ParseUC    ports.ResumeParser
	AssessUC   ports.ResumeAssessmentService
	JobQueryUC ports.JobQueryService
	IngestUC   ports.JobIngestor

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	jobRepo := postgres.NewJobRepository(db)
	resumeRepo := postgres.NewResumeRepository(db)
	assessmentRepo := postgres.NewAssessmentRepository(db)

	maxUpload := int64(cfg.UploadMaxSizeMB) * 1024 * 1024
	storage, err := localfs.New(cfg.StoragePath, maxUpload)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	// Redis is an optimization, not a dependency. Without it every poll
	// cycle upserts every posting.
	var seenCache ports.SeenCache
	if client, err := rediscache.NewClient(ctx, cfg.RedisURL); err != nil {
		slog.Warn("redis_unavailable", "error", err)
	} else {
		seenCache = rediscache.NewSeenCache(client)
	}

	classifier := classify.Default()
	if cfg.RulesFile != "" {
		rules, err := classify.LoadRules(cfg.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("load classifier rules: %w", err)
		}
		classifier = classify.New(rules)
	}

	assessor := openai.New(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, executor)
	extractor := resumetext.NewExtractor(storage)
	exporter := excel.NewExporter()
	feed := httpjson.NewFetcher(cfg.FeedRequestsPerSec)

	seenTTL := time.Duration(cfg.SeenCacheTTLHours) * time.Hour
	callTimeout := time.Duration(cfg.AssessTimeoutSeconds) * time.Second

	return &App{
		Config:  cfg,
		Queue:   queue,
		Resumes: resumeRepo,
		Feed:    feed,

		UploadUC:   usecase.NewUploadResumeUseCase(resumeRepo, storage, queue),
		ParseUC:    usecase.NewParseResumeUseCase(resumeRepo, extractor),
		AssessUC:   usecase.NewAssessResumeUseCase(resumeRepo, assessmentRepo, assessor, cfg.FreeTierDailyAssessments, callTimeout),
		JobQueryUC: usecase.NewJobQueryUseCase(jobRepo, exporter),
		IngestUC:   usecase.NewIngestJobsUseCase(jobRepo, seenCache, classifier, seenTTL),

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
