package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dylanlee20/job-resume-builder/internal/core/classify"
	"github.com/dylanlee20/job-resume-builder/internal/core/domain"
	"github.com/dylanlee20/job-resume-builder/internal/core/ports"
)

type IngestJobsUseCase struct {
	repo       ports.JobRepository
	cache      ports.SeenCache
	classifier *classify.Classifier
	seenTTL    time.Duration

	now func() time.Time
}

func NewIngestJobsUseCase(
	repo ports.JobRepository,
	cache ports.SeenCache,
	classifier *classify.Classifier,
	seenTTL time.Duration,
) *IngestJobsUseCase {
	return &IngestJobsUseCase{
		repo:       repo,
		cache:      cache,
		classifier: classifier,
		seenTTL:    seenTTL,
		now:        time.Now,
	}
}

// Ingest classifies and upserts a batch of scraped postings. Category and
// admitted flag are derived once at ingestion; a posting seen again only
// refreshes last_seen.
func (uc *IngestJobsUseCase) Ingest(ctx context.Context, jobs []domain.ScrapedJob) (ports.IngestStats, error) {
	stats := ports.IngestStats{Received: len(jobs)}

	for _, raw := range jobs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if strings.TrimSpace(raw.Company) == "" || strings.TrimSpace(raw.Title) == "" {
			stats.Skipped++
			continue
		}

		hash := domain.JobHash(raw.Company, raw.Title, raw.Location)
		if uc.seenRecently(ctx, hash) {
			stats.Skipped++
			continue
		}

		created, err := uc.repo.Upsert(ctx, uc.buildPosting(raw, hash))
		if err != nil {
			return stats, fmt.Errorf("upsert job %s/%s: %w", raw.Company, raw.Title, err)
		}
		if created {
			stats.Created++
		} else {
			stats.Refreshed++
		}
		uc.markSeen(ctx, hash)
	}

	return stats, nil
}

func (uc *IngestJobsUseCase) buildPosting(raw domain.ScrapedJob, hash string) *domain.JobPosting {
	jobText := raw.Title + " " + raw.Description
	category, admitted := uc.classifier.Classify(jobText)
	now := uc.now().UTC()

	return &domain.JobPosting{
		ID:          uuid.NewString(),
		JobHash:     hash,
		Company:     strings.TrimSpace(raw.Company),
		Title:       strings.TrimSpace(raw.Title),
		Location:    strings.TrimSpace(raw.Location),
		Description: raw.Description,
		Category:    category,
		IsAdmitted:  admitted,
		JobType:     classify.JobType(jobText),
		Source:      raw.Source,
		URL:         raw.URL,
		FirstSeen:   now,
		LastSeen:    now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Cache failures degrade to extra upserts, never to lost postings.
func (uc *IngestJobsUseCase) seenRecently(ctx context.Context, hash string) bool {
	if uc.cache == nil {
		return false
	}
	seen, err := uc.cache.Seen(ctx, hash)
	return err == nil && seen
}

func (uc *IngestJobsUseCase) markSeen(ctx context.Context, hash string) {
	if uc.cache == nil {
		return
	}
	_ = uc.cache.MarkSeen(ctx, hash, uc.seenTTL)
}
