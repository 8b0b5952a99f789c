package ports

import (
	"context"
	"io"
	"time"

	"github.com/dylanlee20/job-resume-builder/internal/core/domain"
)

// JobRepository persists classified job postings.
type JobRepository interface {
	Upsert(ctx context.Context, job *domain.JobPosting) (created bool, err error)
	GetByID(ctx context.Context, id string) (*domain.JobPosting, error)
	List(ctx context.Context, filter domain.JobFilter) ([]domain.JobPosting, error)
}

// ResumeRepository persists uploaded resume records.
type ResumeRepository interface {
	Create(ctx context.Context, resume *domain.Resume) error
	GetByID(ctx context.Context, id string) (*domain.Resume, error)
	SaveExtractedText(ctx context.Context, id, text string, parsedAt time.Time) error
	UpdateStatus(ctx context.Context, id string, status domain.ResumeStatus, errMessage string) error
}

// AssessmentRepository owns the append-only assessment rows and the daily
// quota accounting derived from them.
type AssessmentRepository interface {
	// Reserve atomically counts the owner's rows for the current UTC day
	// and inserts a pending row when under the tier limit. Free-tier
	// owners at or over the limit get a *domain.QuotaExceededError and no
	// row is written.
	Reserve(ctx context.Context, resumeID, ownerID string, tier domain.Tier, now time.Time, limit int) (*domain.AssessmentResult, error)
	// Finalize writes the validated (or fallback) content into a pending
	// row exactly once.
	Finalize(ctx context.Context, reservationID string, content domain.AssessmentContent, finalizedAt time.Time) error
	ListByResume(ctx context.Context, resumeID, ownerID string) ([]domain.AssessmentResult, error)
}

// ObjectStorage stores uploaded resume files.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes resume parse events.
type MessageQueue interface {
	PublishResumeUploaded(ctx context.Context, resumeID string) error
	SubscribeResumeUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored resume file.
type TextExtractor interface {
	Extract(ctx context.Context, resume *domain.Resume) (string, error)
}

// ResumeAssessor sends resume text to the external model and returns the raw
// payload plus the model name. Errors carry malformed vs temporary kinds.
type ResumeAssessor interface {
	Assess(ctx context.Context, resumeText string) (domain.AssessmentPayload, string, error)
}

// JobFeed fetches raw postings from one configured upstream source.
type JobFeed interface {
	Fetch(ctx context.Context, sourceURL string) ([]domain.ScrapedJob, error)
}

// SeenCache remembers job hashes across poll runs so unchanged postings can
// skip the repository round-trip. A broken cache degrades to upserting every
// posting; it is never a correctness dependency.
type SeenCache interface {
	Seen(ctx context.Context, jobHash string) (bool, error)
	MarkSeen(ctx context.Context, jobHash string, ttl time.Duration) error
}

// JobExporter renders postings into a downloadable workbook.
type JobExporter interface {
	Export(ctx context.Context, jobs []domain.JobPosting) ([]byte, error)
}
