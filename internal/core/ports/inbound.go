package ports

import (
	"context"
	"io"

	"github.com/dylanlee20/job-resume-builder/internal/core/domain"
)

// JobIngestor is the inbound contract for the poll/classify/upsert pipeline.
type JobIngestor interface {
	Ingest(ctx context.Context, jobs []domain.ScrapedJob) (IngestStats, error)
}

// IngestStats summarizes one ingestion run.
type IngestStats struct {
	Received  int
	Created   int
	Refreshed int
	Skipped   int
}

// ResumeUploader is the inbound contract for resume upload orchestration.
type ResumeUploader interface {
	Upload(ctx context.Context, ownerID, filename, mimeType string, size int64, body io.Reader) (*domain.Resume, error)
}

// ResumeParser is the inbound contract for asynchronous text extraction.
type ResumeParser interface {
	ParseByID(ctx context.Context, resumeID string) error
}

// ResumeAssessmentService runs the quota-gated assessment pipeline.
type ResumeAssessmentService interface {
	Assess(ctx context.Context, resumeID, ownerID string, tier domain.Tier) (*domain.AssessmentResult, error)
	History(ctx context.Context, resumeID, ownerID string) ([]domain.AssessmentResult, error)
}

// JobQueryService is the inbound read model for postings.
type JobQueryService interface {
	List(ctx context.Context, filter domain.JobFilter) ([]domain.JobPosting, error)
	ExportWorkbook(ctx context.Context, filter domain.JobFilter) ([]byte, error)
}
