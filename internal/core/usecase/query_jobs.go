package usecase

import (
	"context"
	"fmt"

	"github.com/dylanlee20/job-resume-builder/internal/core/domain"
	"github.com/dylanlee20/job-resume-builder/internal/core/ports"
)

const defaultListLimit = 50

type JobQueryUseCase struct {
	repo     ports.JobRepository
	exporter ports.JobExporter
}

func NewJobQueryUseCase(repo ports.JobRepository, exporter ports.JobExporter) *JobQueryUseCase {
	return &JobQueryUseCase{
		repo:     repo,
		exporter: exporter,
	}
}

// List returns postings for the filter. IncludeExcluded is only ever set by
// the adapter after the admin check passed; everyone else sees admitted rows.
func (uc *JobQueryUseCase) List(ctx context.Context, filter domain.JobFilter) ([]domain.JobPosting, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	jobs, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

func (uc *JobQueryUseCase) ExportWorkbook(ctx context.Context, filter domain.JobFilter) ([]byte, error) {
	filter.Limit = 0 // export is unpaginated
	jobs, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list jobs for export: %w", err)
	}
	book, err := uc.exporter.Export(ctx, jobs)
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	return book, nil
}
