package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dylanlee20/job-resume-builder/internal/core/domain"
	"github.com/dylanlee20/job-resume-builder/internal/core/ports"
)

// minResumeTextLen guards against extractions that technically succeed but
// produce unusable fragments.
const minResumeTextLen = 50

type ParseResumeUseCase struct {
	repo      ports.ResumeRepository
	extractor ports.TextExtractor
}

func NewParseResumeUseCase(repo ports.ResumeRepository, extractor ports.TextExtractor) *ParseResumeUseCase {
	return &ParseResumeUseCase{
		repo:      repo,
		extractor: extractor,
	}
}

// ParseByID extracts text from a stored resume and moves it uploaded →
// parsed, or to error with a message. The record never stays transient: any
// failure lands in the error status.
func (uc *ParseResumeUseCase) ParseByID(ctx context.Context, resumeID string) error {
	resume, err := uc.repo.GetByID(ctx, resumeID)
	if err != nil {
		return fmt.Errorf("fetch resume by id: %w", err)
	}
	if resume.Status != domain.ResumeStatusUploaded {
		// Re-delivered event for an already-parsed record.
		return nil
	}

	text, err := uc.extract(ctx, resume)
	if err != nil {
		if failErr := uc.repo.UpdateStatus(ctx, resumeID, domain.ResumeStatusError, err.Error()); failErr != nil {
			return fmt.Errorf("%w; mark error status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.SaveExtractedText(ctx, resumeID, text, time.Now().UTC()); err != nil {
		return fmt.Errorf("save extracted text: %w", err)
	}
	return nil
}

func (uc *ParseResumeUseCase) extract(ctx context.Context, resume *domain.Resume) (string, error) {
	text, err := uc.extractor.Extract(ctx, resume)
	if err != nil {
		return "", fmt.Errorf("extract resume text: %w", err)
	}
	if len(text) < minResumeTextLen {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract resume text",
			errors.New("extracted text too short to assess"))
	}
	return text, nil
}
