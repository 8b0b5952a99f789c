package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dylanlee20/job-resume-builder/internal/core/domain"
	"github.com/dylanlee20/job-resume-builder/internal/core/ports"
)

type AssessResumeUseCase struct {
	resumes     ports.ResumeRepository
	assessments ports.AssessmentRepository
	assessor    ports.ResumeAssessor

	dailyLimit  int
	callTimeout time.Duration

	now func() time.Time
}

func NewAssessResumeUseCase(
	resumes ports.ResumeRepository,
	assessments ports.AssessmentRepository,
	assessor ports.ResumeAssessor,
	dailyLimit int,
	callTimeout time.Duration,
) *AssessResumeUseCase {
	return &AssessResumeUseCase{
		resumes:     resumes,
		assessments: assessments,
		assessor:    assessor,
		dailyLimit:  dailyLimit,
		callTimeout: callTimeout,
		now:         time.Now,
	}
}

// Assess runs the quota-gated pipeline: reserve a daily slot, call the model
// with a bounded timeout, validate, and finalize the reserved row exactly
// once. The reservation commits before the model call starts, so no database
// lock is held across the network; a failed call finalizes the same row with
// the deterministic fallback instead of evaporating.
func (uc *AssessResumeUseCase) Assess(ctx context.Context, resumeID, ownerID string, tier domain.Tier) (*domain.AssessmentResult, error) {
	resume, err := uc.loadOwned(ctx, resumeID, ownerID)
	if err != nil {
		return nil, err
	}
	if resume.Status != domain.ResumeStatusParsed && resume.Status != domain.ResumeStatusAssessed {
		return nil, domain.WrapError(domain.ErrInvalidInput, "assess resume",
			fmt.Errorf("resume status is %s, want parsed", resume.Status))
	}

	reservation, err := uc.assessments.Reserve(ctx, resumeID, ownerID, tier, uc.now().UTC(), uc.dailyLimit)
	if err != nil {
		return nil, fmt.Errorf("reserve assessment slot: %w", err)
	}

	content := uc.requestAssessment(ctx, resume.ExtractedText)

	finalizedAt := uc.now().UTC()
	if err := uc.assessments.Finalize(ctx, reservation.ID, content, finalizedAt); err != nil {
		return nil, fmt.Errorf("finalize assessment: %w", err)
	}

	// Best effort: a status update failure must not lose the finalized result.
	_ = uc.resumes.UpdateStatus(ctx, resumeID, domain.ResumeStatusAssessed, "")

	result := *reservation
	result.Status = domain.AssessmentStatusFinal
	result.Score = content.Score
	result.Strengths = content.Strengths
	result.Weaknesses = content.Weaknesses
	result.IndustryCompatibility = content.IndustryCompatibility
	result.Degraded = content.Degraded
	result.Model = content.Model
	result.FinalizedAt = &finalizedAt
	return &result, nil
}

// requestAssessment applies the retry/fallback policy: malformed output gets
// one retry, upstream failures fall back immediately, and the result is
// always usable content.
func (uc *AssessResumeUseCase) requestAssessment(ctx context.Context, resumeText string) domain.AssessmentContent {
	content, err := uc.callOnce(ctx, resumeText)
	if err == nil {
		return content
	}
	if !domain.IsKind(err, domain.ErrMalformedResponse) {
		return domain.FallbackAssessment()
	}

	content, err = uc.callOnce(ctx, resumeText)
	if err != nil {
		return domain.FallbackAssessment()
	}
	return content
}

func (uc *AssessResumeUseCase) callOnce(ctx context.Context, resumeText string) (domain.AssessmentContent, error) {
	callCtx, cancel := context.WithTimeout(ctx, uc.callTimeout)
	defer cancel()

	payload, model, err := uc.assessor.Assess(callCtx, resumeText)
	if err != nil {
		return domain.AssessmentContent{}, err
	}
	return payload.Validate(model)
}

func (uc *AssessResumeUseCase) History(ctx context.Context, resumeID, ownerID string) ([]domain.AssessmentResult, error) {
	if _, err := uc.loadOwned(ctx, resumeID, ownerID); err != nil {
		return nil, err
	}
	results, err := uc.assessments.ListByResume(ctx, resumeID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	return results, nil
}

func (uc *AssessResumeUseCase) loadOwned(ctx context.Context, resumeID, ownerID string) (*domain.Resume, error) {
	resume, err := uc.resumes.GetByID(ctx, resumeID)
	if err != nil {
		return nil, fmt.Errorf("fetch resume by id: %w", err)
	}
	if resume.OwnerID != ownerID {
		// Hide other owners' records entirely.
		return nil, domain.WrapError(domain.ErrNotFound, "fetch resume by id",
			fmt.Errorf("resume %s does not belong to owner", resumeID))
	}
	return resume, nil
}
