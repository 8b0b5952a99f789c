package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dylanlee20/job-resume-builder/internal/core/domain"
)

type resumeRepoFake struct {
	mu      sync.Mutex
	resumes map[string]domain.Resume
	updated []domain.ResumeStatus
}

func newResumeRepoFake(resumes ...domain.Resume) *resumeRepoFake {
	f := &resumeRepoFake{resumes: map[string]domain.Resume{}}
	for _, r := range resumes {
		f.resumes[r.ID] = r
	}
	return f
}

func (f *resumeRepoFake) Create(_ context.Context, resume *domain.Resume) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resumes[resume.ID] = *resume
	return nil
}

func (f *resumeRepoFake) GetByID(_ context.Context, id string) (*domain.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	resume, ok := f.resumes[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "get resume", errors.New(id))
	}
	copyResume := resume
	return &copyResume, nil
}

func (f *resumeRepoFake) SaveExtractedText(_ context.Context, id, text string, parsedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	resume := f.resumes[id]
	resume.ExtractedText = text
	resume.Status = domain.ResumeStatusParsed
	resume.ParsedAt = &parsedAt
	f.resumes[id] = resume
	return nil
}

func (f *resumeRepoFake) UpdateStatus(_ context.Context, id string, status domain.ResumeStatus, errMessage string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	resume := f.resumes[id]
	resume.Status = status
	resume.Error = errMessage
	f.resumes[id] = resume
	f.updated = append(f.updated, status)
	return nil
}

// assessmentRepoFake reproduces the reservation semantics: count-and-insert
// is a single locked step, finalize flips pending to final exactly once.
type assessmentRepoFake struct {
	mu   sync.Mutex
	rows map[string]*domain.AssessmentResult
}

func newAssessmentRepoFake() *assessmentRepoFake {
	return &assessmentRepoFake{rows: map[string]*domain.AssessmentResult{}}
}

func (f *assessmentRepoFake) Reserve(_ context.Context, resumeID, ownerID string, tier domain.Tier, now time.Time, limit int) (*domain.AssessmentResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if tier != domain.TierPremium {
		dayStart := domain.StartOfUTCDay(now)
		count := 0
		for _, row := range f.rows {
			if row.OwnerID == ownerID && !row.CreatedAt.Before(dayStart) {
				count++
			}
		}
		if count >= limit {
			return nil, &domain.QuotaExceededError{OwnerID: ownerID, Limit: limit, ResetAt: domain.NextUTCMidnight(now)}
		}
	}

	row := &domain.AssessmentResult{
		ID:        uuid.NewString(),
		ResumeID:  resumeID,
		OwnerID:   ownerID,
		Status:    domain.AssessmentStatusPending,
		Tier:      tier,
		CreatedAt: now,
	}
	f.rows[row.ID] = row
	return row, nil
}

func (f *assessmentRepoFake) Finalize(_ context.Context, reservationID string, content domain.AssessmentContent, finalizedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[reservationID]
	if !ok {
		return domain.WrapError(domain.ErrNotFound, "finalize", errors.New(reservationID))
	}
	if row.Status != domain.AssessmentStatusPending {
		return domain.ErrReservationFinalized
	}
	row.Status = domain.AssessmentStatusFinal
	row.Score = content.Score
	row.Strengths = content.Strengths
	row.Weaknesses = content.Weaknesses
	row.IndustryCompatibility = content.IndustryCompatibility
	row.Degraded = content.Degraded
	row.Model = content.Model
	row.FinalizedAt = &finalizedAt
	return nil
}

func (f *assessmentRepoFake) ListByResume(_ context.Context, resumeID, ownerID string) ([]domain.AssessmentResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.AssessmentResult{}
	for _, row := range f.rows {
		if row.ResumeID == resumeID && row.OwnerID == ownerID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *assessmentRepoFake) countRows() (total, finalized int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		total++
		if row.Status == domain.AssessmentStatusFinal {
			finalized++
		}
	}
	return total, finalized
}

type assessorFake struct {
	mu      sync.Mutex
	calls   int
	replies []assessorReply
}

type assessorReply struct {
	payload domain.AssessmentPayload
	err     error
}

func (f *assessorFake) Assess(context.Context, string) (domain.AssessmentPayload, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reply := f.replies[len(f.replies)-1]
	if f.calls < len(f.replies) {
		reply = f.replies[f.calls]
	}
	f.calls++
	return reply.payload, "test-model", reply.err
}

func validPayload() domain.AssessmentPayload {
	return domain.AssessmentPayload{
		OverallScore: 72,
		Strengths:    []string{"Deal experience", "Strong modeling", "Clear progression"},
		Weaknesses:   []string{"No buy-side exposure", "Short tenures", "Thin leadership record"},
		IndustryCompatibility: map[string]int{
			"Investment Banking":   80,
			"Sales & Trading":      55,
			"Portfolio Management": 60,
			"Risk Management":      50,
			"M&A Advisory":         75,
		},
	}
}

func parsedResume(owner string) domain.Resume {
	return domain.Resume{
		ID:            "r-1",
		OwnerID:       owner,
		Status:        domain.ResumeStatusParsed,
		ExtractedText: "ten years of leveraged finance execution across EMEA sponsors",
	}
}

func newAssessUC(resumes *resumeRepoFake, assessments *assessmentRepoFake, assessor *assessorFake) *AssessResumeUseCase {
	return NewAssessResumeUseCase(resumes, assessments, assessor, 3, time.Second)
}

func TestAssessHappyPath(t *testing.T) {
	resumes := newResumeRepoFake(parsedResume("u-1"))
	assessments := newAssessmentRepoFake()
	assessor := &assessorFake{replies: []assessorReply{{payload: validPayload()}}}
	uc := newAssessUC(resumes, assessments, assessor)

	result, err := uc.Assess(context.Background(), "r-1", "u-1", domain.TierFree)
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}
	if result.Score != 72 || result.Degraded {
		t.Fatalf("unexpected result: score=%d degraded=%v", result.Score, result.Degraded)
	}
	if result.Status != domain.AssessmentStatusFinal || result.FinalizedAt == nil {
		t.Fatalf("expected finalized result, got %+v", result)
	}
	if total, finalized := assessments.countRows(); total != 1 || finalized != 1 {
		t.Fatalf("expected exactly one finalized row, got total=%d finalized=%d", total, finalized)
	}
}

func TestAssessMalformedThenValidRetriesOnce(t *testing.T) {
	resumes := newResumeRepoFake(parsedResume("u-1"))
	assessments := newAssessmentRepoFake()
	assessor := &assessorFake{replies: []assessorReply{
		{err: domain.WrapError(domain.ErrMalformedResponse, "parse", errors.New("not json"))},
		{payload: validPayload()},
	}}
	uc := newAssessUC(resumes, assessments, assessor)

	result, err := uc.Assess(context.Background(), "r-1", "u-1", domain.TierFree)
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}
	if result.Degraded {
		t.Fatalf("retry should have recovered, got degraded result")
	}
	if assessor.calls != 2 {
		t.Fatalf("expected 2 model calls, got %d", assessor.calls)
	}
}

func TestAssessMalformedTwiceFallsBack(t *testing.T) {
	resumes := newResumeRepoFake(parsedResume("u-1"))
	assessments := newAssessmentRepoFake()
	malformed := assessorReply{payload: domain.AssessmentPayload{OverallScore: 400}}
	assessor := &assessorFake{replies: []assessorReply{malformed, malformed}}
	uc := newAssessUC(resumes, assessments, assessor)

	result, err := uc.Assess(context.Background(), "r-1", "u-1", domain.TierFree)
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}
	if !result.Degraded || result.Score != 0 {
		t.Fatalf("expected fallback record, got %+v", result)
	}
	if assessor.calls != 2 {
		t.Fatalf("expected 2 model calls, got %d", assessor.calls)
	}
	if total, finalized := assessments.countRows(); total != 1 || finalized != 1 {
		t.Fatalf("fallback must still finalize exactly one row, got total=%d finalized=%d", total, finalized)
	}
}

func TestAssessUpstreamFailureFallsBackWithoutRetry(t *testing.T) {
	resumes := newResumeRepoFake(parsedResume("u-1"))
	assessments := newAssessmentRepoFake()
	assessor := &assessorFake{replies: []assessorReply{
		{err: domain.WrapError(domain.ErrTemporary, "assess", errors.New("upstream timeout"))},
	}}
	uc := newAssessUC(resumes, assessments, assessor)

	result, err := uc.Assess(context.Background(), "r-1", "u-1", domain.TierFree)
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}
	if !result.Degraded {
		t.Fatalf("expected degraded fallback")
	}
	if assessor.calls != 1 {
		t.Fatalf("temporary failures must not retry, got %d calls", assessor.calls)
	}
}

func TestAssessQuotaDeniedWritesNothing(t *testing.T) {
	resumes := newResumeRepoFake(parsedResume("u-1"))
	assessments := newAssessmentRepoFake()
	assessor := &assessorFake{replies: []assessorReply{{payload: validPayload()}}}
	uc := newAssessUC(resumes, assessments, assessor)

	for i := 0; i < 3; i++ {
		if _, err := uc.Assess(context.Background(), "r-1", "u-1", domain.TierFree); err != nil {
			t.Fatalf("assessment %d error = %v", i, err)
		}
	}

	_, err := uc.Assess(context.Background(), "r-1", "u-1", domain.TierFree)
	if !domain.IsKind(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected quota exceeded, got %v", err)
	}
	var quotaErr *domain.QuotaExceededError
	if !errors.As(err, &quotaErr) {
		t.Fatalf("expected *QuotaExceededError, got %T", err)
	}
	if !quotaErr.ResetAt.After(time.Now().UTC()) {
		t.Fatalf("reset time should be in the future, got %s", quotaErr.ResetAt)
	}
	if total, _ := assessments.countRows(); total != 3 {
		t.Fatalf("denied request must not write a row, got %d rows", total)
	}
}

func TestAssessPremiumTierIsUnlimited(t *testing.T) {
	resumes := newResumeRepoFake(parsedResume("u-1"))
	assessments := newAssessmentRepoFake()
	assessor := &assessorFake{replies: []assessorReply{{payload: validPayload()}}}
	uc := newAssessUC(resumes, assessments, assessor)

	for i := 0; i < 10; i++ {
		if _, err := uc.Assess(context.Background(), "r-1", "u-1", domain.TierPremium); err != nil {
			t.Fatalf("premium assessment %d error = %v", i, err)
		}
	}
	if total, finalized := assessments.countRows(); total != 10 || finalized != 10 {
		t.Fatalf("got total=%d finalized=%d", total, finalized)
	}
}

func TestAssessConcurrentFreeTierNeverExceedsLimit(t *testing.T) {
	resumes := newResumeRepoFake(parsedResume("u-1"))
	assessments := newAssessmentRepoFake()
	assessor := &assessorFake{replies: []assessorReply{{payload: validPayload()}}}
	uc := newAssessUC(resumes, assessments, assessor)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, errs[idx] = uc.Assess(context.Background(), "r-1", "u-1", domain.TierFree)
		}(i)
	}
	wg.Wait()

	succeeded, denied := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case domain.IsKind(err, domain.ErrQuotaExceeded):
			denied++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 3 || denied != attempts-3 {
		t.Fatalf("got %d succeeded / %d denied, want 3 / %d", succeeded, denied, attempts-3)
	}
	if total, finalized := assessments.countRows(); total != 3 || finalized != 3 {
		t.Fatalf("limit is 3 rows, got total=%d finalized=%d", total, finalized)
	}
}

func TestAssessRejectsUnparsedResume(t *testing.T) {
	resume := parsedResume("u-1")
	resume.Status = domain.ResumeStatusUploaded
	resumes := newResumeRepoFake(resume)
	uc := newAssessUC(resumes, newAssessmentRepoFake(), &assessorFake{replies: []assessorReply{{payload: validPayload()}}})

	_, err := uc.Assess(context.Background(), "r-1", "u-1", domain.TierFree)
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestAssessHidesForeignResumes(t *testing.T) {
	resumes := newResumeRepoFake(parsedResume("u-1"))
	uc := newAssessUC(resumes, newAssessmentRepoFake(), &assessorFake{replies: []assessorReply{{payload: validPayload()}}})

	_, err := uc.Assess(context.Background(), "r-1", "u-2", domain.TierFree)
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for foreign owner, got %v", err)
	}
}
