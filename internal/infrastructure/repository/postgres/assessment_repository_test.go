package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dylanlee20/job-resume-builder/internal/core/domain"
)

func TestAssessmentRepositoryReserveDeniedAtLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").
		WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("COUNT\\(\\*\\) FROM resume_assessments").
		WithArgs("u-1", domain.StartOfUTCDay(now), domain.StartOfUTCDay(now).AddDate(0, 0, 1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectRollback()

	repo := NewAssessmentRepository(db)
	_, err = repo.Reserve(context.Background(), "r-1", "u-1", domain.TierFree, now, 3)

	var quotaErr *domain.QuotaExceededError
	if !errors.As(err, &quotaErr) {
		t.Fatalf("expected QuotaExceededError, got %v", err)
	}
	if quotaErr.Limit != 3 {
		t.Fatalf("expected limit 3, got %d", quotaErr.Limit)
	}
	want := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	if !quotaErr.ResetAt.Equal(want) {
		t.Fatalf("reset at %s, want %s", quotaErr.ResetAt, want)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAssessmentRepositoryReserveInsertsPendingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").
		WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("COUNT\\(\\*\\) FROM resume_assessments").
		WithArgs("u-1", domain.StartOfUTCDay(now), domain.StartOfUTCDay(now).AddDate(0, 0, 1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec("INSERT INTO resume_assessments").
		WithArgs(sqlmock.AnyArg(), "r-1", "u-1", string(domain.AssessmentStatusPending), string(domain.TierFree), now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewAssessmentRepository(db)
	reservation, err := repo.Reserve(context.Background(), "r-1", "u-1", domain.TierFree, now, 3)
	if err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	if reservation.Status != domain.AssessmentStatusPending {
		t.Fatalf("expected pending reservation, got %s", reservation.Status)
	}
	if reservation.ID == "" {
		t.Fatalf("reservation must carry an id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAssessmentRepositoryReservePremiumSkipsCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").
		WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO resume_assessments").
		WithArgs(sqlmock.AnyArg(), "r-1", "u-1", string(domain.AssessmentStatusPending), string(domain.TierPremium), now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewAssessmentRepository(db)
	if _, err := repo.Reserve(context.Background(), "r-1", "u-1", domain.TierPremium, now, 3); err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAssessmentRepositoryFinalizeTwiceFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE resume_assessments").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewAssessmentRepository(db)
	err = repo.Finalize(context.Background(), "a-1", domain.FallbackAssessment(), time.Now())
	if !errors.Is(err, domain.ErrReservationFinalized) {
		t.Fatalf("expected ErrReservationFinalized, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAssessmentRepositoryListByResumeDecodesJSON(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	created := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "resume_id", "owner_id", "status", "score", "strengths", "weaknesses",
		"industry_compatibility", "degraded", "tier", "model", "created_at", "finalized_at",
	}).AddRow(
		"a-1", "r-1", "u-1", string(domain.AssessmentStatusFinal), 72,
		[]byte(`["one","two","three"]`), []byte(`["x","y","z"]`),
		[]byte(`{"Investment Banking":72,"Sales & Trading":60,"Portfolio Management":50,"Risk Management":40,"M&A Advisory":30}`),
		false, string(domain.TierFree), "gpt-4o-mini", created, created.Add(time.Second),
	)

	mock.ExpectQuery("FROM resume_assessments").
		WithArgs("r-1", "u-1").
		WillReturnRows(rows)

	repo := NewAssessmentRepository(db)
	results, err := repo.ListByResume(context.Background(), "r-1", "u-1")
	if err != nil {
		t.Fatalf("ListByResume() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Score != 72 || len(results[0].Strengths) != 3 {
		t.Fatalf("unexpected result: %+v", results[0])
	}
	if results[0].IndustryCompatibility["Sales & Trading"] != 60 {
		t.Fatalf("unexpected compatibility map: %v", results[0].IndustryCompatibility)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
