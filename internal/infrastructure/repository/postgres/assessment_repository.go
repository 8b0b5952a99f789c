package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dylanlee20/job-resume-builder/internal/core/domain"
)

type AssessmentRepository struct {
	db *sql.DB
}

func NewAssessmentRepository(db *sql.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// Reserve counts the owner's rows for the current UTC day and inserts a
// pending row when under the limit, all inside one transaction holding a
// per-owner advisory lock. Two concurrent calls for the same owner therefore
// serialize on the count; the quota cannot be oversubscribed. Pending rows
// count too, so a reservation whose model call is still in flight already
// occupies its slot.
func (r *AssessmentRepository) Reserve(ctx context.Context, resumeID, ownerID string, tier domain.Tier, now time.Time, limit int) (*domain.AssessmentResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin reserve tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, ownerID); err != nil {
		return nil, fmt.Errorf("acquire owner lock: %w", err)
	}

	now = now.UTC()
	if tier != domain.TierPremium {
		dayStart := domain.StartOfUTCDay(now)
		dayEnd := dayStart.AddDate(0, 0, 1)

		var used int
		err := tx.QueryRowContext(ctx, `
SELECT COUNT(*) FROM resume_assessments
WHERE owner_id = $1 AND created_at >= $2 AND created_at < $3
`, ownerID, dayStart, dayEnd).Scan(&used)
		if err != nil {
			return nil, fmt.Errorf("count daily assessments: %w", err)
		}
		if used >= limit {
			return nil, &domain.QuotaExceededError{
				OwnerID: ownerID,
				Limit:   limit,
				ResetAt: domain.NextUTCMidnight(now),
			}
		}
	}

	reservation := &domain.AssessmentResult{
		ID:        uuid.NewString(),
		ResumeID:  resumeID,
		OwnerID:   ownerID,
		Status:    domain.AssessmentStatusPending,
		Tier:      tier,
		CreatedAt: now,
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO resume_assessments (id, resume_id, owner_id, status, tier, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, reservation.ID, reservation.ResumeID, reservation.OwnerID,
		string(reservation.Status), string(reservation.Tier), reservation.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert pending assessment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit reserve tx: %w", err)
	}
	return reservation, nil
}

// Finalize writes content into a pending row. The status guard makes the
// write idempotent-safe: a second attempt affects zero rows and surfaces
// domain.ErrReservationFinalized instead of silently overwriting.
func (r *AssessmentRepository) Finalize(ctx context.Context, reservationID string, content domain.AssessmentContent, finalizedAt time.Time) error {
	strengths, err := json.Marshal(content.Strengths)
	if err != nil {
		return fmt.Errorf("marshal strengths: %w", err)
	}
	weaknesses, err := json.Marshal(content.Weaknesses)
	if err != nil {
		return fmt.Errorf("marshal weaknesses: %w", err)
	}
	compat, err := json.Marshal(content.IndustryCompatibility)
	if err != nil {
		return fmt.Errorf("marshal industry compatibility: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
UPDATE resume_assessments
SET status = $2, score = $3, strengths = $4, weaknesses = $5,
	industry_compatibility = $6, degraded = $7, model = $8, finalized_at = $9
WHERE id = $1 AND status = $10
`, reservationID, string(domain.AssessmentStatusFinal), content.Score,
		strengths, weaknesses, compat, content.Degraded, content.Model,
		finalizedAt.UTC(), string(domain.AssessmentStatusPending))
	if err != nil {
		return fmt.Errorf("finalize assessment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("finalize assessment rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrReservationFinalized, "finalize assessment",
			fmt.Errorf("id=%s", reservationID))
	}
	return nil
}

func (r *AssessmentRepository) ListByResume(ctx context.Context, resumeID, ownerID string) ([]domain.AssessmentResult, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, resume_id, owner_id, status, score, strengths, weaknesses,
	industry_compatibility, degraded, tier, model, created_at, finalized_at
FROM resume_assessments
WHERE resume_id = $1 AND owner_id = $2
ORDER BY created_at DESC
`, resumeID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	out := make([]domain.AssessmentResult, 0)
	for rows.Next() {
		var result domain.AssessmentResult
		var status, tier string
		var strengths, weaknesses, compat []byte
		var finalizedAt sql.NullTime
		err := rows.Scan(
			&result.ID, &result.ResumeID, &result.OwnerID, &status, &result.Score,
			&strengths, &weaknesses, &compat, &result.Degraded, &tier, &result.Model,
			&result.CreatedAt, &finalizedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		result.Status = domain.AssessmentStatus(status)
		result.Tier = domain.Tier(tier)
		if finalizedAt.Valid {
			result.FinalizedAt = &finalizedAt.Time
		}
		if err := json.Unmarshal(strengths, &result.Strengths); err != nil {
			return nil, fmt.Errorf("unmarshal strengths: %w", err)
		}
		if err := json.Unmarshal(weaknesses, &result.Weaknesses); err != nil {
			return nil, fmt.Errorf("unmarshal weaknesses: %w", err)
		}
		if err := json.Unmarshal(compat, &result.IndustryCompatibility); err != nil {
			return nil, fmt.Errorf("unmarshal industry compatibility: %w", err)
		}
		out = append(out, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assessments: %w", err)
	}
	return out, nil
}
