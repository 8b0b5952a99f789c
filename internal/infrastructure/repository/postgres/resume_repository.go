package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dylanlee20/job-resume-builder/internal/core/domain"
)

type ResumeRepository struct {
	db *sql.DB
}

func NewResumeRepository(db *sql.DB) *ResumeRepository {
	return &ResumeRepository{db: db}
}

func (r *ResumeRepository) Create(ctx context.Context, resume *domain.Resume) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO resumes (
	id, owner_id, filename, storage_path, file_size, mime_type, extracted_text,
	status, error_message, uploaded_at, parsed_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`,
		resume.ID, resume.OwnerID, resume.Filename, resume.StoragePath, resume.FileSize,
		resume.MimeType, resume.ExtractedText, string(resume.Status), resume.Error,
		resume.UploadedAt, resume.ParsedAt,
	)
	if err != nil {
		return fmt.Errorf("insert resume: %w", err)
	}
	return nil
}

func (r *ResumeRepository) GetByID(ctx context.Context, id string) (*domain.Resume, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, owner_id, filename, storage_path, file_size, mime_type, extracted_text,
	status, error_message, uploaded_at, parsed_at
FROM resumes
WHERE id = $1
`, id)

	var resume domain.Resume
	var status string
	var parsedAt sql.NullTime
	err := row.Scan(
		&resume.ID, &resume.OwnerID, &resume.Filename, &resume.StoragePath, &resume.FileSize,
		&resume.MimeType, &resume.ExtractedText, &status, &resume.Error,
		&resume.UploadedAt, &parsedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get resume", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan resume: %w", err)
	}
	resume.Status = domain.ResumeStatus(status)
	if parsedAt.Valid {
		resume.ParsedAt = &parsedAt.Time
	}
	return &resume, nil
}

// SaveExtractedText stores the parser output and moves the record to parsed
// in the same statement; the text is written once and never mutated after.
func (r *ResumeRepository) SaveExtractedText(ctx context.Context, id, text string, parsedAt time.Time) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE resumes
SET extracted_text = $2, status = $3, error_message = '', parsed_at = $4
WHERE id = $1 AND status = $5
`, id, text, string(domain.ResumeStatusParsed), parsedAt, string(domain.ResumeStatusUploaded))
	if err != nil {
		return fmt.Errorf("save extracted text: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save extracted text rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrNotFound, "save extracted text", fmt.Errorf("no uploaded resume with id=%s", id))
	}
	return nil
}

func (r *ResumeRepository) UpdateStatus(ctx context.Context, id string, status domain.ResumeStatus, errMessage string) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE resumes
SET status = $2, error_message = $3
WHERE id = $1
`, id, string(status), errMessage)
	if err != nil {
		return fmt.Errorf("update resume status: %w", err)
	}
	return nil
}
