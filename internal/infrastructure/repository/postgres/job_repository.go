package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dylanlee20/job-resume-builder/internal/core/domain"
)

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Upsert inserts a new posting or refreshes last_seen for a known job_hash.
// Category and admitted flag are written once on insert and left untouched
// on re-sighting; reclassification is a rule-set migration, not an upsert.
func (r *JobRepository) Upsert(ctx context.Context, job *domain.JobPosting) (bool, error) {
	row := r.db.QueryRowContext(ctx, `
INSERT INTO job_postings (
	id, job_hash, company, title, location, description, category, is_admitted,
	job_type, source, url, first_seen, last_seen, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
ON CONFLICT (job_hash) DO UPDATE
SET last_seen = EXCLUDED.last_seen, updated_at = EXCLUDED.updated_at
RETURNING (xmax = 0)
`,
		job.ID, job.JobHash, job.Company, job.Title, job.Location, job.Description,
		string(job.Category), job.IsAdmitted, string(job.JobType), job.Source, job.URL,
		job.FirstSeen, job.LastSeen, job.CreatedAt, job.UpdatedAt,
	)

	var created bool
	if err := row.Scan(&created); err != nil {
		return false, fmt.Errorf("upsert job posting: %w", err)
	}
	return created, nil
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*domain.JobPosting, error) {
	row := r.db.QueryRowContext(ctx, selectJobColumns+`
WHERE id = $1
`, id)

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get job posting", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("get job posting: %w", err)
	}
	return &job, nil
}

// List filters postings. Excluded categories only surface when the filter
// explicitly asks for them, which the HTTP adapter gates behind the admin
// check.
func (r *JobRepository) List(ctx context.Context, filter domain.JobFilter) ([]domain.JobPosting, error) {
	query := selectJobColumns + "WHERE 1=1\n"
	args := []any{}

	if !filter.IncludeExcluded {
		query += "AND is_admitted\n"
	}
	if filter.Company != "" {
		args = append(args, filter.Company)
		query += fmt.Sprintf("AND company = $%d\n", len(args))
	}
	if filter.Location != "" {
		args = append(args, filter.Location)
		query += fmt.Sprintf("AND location = $%d\n", len(args))
	}
	if filter.Category != "" {
		args = append(args, string(filter.Category))
		query += fmt.Sprintf("AND category = $%d\n", len(args))
	}
	if filter.JobType != "" {
		args = append(args, string(filter.JobType))
		query += fmt.Sprintf("AND job_type = $%d\n", len(args))
	}
	query += "ORDER BY first_seen DESC\n"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf("LIMIT $%d\n", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf("OFFSET $%d\n", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list job postings: %w", err)
	}
	defer rows.Close()

	out := make([]domain.JobPosting, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job posting: %w", err)
		}
		out = append(out, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate job postings: %w", err)
	}
	return out, nil
}

const selectJobColumns = `
SELECT id, job_hash, company, title, location, description, category, is_admitted,
	job_type, source, url, first_seen, last_seen, created_at, updated_at
FROM job_postings
`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (domain.JobPosting, error) {
	var job domain.JobPosting
	var category, jobType string
	err := row.Scan(
		&job.ID, &job.JobHash, &job.Company, &job.Title, &job.Location, &job.Description,
		&category, &job.IsAdmitted, &jobType, &job.Source, &job.URL,
		&job.FirstSeen, &job.LastSeen, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return domain.JobPosting{}, err
	}
	job.Category = domain.Category(category)
	job.JobType = domain.JobType(jobType)
	return job, nil
}
