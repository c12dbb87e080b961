package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

var (
	_ repository.JobRepository            = (*JobRepo)(nil)
	_ repository.JobApplicationRepository = (*JobApplicationRepo)(nil)
)

const (
	jobColumns         = `id, title, description, location, status, created_at, updated_at`
	applicationColumns = `id, job_id, full_name, email, phone, cover_letter, file_id, file_link, file_name, status, created_at, updated_at`
)

// JobRepo vacantes sobre PostgreSQL.
type JobRepo struct {
	q Querier
}

func NewJobRepository(q Querier) *JobRepo {
	return &JobRepo{q: q}
}

func (r *JobRepo) Create(ctx context.Context, j *entity.Job) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO jobs (id, title, description, location, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		j.ID, j.Title, j.Description, j.Location, j.Status, j.CreatedAt, j.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (r *JobRepo) GetByID(ctx context.Context, id string) (*entity.Job, error) {
	j, err := scanJob(r.q.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

func (r *JobRepo) Update(ctx context.Context, j *entity.Job) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE jobs SET title = $2, description = $3, location = $4, status = $5, updated_at = $6 WHERE id = $1`,
		j.ID, j.Title, j.Description, j.Location, j.Status, j.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List vacantes más recientes primero; onlyOpen filtra las abiertas.
func (r *JobRepo) List(ctx context.Context, onlyOpen bool, limit, offset int) ([]*entity.Job, error) {
	rows, err := r.q.Query(ctx, `SELECT `+jobColumns+` FROM jobs
		WHERE (NOT $1 OR status = 'open') ORDER BY created_at DESC LIMIT $2 OFFSET $3`, onlyOpen, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()
	var list []*entity.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		list = append(list, j)
	}
	return list, rows.Err()
}

func scanJob(row pgx.Row) (*entity.Job, error) {
	var j entity.Job
	if err := row.Scan(&j.ID, &j.Title, &j.Description, &j.Location, &j.Status, &j.CreatedAt, &j.UpdatedAt); err != nil {
		return nil, err
	}
	return &j, nil
}

// JobApplicationRepo postulaciones sobre PostgreSQL.
type JobApplicationRepo struct {
	q Querier
}

func NewJobApplicationRepository(q Querier) *JobApplicationRepo {
	return &JobApplicationRepo{q: q}
}

func (r *JobApplicationRepo) Create(ctx context.Context, a *entity.JobApplication) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO job_applications (id, job_id, full_name, email, phone, cover_letter, file_id, file_link, file_name,
			status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		a.ID, a.JobID, a.FullName, a.Email, a.Phone, a.CoverLetter, a.FileID, a.FileLink, a.FileName,
		a.Status, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("insert job application: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("insert job application: %w", err)
	}
	return nil
}

func (r *JobApplicationRepo) GetByID(ctx context.Context, id string) (*entity.JobApplication, error) {
	a, err := scanApplication(r.q.QueryRow(ctx, `SELECT `+applicationColumns+` FROM job_applications WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get job application: %w", err)
	}
	return a, nil
}

func (r *JobApplicationRepo) ListByJob(ctx context.Context, jobID string, limit, offset int) ([]*entity.JobApplication, error) {
	rows, err := r.q.Query(ctx, `SELECT `+applicationColumns+` FROM job_applications
		WHERE job_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, jobID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list job applications: %w", err)
	}
	defer rows.Close()
	var list []*entity.JobApplication
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job application: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *JobApplicationRepo) UpdateStatus(ctx context.Context, id, status string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE job_applications SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update job application status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanApplication(row pgx.Row) (*entity.JobApplication, error) {
	var a entity.JobApplication
	err := row.Scan(&a.ID, &a.JobID, &a.FullName, &a.Email, &a.Phone, &a.CoverLetter, &a.FileID, &a.FileLink,
		&a.FileName, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
