package repository

import (
	"context"

	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// JobRepository puerto de persistencia para vacantes.
type JobRepository interface {
	Create(ctx context.Context, job *entity.Job) error
	GetByID(ctx context.Context, id string) (*entity.Job, error)
	Update(ctx context.Context, job *entity.Job) error
	List(ctx context.Context, onlyOpen bool, limit, offset int) ([]*entity.Job, error)
}

// JobApplicationRepository puerto de persistencia para postulaciones.
type JobApplicationRepository interface {
	Create(ctx context.Context, app *entity.JobApplication) error
	GetByID(ctx context.Context, id string) (*entity.JobApplication, error)
	ListByJob(ctx context.Context, jobID string, limit, offset int) ([]*entity.JobApplication, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
