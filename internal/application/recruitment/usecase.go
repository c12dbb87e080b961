// Package recruitment publica vacantes y recibe postulaciones con archivo adjunto.
package recruitment

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
	"github.com/jhoicas/crm-api/pkg/logger"
	"github.com/jhoicas/crm-api/pkg/validation"
)

// allowedTypes extensiones admitidas y su content type canónico.
var allowedTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// UseCase vacantes y postulaciones.
type UseCase struct {
	jobs         repository.JobRepository
	applications repository.JobApplicationRepository
	files        FileSink
	rows         RowSink // opcional
	validator    *validation.Validator
	log          *logger.Logger
	maxFileBytes int64
	now          func() time.Time
}

// NewUseCase construye el caso de uso. rows puede ser nil.
func NewUseCase(
	jobs repository.JobRepository,
	applications repository.JobApplicationRepository,
	files FileSink,
	rows RowSink,
	validator *validation.Validator,
	log *logger.Logger,
	maxFileBytes int64,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		jobs:         jobs,
		applications: applications,
		files:        files,
		rows:         rows,
		validator:    validator,
		log:          log.Component("recruitment"),
		maxFileBytes: maxFileBytes,
		now:          time.Now,
	}
}

// ── Vacantes ─────────────────────────────────────────────────────────────────

// CreateJob publica una vacante (abierta por defecto).
func (uc *UseCase) CreateJob(ctx context.Context, in dto.JobRequest) (*entity.Job, error) {
	if fields := uc.validator.Struct(in); fields != nil {
		return nil, domain.NewValidationError(fields)
	}
	now := uc.now()
	job := &entity.Job{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		Status:      entity.JobStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Status != "" {
		job.Status = in.Status
	}
	if err := uc.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// UpdateJob reemplaza los datos de la vacante; Status vacío conserva el actual.
func (uc *UseCase) UpdateJob(ctx context.Context, id string, in dto.JobRequest) (*entity.Job, error) {
	if fields := uc.validator.Struct(in); fields != nil {
		return nil, domain.NewValidationError(fields)
	}
	job, err := uc.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	job.Title = strings.TrimSpace(in.Title)
	job.Description = strings.TrimSpace(in.Description)
	job.Location = strings.TrimSpace(in.Location)
	if in.Status != "" {
		job.Status = in.Status
	}
	job.UpdatedAt = uc.now()
	if err := uc.jobs.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// CloseJob cierra la vacante; ya no admite postulaciones.
func (uc *UseCase) CloseJob(ctx context.Context, id string) (*entity.Job, error) {
	job, err := uc.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	job.Status = entity.JobStatusClosed
	job.UpdatedAt = uc.now()
	if err := uc.jobs.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (uc *UseCase) GetJob(ctx context.Context, id string) (*entity.Job, error) {
	job, err := uc.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}
	return job, nil
}

// ListJobs lista vacantes; onlyOpen para el listado público.
func (uc *UseCase) ListJobs(ctx context.Context, onlyOpen bool, page dto.PageRequest) ([]*entity.Job, dto.PageResponse, error) {
	page.DefaultPage()
	list, err := uc.jobs.List(ctx, onlyOpen, page.Limit, page.Offset)
	if err != nil {
		return nil, dto.PageResponse{}, err
	}
	return list, dto.PageResponse{Limit: page.Limit, Offset: page.Offset}, nil
}

// ── Postulaciones ────────────────────────────────────────────────────────────

// Apply recibe una postulación: valida vacante y archivo, sube el archivo al destino
// primario (si falla: ErrDependency y no se guarda nada), persiste la postulación y
// anexa una fila al destino secundario sin que su falla afecte el resultado.
func (uc *UseCase) Apply(ctx context.Context, jobID string, in dto.ApplyRequest, file dto.UploadedFile) (*entity.JobApplication, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if fields := uc.validator.Struct(in); fields != nil {
		return nil, domain.NewValidationError(fields)
	}
	contentType, err := uc.checkFile(file)
	if err != nil {
		return nil, err
	}
	job, err := uc.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !job.Open() {
		return nil, fmt.Errorf("vacante cerrada: %w", domain.ErrConflict)
	}

	now := uc.now()
	app := &entity.JobApplication{
		ID:          uuid.New().String(),
		JobID:       job.ID,
		FullName:    strings.TrimSpace(in.FullName),
		Email:       in.Email,
		Phone:       uc.validator.NormalizePhone(in.Phone),
		CoverLetter: strings.TrimSpace(in.CoverLetter),
		FileName:    filepath.Base(file.Name),
		Status:      entity.ApplicationStatusReceived,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	storedName := fmt.Sprintf("%s_%s_%s", now.Format("20060102"), app.ID[:8], sanitizeName(app.FileName))
	fileID, link, err := uc.files.Upload(ctx, storedName, contentType, file.Data)
	if err != nil {
		uc.log.Error().Err(err).Str("job_id", job.ID).Msg("fallo subiendo hoja de vida")
		return nil, fmt.Errorf("subir archivo: %w", domain.ErrDependency)
	}
	app.FileID, app.FileLink = fileID, link

	if err := uc.applications.Create(ctx, app); err != nil {
		// El archivo ya quedó subido sin postulación que lo referencie.
		uc.log.Error().Err(err).
			Str("job_id", job.ID).
			Str("file_id", fileID).
			Str("file_link", link).
			Msg("postulación no guardada, archivo huérfano")
		return nil, err
	}

	if uc.rows != nil {
		row := []any{
			now.Format(time.RFC3339), job.Title, app.FullName, app.Email, app.Phone, app.FileLink, app.Status, app.ID,
		}
		if err := uc.rows.AppendRow(ctx, row); err != nil {
			uc.log.Warn().Err(err).Str("application_id", app.ID).Msg("no se pudo anexar la postulación a la hoja")
		}
	}
	return app, nil
}

// ListApplications postulaciones de una vacante.
func (uc *UseCase) ListApplications(ctx context.Context, jobID string, page dto.PageRequest) ([]*entity.JobApplication, dto.PageResponse, error) {
	if _, err := uc.GetJob(ctx, jobID); err != nil {
		return nil, dto.PageResponse{}, err
	}
	page.DefaultPage()
	list, err := uc.applications.ListByJob(ctx, jobID, page.Limit, page.Offset)
	if err != nil {
		return nil, dto.PageResponse{}, err
	}
	return list, dto.PageResponse{Limit: page.Limit, Offset: page.Offset}, nil
}

// UpdateApplicationStatus cambia el estado de una postulación.
func (uc *UseCase) UpdateApplicationStatus(ctx context.Context, id string, in dto.ApplicationStatusRequest) (*entity.JobApplication, error) {
	if fields := uc.validator.Struct(in); fields != nil {
		return nil, domain.NewValidationError(fields)
	}
	app, err := uc.applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.applications.UpdateStatus(ctx, id, in.Status); err != nil {
		return nil, err
	}
	app.Status = in.Status
	return app, nil
}

func (uc *UseCase) checkFile(file dto.UploadedFile) (string, error) {
	if len(file.Data) == 0 {
		return "", domain.Invalid("file", "es requerido")
	}
	if uc.maxFileBytes > 0 && int64(len(file.Data)) > uc.maxFileBytes {
		return "", domain.Invalid("file", fmt.Sprintf("tamaño máximo %d MB", uc.maxFileBytes>>20))
	}
	ct, ok := allowedTypes[strings.ToLower(filepath.Ext(file.Name))]
	if !ok {
		return "", domain.Invalid("file", "solo se admiten pdf, doc o docx")
	}
	return ct, nil
}

// sanitizeName deja solo letras, dígitos, punto, guion y guion bajo.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
