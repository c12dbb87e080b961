package dto

import (
	"time"

	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// JobRequest entrada para crear o actualizar una vacante.
type JobRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Location    string `json:"location" validate:"max=200"`
	Status      string `json:"status" validate:"omitempty,oneof=open closed"`
}

// JobResponse salida de una vacante.
type JobResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewJobResponse(j *entity.Job) JobResponse {
	return JobResponse{
		ID: j.ID, Title: j.Title, Description: j.Description, Location: j.Location,
		Status: j.Status, CreatedAt: j.CreatedAt, UpdatedAt: j.UpdatedAt,
	}
}

// ApplyRequest campos del formulario multipart de postulación (el archivo va aparte).
type ApplyRequest struct {
	FullName    string `form:"full_name" json:"full_name" validate:"required,min=3,max=200"`
	Email       string `form:"email" json:"email" validate:"required,email"`
	Phone       string `form:"phone" json:"phone" validate:"omitempty,phone"`
	CoverLetter string `form:"cover_letter" json:"cover_letter" validate:"max=5000"`
}

// UploadedFile archivo adjunto ya leído en memoria.
type UploadedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ApplicationStatusRequest cambio de estado de una postulación.
type ApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=received reviewing rejected hired"`
}

// ApplicationResponse salida de una postulación.
type ApplicationResponse struct {
	ID          string    `json:"id"`
	JobID       string    `json:"job_id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	CoverLetter string    `json:"cover_letter,omitempty"`
	FileID      string    `json:"file_id"`
	FileLink    string    `json:"file_link"`
	FileName    string    `json:"file_name"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewApplicationResponse(a *entity.JobApplication) ApplicationResponse {
	return ApplicationResponse{
		ID: a.ID, JobID: a.JobID, FullName: a.FullName, Email: a.Email, Phone: a.Phone,
		CoverLetter: a.CoverLetter, FileID: a.FileID, FileLink: a.FileLink, FileName: a.FileName,
		Status: a.Status, CreatedAt: a.CreatedAt,
	}
}
