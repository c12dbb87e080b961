package entity

import "time"

// Estados de una postulación.
const (
	ApplicationStatusReceived  = "received"
	ApplicationStatusReviewing = "reviewing"
	ApplicationStatusRejected  = "rejected"
	ApplicationStatusHired     = "hired"
)

// JobApplication postulación con hoja de vida almacenada en un servicio externo.
type JobApplication struct {
	ID          string
	JobID       string
	FullName    string
	Email       string
	Phone       string
	CoverLetter string
	FileID      string // identificador en Drive / Cloud Storage
	FileLink    string // enlace de visualización
	FileName    string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
