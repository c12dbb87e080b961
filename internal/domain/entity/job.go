package entity

import "time"

// Estados de una vacante.
const (
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"
)

// Job vacante publicada.
type Job struct {
	ID          string
	Title       string
	Description string
	Location    string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Open informa si la vacante admite postulaciones.
func (j *Job) Open() bool { return j.Status == JobStatusOpen }
