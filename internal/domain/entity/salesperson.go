package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Salesperson vendedor al que se atribuyen ventas.
type Salesperson struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	CommissionRate decimal.Decimal // porcentaje 0-100
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
