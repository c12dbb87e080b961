package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale es una venta de un producto a un cliente.
// Al crearla se asienta un OUT; al anularla se borra la fila y se asienta un ADJ compensatorio.
type Sale struct {
	ID            string
	ClientID      string
	ProductID     string
	SalespersonID *string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	SaleDate      time.Time
	Notes         string
	CreatedAt     time.Time
	CreatedBy     string

	// Solo lectura (JOIN) para listados, recibos y exportaciones.
	ClientName      string
	ProductCode     string
	ProductName     string
	SalespersonName string
}

// Total devuelve cantidad * precio unitario.
func (s *Sale) Total() decimal.Decimal {
	return s.Quantity.Mul(s.UnitPrice)
}
