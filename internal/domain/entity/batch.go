package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch es una recepción física (lote) de un producto. Nunca se elimina: se anula.
// A lo sumo existe un lote activo por (ProductID, LotNumber).
type Batch struct {
	ID            string
	ProductID     string
	LotNumber     string
	PurchaseDate  time.Time
	ExpiryDate    *time.Time
	PurchasePrice decimal.Decimal // precio unitario de compra
	QtyReceived   decimal.Decimal
	SupplierID    *string
	SupplierName  *string
	SupplierRef   *string // factura o remisión del proveedor
	VoidedAt      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     string
}

// Active informa si el lote no ha sido anulado.
func (b *Batch) Active() bool { return b.VoidedAt == nil }
