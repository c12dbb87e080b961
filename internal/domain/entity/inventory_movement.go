package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de inventario.
const (
	MovementTypeIN     = "IN"     // entrada (recepción de lote)
	MovementTypeOUT    = "OUT"    // salida (venta); se guarda positiva y se resta
	MovementTypeADJ    = "ADJ"    // ajuste con signo (anulaciones, conteos)
	MovementTypeRETURN = "RETURN" // devolución de cliente
)

// Referencias de origen de un movimiento.
const (
	MovementRefBatch  = "batch"
	MovementRefSale   = "sale"
	MovementRefManual = "manual"
)

// InventoryMovement es un asiento inmutable del libro de inventario.
type InventoryMovement struct {
	ID        string
	ProductID string
	Type      string
	Quantity  decimal.Decimal // OUT positivo; ADJ puede ser negativo
	RefType   string
	RefID     string
	Note      string
	CreatedAt time.Time
	CreatedBy string
}

// ValidMovementType informa si t es uno de los tipos admitidos.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeADJ, MovementTypeRETURN:
		return true
	}
	return false
}
