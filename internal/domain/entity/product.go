package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// AvgPurchasePrice es el promedio ponderado de los lotes activos (nil si no hay lotes);
// el stock no se almacena: se deriva siempre del libro de movimientos.
type Product struct {
	ID               string
	Code             string // código único
	Name             string
	ShortName        string // nombre corto para tickets y listados
	Category         string
	SellPrice        decimal.Decimal // precio de venta por defecto
	AvgPurchasePrice *decimal.Decimal
	Archived         bool
	SearchKey        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
