package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesMetrics totales de ventas en un rango de fechas.
// Cost usa el precio promedio de compra vigente de cada producto (0 si no tiene lotes).
type SalesMetrics struct {
	SaleCount int
	UnitsSold decimal.Decimal
	Revenue   decimal.Decimal
	Cost      decimal.Decimal
}

// ProductSalesResult ventas agregadas de un producto.
type ProductSalesResult struct {
	ProductID string
	Code      string
	Name      string
	UnitsSold decimal.Decimal
	Revenue   decimal.Decimal
}

// AnalyticsRepository consultas de solo lectura para el tablero de ventas.
type AnalyticsRepository interface {
	SalesMetrics(ctx context.Context, from, to time.Time) (SalesMetrics, error)
	// TopProducts productos con más ingresos en el rango, descendente.
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]ProductSalesResult, error)
}
