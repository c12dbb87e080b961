package dto

import "github.com/shopspring/decimal"

// PeriodMetrics ventas de un periodo. Cost y Margin dependen del precio de compra.
type PeriodMetrics struct {
	SaleCount int              `json:"sale_count"`
	UnitsSold decimal.Decimal  `json:"units_sold"`
	Revenue   decimal.Decimal  `json:"revenue"`
	Cost      *decimal.Decimal `json:"cost,omitempty"`
	Margin    *decimal.Decimal `json:"margin,omitempty"`
}

// TopProductDTO producto en el ranking del tablero.
type TopProductDTO struct {
	ProductID string          `json:"product_id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	UnitsSold decimal.Decimal `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// DashboardSummaryDTO resumen de ventas de hoy y del mes en curso.
type DashboardSummaryDTO struct {
	Today       PeriodMetrics   `json:"today"`
	Month       PeriodMetrics   `json:"month"`
	TopProducts []TopProductDTO `json:"top_products"`
	DateLabel   string          `json:"date_label"`
}

// Redact quita costo y margen si el rol no puede ver precios de compra.
func (d DashboardSummaryDTO) Redact(showPrices bool) DashboardSummaryDTO {
	if !showPrices {
		d.Today.Cost, d.Today.Margin = nil, nil
		d.Month.Cost, d.Month.Margin = nil, nil
	}
	return d
}
