// Package analytics contiene el tablero de ventas: totales del día y del mes
// y los productos más vendidos.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

const dashboardTopProducts = 5 // número de productos en el widget del tablero

// DashboardUseCase genera el resumen de ventas del día y del mes en curso.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// WithClock reemplaza el reloj (pruebas).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary construye el DashboardSummaryDTO.
//
// Tres consultas en paralelo:
//  1. SalesMetrics(hoy)
//  2. SalesMetrics(mes)
//  3. TopProducts(mes, top 5)
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	// sale_date es DATE: basta con el día inicial y final (inclusivos).
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	// ── Goroutines para paralelizar las 3 consultas DB ────────────────────────
	type metricsResult struct {
		m   repository.SalesMetrics
		err error
	}
	type topResult struct {
		list []repository.ProductSalesResult
		err  error
	}

	todayCh := make(chan metricsResult, 1)
	monthCh := make(chan metricsResult, 1)
	topCh := make(chan topResult, 1)

	go func() {
		m, err := uc.analyticsRepo.SalesMetrics(ctx, today, today)
		todayCh <- metricsResult{m, err}
	}()
	go func() {
		m, err := uc.analyticsRepo.SalesMetrics(ctx, monthStart, today)
		monthCh <- metricsResult{m, err}
	}()
	go func() {
		list, err := uc.analyticsRepo.TopProducts(ctx, monthStart, today, dashboardTopProducts)
		topCh <- topResult{list, err}
	}()

	todayRes := <-todayCh
	monthRes := <-monthCh
	top := <-topCh

	if todayRes.err != nil {
		return nil, fmt.Errorf("dashboard: métricas de hoy: %w", todayRes.err)
	}
	if monthRes.err != nil {
		return nil, fmt.Errorf("dashboard: métricas del mes: %w", monthRes.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: top productos: %w", top.err)
	}

	products := make([]dto.TopProductDTO, 0, len(top.list))
	for _, p := range top.list {
		products = append(products, dto.TopProductDTO{
			ProductID: p.ProductID,
			Code:      p.Code,
			Name:      p.Name,
			UnitsSold: p.UnitsSold,
			Revenue:   p.Revenue.Round(2),
		})
	}

	return &dto.DashboardSummaryDTO{
		Today:       periodMetrics(todayRes.m),
		Month:       periodMetrics(monthRes.m),
		TopProducts: products,
		DateLabel:   monthLabel(now),
	}, nil
}

func periodMetrics(m repository.SalesMetrics) dto.PeriodMetrics {
	revenue := m.Revenue.Round(2)
	cost := m.Cost.Round(2)
	margin := revenue.Sub(cost)
	return dto.PeriodMetrics{
		SaleCount: m.SaleCount,
		UnitsSold: m.UnitsSold,
		Revenue:   revenue,
		Cost:      decimalPtr(cost),
		Margin:    decimalPtr(margin),
	}
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
