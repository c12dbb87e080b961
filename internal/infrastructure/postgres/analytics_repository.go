package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/crm-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el tablero de ventas.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// SalesMetrics devuelve conteo, unidades, ingresos y costo de las ventas del período (fechas inclusivas).
// El costo usa avg_purchase_price vigente del producto; sin lotes activos cuenta como 0.
// Usa COALESCE para devolver cero si no hay filas (período sin ventas).
func (r *AnalyticsRepo) SalesMetrics(ctx context.Context, from, to time.Time) (repository.SalesMetrics, error) {
	const query = `
	SELECT
	    COUNT(s.id)                                                     AS sale_count,
	    COALESCE(SUM(s.quantity), 0)                                    AS units_sold,
	    COALESCE(SUM(s.quantity * s.unit_price), 0)                     AS revenue,
	    COALESCE(SUM(s.quantity * COALESCE(p.avg_purchase_price, 0)), 0) AS cost
	FROM sales s
	JOIN products p ON p.id = s.product_id
	WHERE s.sale_date BETWEEN $1::date AND $2::date`

	var m repository.SalesMetrics
	err := r.q.QueryRow(ctx, query, from, to).Scan(&m.SaleCount, &m.UnitsSold, &m.Revenue, &m.Cost)
	if err != nil {
		return repository.SalesMetrics{}, fmt.Errorf("analytics.SalesMetrics: %w", err)
	}
	return m, nil
}

// TopProducts devuelve los `limit` productos con mayor ingreso en el período.
func (r *AnalyticsRepo) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]repository.ProductSalesResult, error) {
	const query = `
	SELECT
	    p.id,
	    p.code,
	    p.name,
	    SUM(s.quantity)                AS units_sold,
	    SUM(s.quantity * s.unit_price) AS revenue
	FROM sales s
	JOIN products p ON p.id = s.product_id
	WHERE s.sale_date BETWEEN $1::date AND $2::date
	GROUP BY p.id, p.code, p.name
	ORDER BY revenue DESC, p.code
	LIMIT $3`

	rows, err := r.q.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.TopProducts: %w", err)
	}
	defer rows.Close()

	results := []repository.ProductSalesResult{}
	for rows.Next() {
		var row repository.ProductSalesResult
		if err := rows.Scan(&row.ProductID, &row.Code, &row.Name, &row.UnitsSold, &row.Revenue); err != nil {
			return nil, fmt.Errorf("analytics.TopProducts scan: %w", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics.TopProducts rows: %w", err)
	}
	return results, nil
}
