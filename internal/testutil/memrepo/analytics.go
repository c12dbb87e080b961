package memrepo

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo agrega las ventas del store; compara fechas a nivel de día como la columna DATE.
type AnalyticsRepo struct{ s *Store }

func inDays(t, from, to time.Time) bool {
	const layout = "2006-01-02"
	d := t.Format(layout)
	return d >= from.Format(layout) && d <= to.Format(layout)
}

func (r *AnalyticsRepo) SalesMetrics(_ context.Context, from, to time.Time) (repository.SalesMetrics, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m := repository.SalesMetrics{UnitsSold: decimal.Zero, Revenue: decimal.Zero, Cost: decimal.Zero}
	for _, sale := range r.s.sales {
		if !inDays(sale.SaleDate, from, to) {
			continue
		}
		m.SaleCount++
		m.UnitsSold = m.UnitsSold.Add(sale.Quantity)
		m.Revenue = m.Revenue.Add(sale.Total())
		if p, ok := r.s.products[sale.ProductID]; ok && p.AvgPurchasePrice != nil {
			m.Cost = m.Cost.Add(sale.Quantity.Mul(*p.AvgPurchasePrice))
		}
	}
	return m, nil
}

func (r *AnalyticsRepo) TopProducts(_ context.Context, from, to time.Time, limit int) ([]repository.ProductSalesResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byProduct := map[string]*repository.ProductSalesResult{}
	for _, sale := range r.s.sales {
		if !inDays(sale.SaleDate, from, to) {
			continue
		}
		row, ok := byProduct[sale.ProductID]
		if !ok {
			row = &repository.ProductSalesResult{ProductID: sale.ProductID}
			if p, found := r.s.products[sale.ProductID]; found {
				row.Code, row.Name = p.Code, p.Name
			}
			byProduct[sale.ProductID] = row
		}
		row.UnitsSold = row.UnitsSold.Add(sale.Quantity)
		row.Revenue = row.Revenue.Add(sale.Total())
	}
	out := make([]repository.ProductSalesResult, 0, len(byProduct))
	for _, row := range byProduct {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Code < out[j].Code
		}
		return out[i].Revenue.GreaterThan(out[j].Revenue)
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
