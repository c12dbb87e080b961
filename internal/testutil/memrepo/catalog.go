package memrepo

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

var (
	_ repository.PriceTierRepository   = (*PriceTierRepo)(nil)
	_ repository.ClientRepository      = (*ClientRepo)(nil)
	_ repository.SupplierRepository    = (*SupplierRepo)(nil)
	_ repository.SalespersonRepository = (*SalespersonRepo)(nil)
)

// ── Precios por volumen ──────────────────────────────────────────────────────

type PriceTierRepo struct{ s *Store }

func tierKey(productID string, minQty decimal.Decimal) string {
	return productID + "|" + minQty.String()
}

func (r *PriceTierRepo) Upsert(_ context.Context, t *entity.PriceTier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := tierKey(t.ProductID, t.MinQty)
	if existing, ok := r.s.tiers[key]; ok {
		t.ID = existing.ID
	}
	r.s.tiers[key] = clone(t)
	return nil
}

func (r *PriceTierRepo) Delete(_ context.Context, productID string, minQty decimal.Decimal) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := tierKey(productID, minQty)
	if _, ok := r.s.tiers[key]; !ok {
		return false, nil
	}
	delete(r.s.tiers, key)
	return true, nil
}

func (r *PriceTierRepo) ListByProduct(_ context.Context, productID string) ([]*entity.PriceTier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PriceTier
	for _, t := range r.s.tiers {
		if t.ProductID == productID {
			out = append(out, clone(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MinQty.LessThan(out[j].MinQty) })
	return out, nil
}

func (r *PriceTierRepo) FindApplicable(ctx context.Context, productID string, qty decimal.Decimal) (*entity.PriceTier, error) {
	list, _ := r.ListByProduct(ctx, productID)
	var best *entity.PriceTier
	for _, t := range list {
		if t.MinQty.LessThanOrEqual(qty) {
			best = t
		}
	}
	return best, nil
}

// ── Clientes ─────────────────────────────────────────────────────────────────

type ClientRepo struct{ s *Store }

func (r *ClientRepo) Create(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.TaxID != "" {
		for _, other := range r.s.clients {
			if other.TaxID == c.TaxID {
				return domain.ErrDuplicate
			}
		}
	}
	r.s.clients[c.ID] = clone(c)
	return nil
}

func (r *ClientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return clone(r.s.clients[id]), nil
}

func (r *ClientRepo) Update(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.clients[c.ID] = clone(c)
	return nil
}

func (r *ClientRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.clients, id)
	return nil
}

func (r *ClientRepo) List(_ context.Context, search string, limit, offset int) ([]*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Client
	for _, c := range r.s.clients {
		if search == "" || strings.Contains(c.SearchKey, search) {
			out = append(out, clone(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

// ── Proveedores ──────────────────────────────────────────────────────────────

type SupplierRepo struct{ s *Store }

func (r *SupplierRepo) Create(_ context.Context, sp *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.suppliers[sp.ID] = clone(sp)
	return nil
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return clone(r.s.suppliers[id]), nil
}

func (r *SupplierRepo) Update(_ context.Context, sp *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.suppliers[sp.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.suppliers[sp.ID] = clone(sp)
	return nil
}

func (r *SupplierRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.suppliers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.suppliers, id)
	return nil
}

func (r *SupplierRepo) List(_ context.Context, search string, limit, offset int) ([]*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Supplier
	for _, sp := range r.s.suppliers {
		if search == "" || strings.Contains(sp.SearchKey, search) {
			out = append(out, clone(sp))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

// ── Vendedores ───────────────────────────────────────────────────────────────

type SalespersonRepo struct{ s *Store }

func (r *SalespersonRepo) Create(_ context.Context, sp *entity.Salesperson) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.salespersons[sp.ID] = clone(sp)
	return nil
}

func (r *SalespersonRepo) GetByID(_ context.Context, id string) (*entity.Salesperson, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return clone(r.s.salespersons[id]), nil
}

func (r *SalespersonRepo) Update(_ context.Context, sp *entity.Salesperson) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.salespersons[sp.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.salespersons[sp.ID] = clone(sp)
	return nil
}

func (r *SalespersonRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.salespersons[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.salespersons, id)
	return nil
}

func (r *SalespersonRepo) List(_ context.Context, onlyActive bool, limit, offset int) ([]*entity.Salesperson, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Salesperson
	for _, sp := range r.s.salespersons {
		if onlyActive && !sp.Active {
			continue
		}
		out = append(out, clone(sp))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}
