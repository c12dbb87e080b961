package memrepo

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/inventory"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository           = (*ProductRepo)(nil)
	_ repository.BatchRepository             = (*BatchRepo)(nil)
	_ repository.InventoryMovementRepository = (*MovementRepo)(nil)
	_ repository.SaleRepository              = (*SaleRepo)(nil)
)

// ── Productos ────────────────────────────────────────────────────────────────

type ProductRepo struct{ s *Store }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.products {
		if strings.EqualFold(existing.Code, p.Code) {
			return domain.ErrDuplicate
		}
	}
	r.s.products[p.ID] = clone(p)
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return clone(r.s.products[id]), nil
}

func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if strings.EqualFold(p.Code, code) {
			return clone(p), nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, other := range r.s.products {
		if other.ID != p.ID && strings.EqualFold(other.Code, p.Code) {
			return domain.ErrDuplicate
		}
	}
	c := *p
	c.AvgPurchasePrice = existing.AvgPurchasePrice
	r.s.products[p.ID] = &c
	return nil
}

func (r *ProductRepo) SetArchived(_ context.Context, id string, archived bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Archived = archived
	p.UpdatedAt = time.Now()
	return nil
}

func (r *ProductRepo) UpdateAvgPurchasePrice(_ context.Context, id string, avg *decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.AvgPurchasePrice = clone(avg)
	return nil
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.Archived && !f.IncludeArchived {
			continue
		}
		if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
			continue
		}
		if f.Search != "" && !strings.Contains(p.SearchKey, f.Search) {
			continue
		}
		out = append(out, clone(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, f.Limit, f.Offset), nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	for k, t := range r.s.tiers {
		if t.ProductID == id {
			delete(r.s.tiers, k)
		}
	}
	return nil
}

// ── Lotes ────────────────────────────────────────────────────────────────────

type BatchRepo struct{ s *Store }

// UpsertActive reproduce postgres.upsertBatchSQL sobre el índice único parcial
// (product_id, lot_number) activo. Si cambia la sentencia, cambiar inventory.MergeBatch con ella.
func (r *BatchRepo) UpsertActive(_ context.Context, b *entity.Batch, policy inventory.DatePolicy) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.batches {
		if existing.Active() && existing.ProductID == b.ProductID && existing.LotNumber == b.LotNumber {
			merged := inventory.MergeBatch(existing, b, policy)
			r.s.batches[existing.ID] = clone(merged)
			*b = *merged
			return true, nil
		}
	}
	r.s.batches[b.ID] = clone(b)
	return false, nil
}

func (r *BatchRepo) GetByID(_ context.Context, id string) (*entity.Batch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return clone(r.s.batches[id]), nil
}

func (r *BatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.Batch, error) {
	return r.GetByID(ctx, id)
}

func (r *BatchRepo) MarkVoided(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.batches[id]
	if !ok {
		return domain.ErrNotFound
	}
	if !b.Active() {
		return domain.ErrAlreadyVoided
	}
	b.VoidedAt = &at
	b.UpdatedAt = at
	return nil
}

// ActiveTotals equivale a la consulta SUM(...) WHERE voided_at IS NULL de postgres.BatchRepo.
func (r *BatchRepo) ActiveTotals(_ context.Context, productID string) (decimal.Decimal, decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Batch
	for _, b := range r.s.batches {
		if b.ProductID == productID {
			list = append(list, b)
		}
	}
	qty, value := inventory.ActiveTotals(list)
	return qty, value, nil
}

func (r *BatchRepo) ListByProduct(_ context.Context, productID string, includeVoided bool) ([]*entity.Batch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Batch
	for _, b := range r.s.batches {
		if b.ProductID != productID || (!includeVoided && !b.Active()) {
			continue
		}
		out = append(out, clone(b))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PurchaseDate.Equal(out[j].PurchaseDate) {
			return out[i].LotNumber < out[j].LotNumber
		}
		return out[i].PurchaseDate.Before(out[j].PurchaseDate)
	})
	return out, nil
}

func (r *BatchRepo) CountBySupplier(_ context.Context, supplierID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, b := range r.s.batches {
		if b.SupplierID != nil && *b.SupplierID == supplierID {
			n++
		}
	}
	return n, nil
}

// ── Movimientos ──────────────────────────────────────────────────────────────

type MovementRepo struct{ s *Store }

func (r *MovementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailMovementCreate != nil {
		return r.s.FailMovementCreate
	}
	r.s.movements = append(r.s.movements, clone(m))
	return nil
}

// OnHand equivale al SUM(CASE WHEN type = 'OUT' ...) de postgres.InventoryMovementRepo.
func (r *MovementRepo) OnHand(_ context.Context, productID string) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.InventoryMovement
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			list = append(list, m)
		}
	}
	return inventory.OnHand(list), nil
}

func (r *MovementRepo) ListByProduct(_ context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.InventoryMovement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if m.ProductID != productID {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		out = append(out, clone(m))
	}
	return page(out, limit, offset), nil
}

func (r *MovementRepo) CountByProduct(_ context.Context, productID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			n++
		}
	}
	return n, nil
}

// ── Ventas ───────────────────────────────────────────────────────────────────

type SaleRepo struct{ s *Store }

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sales[sale.ID] = clone(sale)
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return clone(r.s.sales[id]), nil
}

func (r *SaleRepo) DeleteReturning(_ context.Context, id string) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	delete(r.s.sales, id)
	return sale, nil
}

func (r *SaleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Sale
	for _, sale := range r.s.sales {
		if f.ClientID != "" && sale.ClientID != f.ClientID {
			continue
		}
		if f.ProductID != "" && sale.ProductID != f.ProductID {
			continue
		}
		if f.SalespersonID != "" && (sale.SalespersonID == nil || *sale.SalespersonID != f.SalespersonID) {
			continue
		}
		if f.From != nil && sale.SaleDate.Before(*f.From) {
			continue
		}
		if f.To != nil && sale.SaleDate.After(*f.To) {
			continue
		}
		out = append(out, clone(sale))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SaleDate.Equal(out[j].SaleDate) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].SaleDate.After(out[j].SaleDate)
	})
	return page(out, f.Limit, f.Offset), nil
}

func (r *SaleRepo) CountByClient(_ context.Context, clientID string) (int, error) {
	return r.count(func(s *entity.Sale) bool { return s.ClientID == clientID }), nil
}

func (r *SaleRepo) CountByProduct(_ context.Context, productID string) (int, error) {
	return r.count(func(s *entity.Sale) bool { return s.ProductID == productID }), nil
}

func (r *SaleRepo) CountBySalesperson(_ context.Context, salespersonID string) (int, error) {
	return r.count(func(s *entity.Sale) bool {
		return s.SalespersonID != nil && *s.SalespersonID == salespersonID
	}), nil
}

func (r *SaleRepo) count(match func(*entity.Sale) bool) int {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, sale := range r.s.sales {
		if match(sale) {
			n++
		}
	}
	return n
}
