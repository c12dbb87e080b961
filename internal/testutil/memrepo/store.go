// Package memrepo implementa los puertos de repositorio en memoria para pruebas de casos de uso
// y handlers. TxRunner serializa transacciones y restaura el estado si fn falla.
package memrepo

import (
	"context"
	"sync"

	"github.com/jhoicas/crm-api/internal/application/inventory"
	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex

	products     map[string]*entity.Product
	batches      map[string]*entity.Batch
	movements    []*entity.InventoryMovement
	sales        map[string]*entity.Sale
	tiers        map[string]*entity.PriceTier
	clients      map[string]*entity.Client
	suppliers    map[string]*entity.Supplier
	salespersons map[string]*entity.Salesperson
	users        map[string]*entity.User
	roles        []string
	jobs         map[string]*entity.Job
	applications map[string]*entity.JobApplication

	// FailMovementCreate si no es nil, Movements.Create falla con este error.
	FailMovementCreate error
}

// New crea un store vacío con los roles por defecto.
func New() *Store {
	return &Store{
		products:     map[string]*entity.Product{},
		batches:      map[string]*entity.Batch{},
		sales:        map[string]*entity.Sale{},
		tiers:        map[string]*entity.PriceTier{},
		clients:      map[string]*entity.Client{},
		suppliers:    map[string]*entity.Supplier{},
		salespersons: map[string]*entity.Salesperson{},
		users:        map[string]*entity.User{},
		roles:        []string{entity.RoleMain, entity.RoleDoctor, entity.RoleSeller},
		jobs:         map[string]*entity.Job{},
		applications: map[string]*entity.JobApplication{},
	}
}

func (s *Store) Products() *ProductRepo         { return &ProductRepo{s: s} }
func (s *Store) Batches() *BatchRepo            { return &BatchRepo{s: s} }
func (s *Store) Movements() *MovementRepo       { return &MovementRepo{s: s} }
func (s *Store) Sales() *SaleRepo               { return &SaleRepo{s: s} }
func (s *Store) PriceTiers() *PriceTierRepo     { return &PriceTierRepo{s: s} }
func (s *Store) Clients() *ClientRepo           { return &ClientRepo{s: s} }
func (s *Store) Suppliers() *SupplierRepo       { return &SupplierRepo{s: s} }
func (s *Store) Salespersons() *SalespersonRepo { return &SalespersonRepo{s: s} }
func (s *Store) Users() *UserRepo               { return &UserRepo{s: s} }
func (s *Store) Jobs() *JobRepo                 { return &JobRepo{s: s} }
func (s *Store) Applications() *ApplicationRepo { return &ApplicationRepo{s: s} }
func (s *Store) Analytics() *AnalyticsRepo      { return &AnalyticsRepo{s: s} }

// Repos repositorios de inventario sobre este store.
func (s *Store) Repos() inventory.Repos {
	return inventory.Repos{
		Products:  s.Products(),
		Batches:   s.Batches(),
		Movements: s.Movements(),
		Sales:     s.Sales(),
	}
}

// TxRunner runner transaccional sobre este store.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

// TxRunner implementa inventory.TxRunner: una transacción a la vez y rollback por snapshot.
type TxRunner struct {
	s *Store
}

var _ inventory.TxRunner = (*TxRunner)(nil)

func (t *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, r inventory.Repos) error) error {
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	snap := t.s.snapshot()
	if err := fn(ctx, t.s.Repos()); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	products  map[string]*entity.Product
	batches   map[string]*entity.Batch
	movements []*entity.InventoryMovement
	sales     map[string]*entity.Sale
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		products:  cloneMap(s.products),
		batches:   cloneMap(s.batches),
		movements: append([]*entity.InventoryMovement(nil), s.movements...),
		sales:     cloneMap(s.sales),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.batches = snap.batches
	s.movements = snap.movements
	s.sales = snap.sales
}

func cloneMap[T any](m map[string]*T) map[string]*T {
	out := make(map[string]*T, len(m))
	for k, v := range m {
		c := *v
		out[k] = &c
	}
	return out
}

func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
