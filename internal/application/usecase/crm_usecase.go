package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
	"github.com/jhoicas/crm-api/pkg/textnorm"
	"github.com/jhoicas/crm-api/pkg/validation"
)

// ── Clientes ─────────────────────────────────────────────────────────────────

// ClientUseCase CRUD de clientes. No se eliminan clientes con ventas.
type ClientUseCase struct {
	repo      repository.ClientRepository
	sales     repository.SaleRepository
	validator *validation.Validator
}

func NewClientUseCase(repo repository.ClientRepository, sales repository.SaleRepository, validator *validation.Validator) *ClientUseCase {
	return &ClientUseCase{repo: repo, sales: sales, validator: validator}
}

func (uc *ClientUseCase) Create(ctx context.Context, in dto.ClientRequest) (*entity.Client, error) {
	if fields := uc.validator.Struct(in); fields != nil {
		return nil, domain.NewValidationError(fields)
	}
	now := time.Now()
	c := &entity.Client{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
	uc.apply(c, in)
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *ClientUseCase) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// Update reemplaza los datos del cliente.
func (uc *ClientUseCase) Update(ctx context.Context, id string, in dto.ClientRequest) (*entity.Client, error) {
	if fields := uc.validator.Struct(in); fields != nil {
		return nil, domain.NewValidationError(fields)
	}
	c, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.apply(c, in)
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *ClientUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.GetByID(ctx, id); err != nil {
		return err
	}
	n, err := uc.sales.CountByClient(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("cliente con %d ventas: %w", n, domain.ErrInUse)
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *ClientUseCase) List(ctx context.Context, search string, page dto.PageRequest) ([]*entity.Client, dto.PageResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, textnorm.Fold(search), page.Limit, page.Offset)
	if err != nil {
		return nil, dto.PageResponse{}, err
	}
	return list, dto.PageResponse{Limit: page.Limit, Offset: page.Offset}, nil
}

func (uc *ClientUseCase) apply(c *entity.Client, in dto.ClientRequest) {
	c.Name = strings.TrimSpace(in.Name)
	c.TaxID = strings.TrimSpace(in.TaxID)
	c.Email = strings.ToLower(strings.TrimSpace(in.Email))
	c.Phone = uc.validator.NormalizePhone(in.Phone)
	c.Address = strings.TrimSpace(in.Address)
	c.City = strings.TrimSpace(in.City)
	c.Notes = strings.TrimSpace(in.Notes)
	c.SearchKey = textnorm.Key(c.Name, c.TaxID, c.Email, c.City)
}

// ── Proveedores ──────────────────────────────────────────────────────────────

// SupplierUseCase CRUD de proveedores. No se eliminan proveedores referenciados por lotes.
type SupplierUseCase struct {
	repo      repository.SupplierRepository
	batches   repository.BatchRepository
	validator *validation.Validator
}

func NewSupplierUseCase(repo repository.SupplierRepository, batches repository.BatchRepository, validator *validation.Validator) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, batches: batches, validator: validator}
}

func (uc *SupplierUseCase) Create(ctx context.Context, in dto.SupplierRequest) (*entity.Supplier, error) {
	if fields := uc.validator.Struct(in); fields != nil {
		return nil, domain.NewValidationError(fields)
	}
	now := time.Now()
	s := &entity.Supplier{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
	uc.apply(s, in)
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.SupplierRequest) (*entity.Supplier, error) {
	if fields := uc.validator.Struct(in); fields != nil {
		return nil, domain.NewValidationError(fields)
	}
	s, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.apply(s, in)
	s.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.GetByID(ctx, id); err != nil {
		return err
	}
	n, err := uc.batches.CountBySupplier(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("proveedor con %d lotes: %w", n, domain.ErrInUse)
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *SupplierUseCase) List(ctx context.Context, search string, page dto.PageRequest) ([]*entity.Supplier, dto.PageResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, textnorm.Fold(search), page.Limit, page.Offset)
	if err != nil {
		return nil, dto.PageResponse{}, err
	}
	return list, dto.PageResponse{Limit: page.Limit, Offset: page.Offset}, nil
}

func (uc *SupplierUseCase) apply(s *entity.Supplier, in dto.SupplierRequest) {
	s.Name = strings.TrimSpace(in.Name)
	s.TaxID = strings.TrimSpace(in.TaxID)
	s.ContactName = strings.TrimSpace(in.ContactName)
	s.Email = strings.ToLower(strings.TrimSpace(in.Email))
	s.Phone = uc.validator.NormalizePhone(in.Phone)
	s.SearchKey = textnorm.Key(s.Name, s.TaxID, s.ContactName)
}

// ── Vendedores ───────────────────────────────────────────────────────────────

// SalespersonUseCase CRUD de vendedores. Con ventas atribuidas solo se pueden desactivar.
type SalespersonUseCase struct {
	repo      repository.SalespersonRepository
	sales     repository.SaleRepository
	validator *validation.Validator
}

func NewSalespersonUseCase(repo repository.SalespersonRepository, sales repository.SaleRepository, validator *validation.Validator) *SalespersonUseCase {
	return &SalespersonUseCase{repo: repo, sales: sales, validator: validator}
}

func (uc *SalespersonUseCase) Create(ctx context.Context, in dto.SalespersonRequest) (*entity.Salesperson, error) {
	if fields := uc.validator.Struct(in); fields != nil {
		return nil, domain.NewValidationError(fields)
	}
	now := time.Now()
	sp := &entity.Salesperson{ID: uuid.New().String(), Active: true, CreatedAt: now, UpdatedAt: now}
	uc.apply(sp, in)
	if err := uc.repo.Create(ctx, sp); err != nil {
		return nil, err
	}
	return sp, nil
}

func (uc *SalespersonUseCase) GetByID(ctx context.Context, id string) (*entity.Salesperson, error) {
	sp, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, domain.ErrNotFound
	}
	return sp, nil
}

func (uc *SalespersonUseCase) Update(ctx context.Context, id string, in dto.SalespersonRequest) (*entity.Salesperson, error) {
	if fields := uc.validator.Struct(in); fields != nil {
		return nil, domain.NewValidationError(fields)
	}
	sp, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.apply(sp, in)
	sp.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, sp); err != nil {
		return nil, err
	}
	return sp, nil
}

func (uc *SalespersonUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.GetByID(ctx, id); err != nil {
		return err
	}
	n, err := uc.sales.CountBySalesperson(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("vendedor con %d ventas, desactívelo: %w", n, domain.ErrInUse)
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *SalespersonUseCase) List(ctx context.Context, onlyActive bool, page dto.PageRequest) ([]*entity.Salesperson, dto.PageResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, onlyActive, page.Limit, page.Offset)
	if err != nil {
		return nil, dto.PageResponse{}, err
	}
	return list, dto.PageResponse{Limit: page.Limit, Offset: page.Offset}, nil
}

func (uc *SalespersonUseCase) apply(sp *entity.Salesperson, in dto.SalespersonRequest) {
	sp.Name = strings.TrimSpace(in.Name)
	sp.Email = strings.ToLower(strings.TrimSpace(in.Email))
	sp.Phone = uc.validator.NormalizePhone(in.Phone)
	sp.CommissionRate = in.CommissionRate
	if in.Active != nil {
		sp.Active = *in.Active
	}
}
