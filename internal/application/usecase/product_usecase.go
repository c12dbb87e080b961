package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/inventory"
	"github.com/jhoicas/crm-api/internal/domain/repository"
	"github.com/jhoicas/crm-api/pkg/textnorm"
	"github.com/jhoicas/crm-api/pkg/validation"
)

// ProductUseCase casos de uso CRUD para productos. El precio de compra promedio y el stock
// se manejan vía lotes y movimientos, nunca desde aquí.
type ProductUseCase struct {
	repo      repository.ProductRepository
	movements repository.InventoryMovementRepository
	sales     repository.SaleRepository
	tiers     repository.PriceTierRepository
	validator *validation.Validator
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	movements repository.InventoryMovementRepository,
	sales repository.SaleRepository,
	tiers repository.PriceTierRepository,
	validator *validation.Validator,
) *ProductUseCase {
	return &ProductUseCase{repo: repo, movements: movements, sales: sales, tiers: tiers, validator: validator}
}

// Create crea un nuevo producto. El código es único (sin distinguir mayúsculas).
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*entity.Product, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if fields := uc.validator.Struct(in); fields != nil {
		return nil, domain.NewValidationError(fields)
	}
	existing, err := uc.repo.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		ShortName: strings.TrimSpace(in.ShortName),
		Category:  strings.TrimSpace(in.Category),
		SellPrice: in.SellPrice,
		CreatedAt: now,
		UpdatedAt: now,
	}
	product.SearchKey = productSearchKey(product)
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// Update actualiza datos descriptivos y precio de venta.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*entity.Product, error) {
	if fields := uc.validator.Struct(in); fields != nil {
		return nil, domain.NewValidationError(fields)
	}
	product, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.ShortName != nil {
		product.ShortName = strings.TrimSpace(*in.ShortName)
	}
	if in.Category != nil {
		product.Category = strings.TrimSpace(*in.Category)
	}
	if in.SellPrice != nil {
		product.SellPrice = *in.SellPrice
	}
	product.SearchKey = productSearchKey(product)
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// SetArchived archiva o reactiva un producto. Archivado no admite recepciones ni ventas.
func (uc *ProductUseCase) SetArchived(ctx context.Context, id string, archived bool) (*entity.Product, error) {
	if _, err := uc.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := uc.repo.SetArchived(ctx, id, archived); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// List lista productos con búsqueda insensible a tildes y paginación.
func (uc *ProductUseCase) List(ctx context.Context, search, category string, includeArchived bool, page dto.PageRequest) ([]*entity.Product, dto.PageResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		Search:          textnorm.Fold(search),
		Category:        strings.TrimSpace(category),
		IncludeArchived: includeArchived,
		Limit:           page.Limit,
		Offset:          page.Offset,
	})
	if err != nil {
		return nil, dto.PageResponse{}, err
	}
	return list, dto.PageResponse{Limit: page.Limit, Offset: page.Offset}, nil
}

// Delete elimina un producto sin historia. Con movimientos o ventas se debe archivar.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.GetByID(ctx, id); err != nil {
		return err
	}
	movs, err := uc.movements.CountByProduct(ctx, id)
	if err != nil {
		return err
	}
	sales, err := uc.sales.CountByProduct(ctx, id)
	if err != nil {
		return err
	}
	if movs > 0 || sales > 0 {
		return fmt.Errorf("producto con %d movimientos y %d ventas, archívelo: %w", movs, sales, domain.ErrInUse)
	}
	return uc.repo.Delete(ctx, id)
}

// ── Precios por volumen ──────────────────────────────────────────────────────

// UpsertPriceTier crea o reemplaza el escalón (producto, cantidad mínima).
func (uc *ProductUseCase) UpsertPriceTier(ctx context.Context, productID string, in dto.PriceTierRequest) (*entity.PriceTier, error) {
	if fields := uc.validator.Struct(in); fields != nil {
		return nil, domain.NewValidationError(fields)
	}
	if !inventory.FitsScale(in.MinQty, inventory.QuantityScale) {
		return nil, domain.Invalid("min_qty", "admite máximo 3 decimales")
	}
	if _, err := uc.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	tier := &entity.PriceTier{
		ID:        uuid.New().String(),
		ProductID: productID,
		MinQty:    in.MinQty,
		UnitPrice: in.UnitPrice.Round(inventory.PriceScale),
	}
	if err := uc.tiers.Upsert(ctx, tier); err != nil {
		return nil, err
	}
	return tier, nil
}

// DeletePriceTier elimina el escalón; ErrNotFound si no existía.
func (uc *ProductUseCase) DeletePriceTier(ctx context.Context, productID string, minQty decimal.Decimal) error {
	ok, err := uc.tiers.Delete(ctx, productID, minQty)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// ListPriceTiers escalones del producto ordenados por cantidad mínima.
func (uc *ProductUseCase) ListPriceTiers(ctx context.Context, productID string) ([]*entity.PriceTier, error) {
	if _, err := uc.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return uc.tiers.ListByProduct(ctx, productID)
}

// Quote precio unitario para qty: el escalón con mayor cantidad mínima <= qty,
// o el precio de venta del producto si ninguno aplica.
func (uc *ProductUseCase) Quote(ctx context.Context, productID string, qty decimal.Decimal) (*dto.PriceQuote, error) {
	if !qty.IsPositive() {
		return nil, domain.Invalid("qty", "debe ser mayor que 0")
	}
	product, err := uc.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	quote := &dto.PriceQuote{ProductID: productID, Quantity: qty, UnitPrice: product.SellPrice}
	tier, err := uc.tiers.FindApplicable(ctx, productID, qty)
	if err != nil {
		return nil, err
	}
	if tier != nil {
		quote.UnitPrice = tier.UnitPrice
		minQty := tier.MinQty
		quote.TierMin = &minQty
	}
	quote.Total = quote.UnitPrice.Mul(qty)
	return quote, nil
}

func productSearchKey(p *entity.Product) string {
	return textnorm.Key(p.Code, p.Name, p.ShortName, p.Category)
}
