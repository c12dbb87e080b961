package inventory

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
	"github.com/jhoicas/crm-api/pkg/validation"
)

// UseCase motor de costeo: recepción y anulación de lotes, ajustes manuales y
// recálculo del precio de compra promedio. Toda mutación corre en una transacción
// que bloquea primero la fila del producto (SELECT FOR UPDATE) y luego el lote.
type UseCase struct {
	txRunner  TxRunner
	products  repository.ProductRepository
	batches   repository.BatchRepository
	movements repository.InventoryMovementRepository
	suppliers repository.SupplierRepository
	validator *validation.Validator
	policy    inventory.DatePolicy
	now       func() time.Time
}

// NewUseCase construye el motor de costeo.
func NewUseCase(
	txRunner TxRunner,
	products repository.ProductRepository,
	batches repository.BatchRepository,
	movements repository.InventoryMovementRepository,
	suppliers repository.SupplierRepository,
	validator *validation.Validator,
	policy inventory.DatePolicy,
) *UseCase {
	if policy == "" {
		policy = inventory.DatePolicyEarliest
	}
	return &UseCase{
		txRunner:  txRunner,
		products:  products,
		batches:   batches,
		movements: movements,
		suppliers: suppliers,
		validator: validator,
		policy:    policy,
		now:       time.Now,
	}
}

// WithClock reemplaza el reloj (pruebas).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// ReceiveResult lote resultante de una recepción.
type ReceiveResult struct {
	Batch    *entity.Batch
	Merged   bool
	Movement *entity.InventoryMovement
}

// ReceiveBatch registra una recepción: fusiona con el lote activo del mismo (producto, lote)
// o crea uno nuevo, asienta un IN por la cantidad recibida y recalcula el promedio.
func (uc *UseCase) ReceiveBatch(ctx context.Context, userID string, in dto.ReceiveBatchRequest) (*ReceiveResult, error) {
	in.LotNumber = strings.TrimSpace(in.LotNumber)
	if fields := uc.validator.Struct(in); fields != nil {
		return nil, domain.NewValidationError(fields)
	}
	if in.LotNumber == "" {
		return nil, domain.Invalid("lot_number", "es requerido")
	}
	price := in.PurchasePrice.Round(inventory.PriceScale)
	if !price.IsPositive() {
		return nil, domain.Invalid("purchase_price", "debe ser mayor que 0 con 3 decimales")
	}
	if !inventory.FitsScale(in.Quantity, inventory.QuantityScale) {
		return nil, domain.Invalid("quantity", "admite máximo 3 decimales")
	}
	if in.PurchaseDate.IsZero() {
		return nil, domain.Invalid("purchase_date", "es requerido")
	}
	if in.ExpiryDate != nil && !in.ExpiryDate.IsZero() && in.ExpiryDate.Before(in.PurchaseDate.Time) {
		return nil, domain.Invalid("expiry_date", "no puede ser anterior a la fecha de compra")
	}

	var supplier *entity.Supplier
	if in.SupplierID != nil && *in.SupplierID != "" {
		s, err := uc.suppliers.GetByID(ctx, *in.SupplierID)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, fmt.Errorf("proveedor %s: %w", *in.SupplierID, domain.ErrNotFound)
		}
		supplier = s
	}

	now := uc.now()
	incoming := &entity.Batch{
		ID:            uuid.New().String(),
		ProductID:     in.ProductID,
		LotNumber:     in.LotNumber,
		PurchaseDate:  in.PurchaseDate.Time,
		ExpiryDate:    dto.TimePtr(in.ExpiryDate),
		PurchasePrice: price,
		QtyReceived:   in.Quantity,
		SupplierName:  nonEmpty(in.SupplierName),
		SupplierRef:   nonEmpty(in.SupplierRef),
		CreatedAt:     now,
		UpdatedAt:     now,
		CreatedBy:     userID,
	}
	if supplier != nil {
		incoming.SupplierID = &supplier.ID
		if incoming.SupplierName == nil {
			name := supplier.Name
			incoming.SupplierName = &name
		}
	}

	var res ReceiveResult
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r Repos) error {
		product, err := lockProduct(ctx, r, in.ProductID)
		if err != nil {
			return err
		}
		if product.Archived {
			return fmt.Errorf("producto archivado: %w", domain.ErrConflict)
		}

		merged, err := r.Batches.UpsertActive(ctx, incoming, uc.policy)
		if err != nil {
			return err
		}
		mov := &entity.InventoryMovement{
			ID:        uuid.New().String(),
			ProductID: in.ProductID,
			Type:      entity.MovementTypeIN,
			Quantity:  in.Quantity,
			RefType:   entity.MovementRefBatch,
			RefID:     incoming.ID,
			Note:      "recepción lote " + incoming.LotNumber,
			CreatedAt: now,
			CreatedBy: userID,
		}
		if err := r.Movements.Create(ctx, mov); err != nil {
			return err
		}
		if _, err := recompute(ctx, r, in.ProductID); err != nil {
			return err
		}
		res = ReceiveResult{Batch: incoming, Merged: merged, Movement: mov}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// VoidBatch anula un lote: rechaza si ya estaba anulado o si el stock actual es menor
// que la cantidad recibida. Asienta un ADJ por -cantidad, marca el lote y recalcula el promedio.
func (uc *UseCase) VoidBatch(ctx context.Context, userID, batchID string) (*entity.Batch, error) {
	existing, err := uc.batches.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}

	var voided *entity.Batch
	err = uc.txRunner.Run(ctx, func(ctx context.Context, r Repos) error {
		if _, err := lockProduct(ctx, r, existing.ProductID); err != nil {
			return err
		}
		batch, err := r.Batches.GetForUpdate(ctx, batchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return domain.ErrNotFound
		}
		if !batch.Active() {
			return domain.ErrAlreadyVoided
		}
		onHand, err := r.Movements.OnHand(ctx, batch.ProductID)
		if err != nil {
			return err
		}
		if onHand.LessThan(batch.QtyReceived) {
			return fmt.Errorf("stock actual %s menor que el lote %s, use un ajuste: %w",
				onHand.String(), batch.QtyReceived.String(), domain.ErrInsufficientStock)
		}

		now := uc.now()
		mov := &entity.InventoryMovement{
			ID:        uuid.New().String(),
			ProductID: batch.ProductID,
			Type:      entity.MovementTypeADJ,
			Quantity:  batch.QtyReceived.Neg(),
			RefType:   entity.MovementRefBatch,
			RefID:     batch.ID,
			Note:      "anulación lote " + batch.LotNumber,
			CreatedAt: now,
			CreatedBy: userID,
		}
		if err := r.Movements.Create(ctx, mov); err != nil {
			return err
		}
		if err := r.Batches.MarkVoided(ctx, batch.ID, now); err != nil {
			return err
		}
		if _, err := recompute(ctx, r, batch.ProductID); err != nil {
			return err
		}
		batch.VoidedAt = &now
		voided = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return voided, nil
}

// RegisterAdjustment asienta un ajuste manual. ADJ admite signo pero nunca deja el stock
// negativo; RETURN debe ser positivo.
func (uc *UseCase) RegisterAdjustment(ctx context.Context, userID string, in dto.AdjustmentRequest) (*entity.InventoryMovement, error) {
	if fields := uc.validator.Struct(in); fields != nil {
		return nil, domain.NewValidationError(fields)
	}
	switch {
	case !inventory.FitsScale(in.Quantity, inventory.QuantityScale):
		return nil, domain.Invalid("quantity", "admite máximo 3 decimales")
	case in.Quantity.IsZero():
		return nil, domain.Invalid("quantity", "no puede ser cero")
	case in.Type == entity.MovementTypeRETURN && in.Quantity.IsNegative():
		return nil, domain.Invalid("quantity", "debe ser mayor que 0")
	}

	var mov *entity.InventoryMovement
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r Repos) error {
		if _, err := lockProduct(ctx, r, in.ProductID); err != nil {
			return err
		}
		if in.Quantity.IsNegative() {
			if err := ensureAvailable(ctx, r, in.ProductID, in.Quantity.Neg()); err != nil {
				return err
			}
		}
		mov = &entity.InventoryMovement{
			ID:        uuid.New().String(),
			ProductID: in.ProductID,
			Type:      in.Type,
			Quantity:  in.Quantity,
			RefType:   entity.MovementRefManual,
			Note:      strings.TrimSpace(in.Note),
			CreatedAt: uc.now(),
			CreatedBy: userID,
		}
		return r.Movements.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// RecomputeAveragePurchasePrice recalcula y persiste el promedio del producto.
func (uc *UseCase) RecomputeAveragePurchasePrice(ctx context.Context, productID string) (*decimal.Decimal, error) {
	var avg *decimal.Decimal
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r Repos) error {
		if _, err := lockProduct(ctx, r, productID); err != nil {
			return err
		}
		var err error
		avg, err = recompute(ctx, r, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return avg, nil
}

// OnHand stock del producto, siempre derivado del libro.
func (uc *UseCase) OnHand(ctx context.Context, productID string) (decimal.Decimal, error) {
	if _, err := uc.getProduct(ctx, productID); err != nil {
		return decimal.Zero, err
	}
	return uc.movements.OnHand(ctx, productID)
}

// StockSummary stock, promedio y lotes activos de un producto.
func (uc *UseCase) StockSummary(ctx context.Context, productID string) (*dto.StockSummary, error) {
	product, err := uc.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	onHand, err := uc.movements.OnHand(ctx, productID)
	if err != nil {
		return nil, err
	}
	active, err := uc.batches.ListByProduct(ctx, productID, false)
	if err != nil {
		return nil, err
	}
	return &dto.StockSummary{
		ProductID:        productID,
		OnHand:           onHand,
		AvgPurchasePrice: product.AvgPurchasePrice,
		ActiveBatches:    len(active),
	}, nil
}

// GetBatch obtiene un lote por ID.
func (uc *UseCase) GetBatch(ctx context.Context, id string) (*entity.Batch, error) {
	b, err := uc.batches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

// ListBatches lotes del producto, opcionalmente incluyendo anulados.
func (uc *UseCase) ListBatches(ctx context.Context, productID string, includeVoided bool) ([]*entity.Batch, error) {
	if _, err := uc.getProduct(ctx, productID); err != nil {
		return nil, err
	}
	return uc.batches.ListByProduct(ctx, productID, includeVoided)
}

// ListMovements asientos del producto en un rango de fechas, más recientes primero.
func (uc *UseCase) ListMovements(ctx context.Context, productID string, from, to *time.Time, page dto.PageRequest) ([]*entity.InventoryMovement, error) {
	if _, err := uc.getProduct(ctx, productID); err != nil {
		return nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, domain.Invalid("to", "debe ser posterior a from")
	}
	page.DefaultPage()
	return uc.movements.ListByProduct(ctx, productID, from, to, page.Limit, page.Offset)
}

func (uc *UseCase) getProduct(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// lockProduct bloquea la fila del producto; serializa todas las mutaciones de su inventario.
func lockProduct(ctx context.Context, r Repos, productID string) (*entity.Product, error) {
	p, err := r.Products.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// recompute persiste Σ(qty·price)/Σ(qty) de los lotes activos (NULL sin lotes activos).
func recompute(ctx context.Context, r Repos, productID string) (*decimal.Decimal, error) {
	qty, value, err := r.Batches.ActiveTotals(ctx, productID)
	if err != nil {
		return nil, err
	}
	avg := inventory.AveragePrice(qty, value)
	if err := r.Products.UpdateAvgPurchasePrice(ctx, productID, avg); err != nil {
		return nil, err
	}
	return avg, nil
}

func ensureAvailable(ctx context.Context, r Repos, productID string, qty decimal.Decimal) error {
	onHand, err := r.Movements.OnHand(ctx, productID)
	if err != nil {
		return err
	}
	if onHand.LessThan(qty) {
		return fmt.Errorf("disponible %s, solicitado %s: %w", onHand.String(), qty.String(), domain.ErrInsufficientStock)
	}
	return nil
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
