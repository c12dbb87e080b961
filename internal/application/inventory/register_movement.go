package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// ConsumeInTx asienta una salida (OUT) con los repositorios de la transacción del caller.
// El producto debe estar bloqueado por el caller; falla con ErrInsufficientStock si el
// stock derivado del libro es menor que qty.
func ConsumeInTx(ctx context.Context, r Repos, productID string, qty decimal.Decimal, refType, refID, userID string, now time.Time) (*entity.InventoryMovement, error) {
	if err := ensureAvailable(ctx, r, productID, qty); err != nil {
		return nil, err
	}
	mov := &entity.InventoryMovement{
		ID:        uuid.New().String(),
		ProductID: productID,
		Type:      entity.MovementTypeOUT,
		Quantity:  qty,
		RefType:   refType,
		RefID:     refID,
		CreatedAt: now,
		CreatedBy: userID,
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// RestockInTx asienta un ADJ positivo que devuelve qty al stock (reverso de una salida).
func RestockInTx(ctx context.Context, r Repos, productID string, qty decimal.Decimal, refType, refID, note, userID string, now time.Time) (*entity.InventoryMovement, error) {
	mov := &entity.InventoryMovement{
		ID:        uuid.New().String(),
		ProductID: productID,
		Type:      entity.MovementTypeADJ,
		Quantity:  qty,
		RefType:   refType,
		RefID:     refID,
		Note:      note,
		CreatedAt: now,
		CreatedBy: userID,
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// LockProduct bloquea la fila del producto dentro de la transacción del caller.
func LockProduct(ctx context.Context, r Repos, productID string) (*entity.Product, error) {
	return lockProduct(ctx, r, productID)
}
