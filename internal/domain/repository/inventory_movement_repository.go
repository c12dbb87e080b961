package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// InventoryMovementRepository puerto del libro de movimientos (solo inserción y lectura).
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	// OnHand suma con signo todos los movimientos del producto (0 si no hay filas).
	OnHand(ctx context.Context, productID string) (decimal.Decimal, error)
	ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
	CountByProduct(ctx context.Context, productID string) (int, error)
}
