package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/inventory"
)

// BatchRepository puerto de persistencia para lotes.
type BatchRepository interface {
	// UpsertActive inserta el lote o lo fusiona con el lote activo del mismo (producto, lote)
	// en una sola sentencia. batch queda con el estado resultante; merged indica fusión.
	UpsertActive(ctx context.Context, batch *entity.Batch, policy inventory.DatePolicy) (merged bool, err error)
	GetByID(ctx context.Context, id string) (*entity.Batch, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Batch, error)
	MarkVoided(ctx context.Context, id string, at time.Time) error
	// ActiveTotals Σ(qty) y Σ(qty·price) de los lotes no anulados del producto.
	ActiveTotals(ctx context.Context, productID string) (qty, value decimal.Decimal, err error)
	ListByProduct(ctx context.Context, productID string, includeVoided bool) ([]*entity.Batch, error)
	CountBySupplier(ctx context.Context, supplierID string) (int, error)
}
