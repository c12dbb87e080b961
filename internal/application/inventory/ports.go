package inventory

import (
	"context"

	"github.com/jhoicas/crm-api/internal/domain/repository"
)

// Repos repositorios atados a la misma transacción.
type Repos struct {
	Products  repository.ProductRepository
	Batches   repository.BatchRepository
	Movements repository.InventoryMovementRepository
	Sales     repository.SaleRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback: ningún cambio parcial queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}
