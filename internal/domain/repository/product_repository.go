package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// ProductFilter criterios de listado de productos.
type ProductFilter struct {
	Search          string // clave plegada (textnorm.Fold)
	Category        string
	IncludeArchived bool
	Limit           int
	Offset          int
}

// ProductRepository puerto de persistencia para productos.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// Update no modifica AvgPurchasePrice (lo mantiene el motor de costeo).
	Update(ctx context.Context, product *entity.Product) error
	SetArchived(ctx context.Context, id string, archived bool) error
	UpdateAvgPurchasePrice(ctx context.Context, id string, avg *decimal.Decimal) error
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
