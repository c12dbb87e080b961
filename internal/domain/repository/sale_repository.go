package repository

import (
	"context"
	"time"

	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// SaleFilter criterios de listado de ventas.
type SaleFilter struct {
	ClientID      string
	ProductID     string
	SalespersonID string
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}

// SaleRepository puerto de persistencia para ventas.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// DeleteReturning borra la venta y devuelve la fila borrada; nil si no existía.
	DeleteReturning(ctx context.Context, id string) (*entity.Sale, error)
	List(ctx context.Context, f SaleFilter) ([]*entity.Sale, error)
	CountByClient(ctx context.Context, clientID string) (int, error)
	CountByProduct(ctx context.Context, productID string) (int, error)
	CountBySalesperson(ctx context.Context, salespersonID string) (int, error)
}
