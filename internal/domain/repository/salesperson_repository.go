package repository

import (
	"context"

	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// SalespersonRepository puerto de persistencia para vendedores.
type SalespersonRepository interface {
	Create(ctx context.Context, sp *entity.Salesperson) error
	GetByID(ctx context.Context, id string) (*entity.Salesperson, error)
	Update(ctx context.Context, sp *entity.Salesperson) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, onlyActive bool, limit, offset int) ([]*entity.Salesperson, error)
}
