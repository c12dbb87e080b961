package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// PriceTierRepository puerto para precios por volumen.
type PriceTierRepository interface {
	// Upsert crea o reemplaza el precio del escalón (producto, cantidad mínima).
	Upsert(ctx context.Context, tier *entity.PriceTier) error
	Delete(ctx context.Context, productID string, minQty decimal.Decimal) (bool, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.PriceTier, error)
	// FindApplicable devuelve el escalón con mayor MinQty <= qty; nil si ninguno aplica.
	FindApplicable(ctx context.Context, productID string, qty decimal.Decimal) (*entity.PriceTier, error)
}
