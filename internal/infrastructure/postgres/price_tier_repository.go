package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

var _ repository.PriceTierRepository = (*PriceTierRepo)(nil)

// PriceTierRepo precios por volumen sobre PostgreSQL.
type PriceTierRepo struct {
	q Querier
}

func NewPriceTierRepository(q Querier) *PriceTierRepo {
	return &PriceTierRepo{q: q}
}

// Upsert crea o reemplaza el escalón (producto, cantidad mínima); t.ID queda con el id persistido.
func (r *PriceTierRepo) Upsert(ctx context.Context, t *entity.PriceTier) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO product_price_tiers (id, product_id, min_qty, unit_price)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id, min_qty) DO UPDATE SET unit_price = EXCLUDED.unit_price
		RETURNING id`,
		t.ID, t.ProductID, t.MinQty, t.UnitPrice,
	).Scan(&t.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("upsert price tier: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("upsert price tier: %w", err)
	}
	return nil
}

func (r *PriceTierRepo) Delete(ctx context.Context, productID string, minQty decimal.Decimal) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM product_price_tiers WHERE product_id = $1 AND min_qty = $2`, productID, minQty)
	if err != nil {
		return false, fmt.Errorf("delete price tier: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// ListByProduct escalones ordenados por cantidad mínima.
func (r *PriceTierRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.PriceTier, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, min_qty, unit_price FROM product_price_tiers
		WHERE product_id = $1 ORDER BY min_qty`, productID)
	if err != nil {
		return nil, fmt.Errorf("list price tiers: %w", err)
	}
	defer rows.Close()
	var list []*entity.PriceTier
	for rows.Next() {
		var t entity.PriceTier
		if err := rows.Scan(&t.ID, &t.ProductID, &t.MinQty, &t.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan price tier: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// FindApplicable escalón con mayor min_qty <= qty; nil si ninguno aplica.
func (r *PriceTierRepo) FindApplicable(ctx context.Context, productID string, qty decimal.Decimal) (*entity.PriceTier, error) {
	var t entity.PriceTier
	err := r.q.QueryRow(ctx, `
		SELECT id, product_id, min_qty, unit_price FROM product_price_tiers
		WHERE product_id = $1 AND min_qty <= $2
		ORDER BY min_qty DESC LIMIT 1`, productID, qty,
	).Scan(&t.ID, &t.ProductID, &t.MinQty, &t.UnitPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find price tier: %w", err)
	}
	return &t, nil
}
