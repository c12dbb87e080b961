package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/inventory"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, product_id, lot_number, purchase_date, expiry_date, purchase_price, qty_received,
	supplier_id, supplier_name, supplier_ref, voided_at, COALESCE(created_by::text, ''), created_at, updated_at`

// upsertBatchSQL fusiona con el lote activo del mismo (producto, lote) usando el índice único parcial.
// %s es LEAST o GREATEST según la política de fecha. En DO UPDATE, "batches" es la fila existente.
const upsertBatchSQL = `
	INSERT INTO batches (id, product_id, lot_number, purchase_date, expiry_date, purchase_price, qty_received,
		supplier_id, supplier_name, supplier_ref, created_by, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (product_id, lot_number) WHERE voided_at IS NULL DO UPDATE SET
		purchase_price = ROUND(
			(batches.qty_received * batches.purchase_price + EXCLUDED.qty_received * EXCLUDED.purchase_price)
			/ (batches.qty_received + EXCLUDED.qty_received), 3),
		qty_received  = batches.qty_received + EXCLUDED.qty_received,
		purchase_date = %s(batches.purchase_date, EXCLUDED.purchase_date),
		expiry_date   = COALESCE(batches.expiry_date, EXCLUDED.expiry_date),
		supplier_id   = COALESCE(batches.supplier_id, EXCLUDED.supplier_id),
		supplier_name = COALESCE(batches.supplier_name, EXCLUDED.supplier_name),
		supplier_ref  = COALESCE(batches.supplier_ref, EXCLUDED.supplier_ref),
		updated_at    = EXCLUDED.updated_at
	RETURNING ` + batchColumns + `, (xmax::text <> '0') AS merged`

// upsertBatchQuery arma el upsert para la política de fecha. Debe coincidir con
// inventory.MergeBatch, que es lo que ejecutan las pruebas en memoria.
func upsertBatchQuery(policy inventory.DatePolicy) string {
	pick := "LEAST"
	if policy == inventory.DatePolicyLatest {
		pick = "GREATEST"
	}
	return fmt.Sprintf(upsertBatchSQL, pick)
}

// BatchRepo implementación del puerto BatchRepository sobre PostgreSQL.
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// UpsertActive inserta el lote o lo fusiona en una sola sentencia; batch queda con la fila resultante.
func (r *BatchRepo) UpsertActive(ctx context.Context, b *entity.Batch, policy inventory.DatePolicy) (bool, error) {
	row := r.q.QueryRow(ctx, upsertBatchQuery(policy),
		b.ID, b.ProductID, b.LotNumber, b.PurchaseDate, b.ExpiryDate, b.PurchasePrice, b.QtyReceived,
		b.SupplierID, b.SupplierName, b.SupplierRef, nullString(b.CreatedBy), b.CreatedAt, b.UpdatedAt,
	)
	var merged bool
	err := row.Scan(
		&b.ID, &b.ProductID, &b.LotNumber, &b.PurchaseDate, &b.ExpiryDate, &b.PurchasePrice, &b.QtyReceived,
		&b.SupplierID, &b.SupplierName, &b.SupplierRef, &b.VoidedAt, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt,
		&merged,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, fmt.Errorf("upsert batch: %w", domain.ErrNotFound)
		}
		return false, fmt.Errorf("upsert batch: %w", err)
	}
	return merged, nil
}

func (r *BatchRepo) GetByID(ctx context.Context, id string) (*entity.Batch, error) {
	return r.getOne(ctx, `SELECT `+batchColumns+` FROM batches WHERE id = $1`, id)
}

// GetForUpdate obtiene el lote con bloqueo FOR UPDATE (usar dentro de TxRunner).
func (r *BatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.Batch, error) {
	return r.getOne(ctx, `SELECT `+batchColumns+` FROM batches WHERE id = $1 FOR UPDATE`, id)
}

func (r *BatchRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Batch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// MarkVoided sella voided_at; un lote ya anulado no se modifica.
func (r *BatchRepo) MarkVoided(ctx context.Context, id string, at time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE batches SET voided_at = $2, updated_at = $2 WHERE id = $1 AND voided_at IS NULL`, id, at)
	if err != nil {
		return fmt.Errorf("void batch: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrAlreadyVoided
	}
	return nil
}

// ActiveTotals Σ(qty) y Σ(qty·price) de los lotes no anulados del producto.
func (r *BatchRepo) ActiveTotals(ctx context.Context, productID string) (decimal.Decimal, decimal.Decimal, error) {
	var qty, value decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(qty_received), 0), COALESCE(SUM(qty_received * purchase_price), 0)
		FROM batches WHERE product_id = $1 AND voided_at IS NULL`, productID,
	).Scan(&qty, &value)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("batch totals: %w", err)
	}
	return qty, value, nil
}

// ListByProduct lotes del producto, más antiguos primero.
func (r *BatchRepo) ListByProduct(ctx context.Context, productID string, includeVoided bool) ([]*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE product_id = $1`
	if !includeVoided {
		query += ` AND voided_at IS NULL`
	}
	query += ` ORDER BY purchase_date, lot_number`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func (r *BatchRepo) CountBySupplier(ctx context.Context, supplierID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM batches WHERE supplier_id = $1`, supplierID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count batches by supplier: %w", err)
	}
	return n, nil
}

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	err := row.Scan(
		&b.ID, &b.ProductID, &b.LotNumber, &b.PurchaseDate, &b.ExpiryDate, &b.PurchasePrice, &b.QtyReceived,
		&b.SupplierID, &b.SupplierName, &b.SupplierRef, &b.VoidedAt, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
