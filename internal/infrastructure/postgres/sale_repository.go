package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleSelect = `
	SELECT s.id, s.client_id, s.product_id, s.salesperson_id::text, s.quantity, s.unit_price, s.sale_date, s.notes,
		COALESCE(s.created_by::text, ''), s.created_at,
		c.name, p.code, p.name, COALESCE(sp.name, '')
	FROM sales s
	JOIN clients c ON c.id = s.client_id
	JOIN products p ON p.id = s.product_id
	LEFT JOIN salespersons sp ON sp.id = s.salesperson_id`

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la venta. Referencias inexistentes devuelven ErrNotFound.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, client_id, product_id, salesperson_id, quantity, unit_price, sale_date, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.ClientID, s.ProductID, s.SalespersonID, s.Quantity, s.UnitPrice, s.SaleDate, s.Notes,
		nullString(s.CreatedBy), s.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("insert sale: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// GetByID obtiene la venta con nombres de cliente, producto y vendedor.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, saleSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// DeleteReturning borra la venta y devuelve la fila borrada; nil si no existía.
func (r *SaleRepo) DeleteReturning(ctx context.Context, id string) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(ctx, `
		DELETE FROM sales WHERE id = $1
		RETURNING id, client_id, product_id, salesperson_id::text, quantity, unit_price, sale_date, notes,
			COALESCE(created_by::text, ''), created_at`, id,
	).Scan(&s.ID, &s.ClientID, &s.ProductID, &s.SalespersonID, &s.Quantity, &s.UnitPrice, &s.SaleDate, &s.Notes,
		&s.CreatedBy, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("delete sale: %w", err)
	}
	return &s, nil
}

// List ventas por fecha descendente con filtros opcionales.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.ClientID != "" {
		add("s.client_id = $%d", f.ClientID)
	}
	if f.ProductID != "" {
		add("s.product_id = $%d", f.ProductID)
	}
	if f.SalespersonID != "" {
		add("s.salesperson_id = $%d", f.SalespersonID)
	}
	if f.From != nil {
		add("s.sale_date >= $%d", *f.From)
	}
	if f.To != nil {
		add("s.sale_date <= $%d", *f.To)
	}
	query := saleSelect
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(` ORDER BY s.sale_date DESC, s.created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *SaleRepo) CountByClient(ctx context.Context, clientID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM sales WHERE client_id = $1`, clientID)
}

func (r *SaleRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM sales WHERE product_id = $1`, productID)
}

func (r *SaleRepo) CountBySalesperson(ctx context.Context, salespersonID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM sales WHERE salesperson_id = $1`, salespersonID)
}

func (r *SaleRepo) count(ctx context.Context, query, id string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, query, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sales: %w", err)
	}
	return n, nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(
		&s.ID, &s.ClientID, &s.ProductID, &s.SalespersonID, &s.Quantity, &s.UnitPrice, &s.SaleDate, &s.Notes,
		&s.CreatedBy, &s.CreatedAt,
		&s.ClientName, &s.ProductCode, &s.ProductName, &s.SalespersonName,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
