package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

var _ repository.SalespersonRepository = (*SalespersonRepo)(nil)

const salespersonColumns = `id, name, email, phone, commission_rate, active, created_at, updated_at`

// SalespersonRepo vendedores sobre PostgreSQL.
type SalespersonRepo struct {
	q Querier
}

func NewSalespersonRepository(q Querier) *SalespersonRepo {
	return &SalespersonRepo{q: q}
}

func (r *SalespersonRepo) Create(ctx context.Context, sp *entity.Salesperson) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO salespersons (id, name, email, phone, commission_rate, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		sp.ID, sp.Name, sp.Email, sp.Phone, sp.CommissionRate, sp.Active, sp.CreatedAt, sp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert salesperson: %w", err)
	}
	return nil
}

func (r *SalespersonRepo) GetByID(ctx context.Context, id string) (*entity.Salesperson, error) {
	sp, err := scanSalesperson(r.q.QueryRow(ctx, `SELECT `+salespersonColumns+` FROM salespersons WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get salesperson: %w", err)
	}
	return sp, nil
}

func (r *SalespersonRepo) Update(ctx context.Context, sp *entity.Salesperson) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE salespersons SET name = $2, email = $3, phone = $4, commission_rate = $5, active = $6, updated_at = $7
		WHERE id = $1`,
		sp.ID, sp.Name, sp.Email, sp.Phone, sp.CommissionRate, sp.Active, sp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update salesperson: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el vendedor; con ventas atribuidas devuelve ErrInUse.
func (r *SalespersonRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM salespersons WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInUse
		}
		return fmt.Errorf("delete salesperson: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SalespersonRepo) List(ctx context.Context, onlyActive bool, limit, offset int) ([]*entity.Salesperson, error) {
	rows, err := r.q.Query(ctx, `SELECT `+salespersonColumns+` FROM salespersons
		WHERE (NOT $1 OR active) ORDER BY name LIMIT $2 OFFSET $3`, onlyActive, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list salespersons: %w", err)
	}
	defer rows.Close()
	var list []*entity.Salesperson
	for rows.Next() {
		sp, err := scanSalesperson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan salesperson: %w", err)
		}
		list = append(list, sp)
	}
	return list, rows.Err()
}

func scanSalesperson(row pgx.Row) (*entity.Salesperson, error) {
	var sp entity.Salesperson
	if err := row.Scan(&sp.ID, &sp.Name, &sp.Email, &sp.Phone, &sp.CommissionRate, &sp.Active, &sp.CreatedAt, &sp.UpdatedAt); err != nil {
		return nil, err
	}
	return &sp, nil
}
