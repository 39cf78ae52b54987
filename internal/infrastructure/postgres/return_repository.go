package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

var _ repository.ReturnRepository = (*ReturnRepo)(nil)

const returnColumns = `id, company_id, product_id, quantity, reason, customer_name, status,
	created_by, created_at, resolved_by, resolved_at`

// ReturnRepo devoluciones de clientes sobre PostgreSQL.
type ReturnRepo struct {
	q Querier
}

// NewReturnRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReturnRepository(q Querier) *ReturnRepo {
	return &ReturnRepo{q: q}
}

func scanReturn(row rowScanner) (*entity.CustomerReturn, error) {
	var r entity.CustomerReturn
	var createdBy, resolvedBy *string
	err := row.Scan(&r.ID, &r.CompanyID, &r.ProductID, &r.Quantity, &r.Reason, &r.CustomerName, &r.Status,
		&createdBy, &r.CreatedAt, &resolvedBy, &r.ResolvedAt)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		r.CreatedBy = *createdBy
	}
	if resolvedBy != nil {
		r.ResolvedBy = *resolvedBy
	}
	return &r, nil
}

// Create persiste la devolución.
func (r *ReturnRepo) Create(ctx context.Context, ret *entity.CustomerReturn) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO customer_returns (`+returnColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		ret.ID, ret.CompanyID, ret.ProductID, ret.Quantity, ret.Reason, ret.CustomerName, ret.Status,
		nullableString(ret.CreatedBy), ret.CreatedAt, nullableString(ret.ResolvedBy), ret.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("insert return: %w", err)
	}
	return nil
}

// GetForUpdate obtiene la devolución bloqueando la fila (aprobación y rechazo).
func (r *ReturnRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.CustomerReturn, error) {
	ret, err := scanReturn(r.q.QueryRow(ctx,
		`SELECT `+returnColumns+` FROM customer_returns WHERE company_id = $1 AND id = $2 FOR UPDATE`, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get return: %w", err)
	}
	return ret, nil
}

// Update persiste el estado de resolución.
func (r *ReturnRepo) Update(ctx context.Context, ret *entity.CustomerReturn) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE customer_returns SET status = $3, resolved_by = $4, resolved_at = $5 WHERE company_id = $1 AND id = $2`,
		ret.CompanyID, ret.ID, ret.Status, nullableString(ret.ResolvedBy), ret.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("update return: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany devoluciones más recientes primero; status vacío = todas.
func (r *ReturnRepo) ListByCompany(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.CustomerReturn, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+returnColumns+` FROM customer_returns
		 WHERE company_id = $1 AND ($2::text = '' OR status = $2)
		 ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		companyID, status, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	defer rows.Close()
	var list []*entity.CustomerReturn
	for rows.Next() {
		ret, err := scanReturn(rows)
		if err != nil {
			return nil, fmt.Errorf("scan return: %w", err)
		}
		list = append(list, ret)
	}
	return list, rows.Err()
}
