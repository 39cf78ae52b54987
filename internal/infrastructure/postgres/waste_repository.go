package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

var _ repository.WasteRepository = (*WasteRepo)(nil)

// WasteRepo mermas sobre PostgreSQL.
type WasteRepo struct {
	q Querier
}

// NewWasteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWasteRepository(q Querier) *WasteRepo {
	return &WasteRepo{q: q}
}

// Create persiste una merma.
func (r *WasteRepo) Create(ctx context.Context, w *entity.Waste) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO wastes (id, company_id, product_id, quantity, cause, note, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		w.ID, w.CompanyID, w.ProductID, w.Quantity, w.Cause, w.Note, nullableString(w.CreatedBy), w.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert waste: %w", err)
	}
	return nil
}

// ListByCompany mermas más recientes primero.
func (r *WasteRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Waste, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, company_id, product_id, quantity, cause, note, created_by, created_at
		 FROM wastes WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		companyID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list wastes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Waste
	for rows.Next() {
		var w entity.Waste
		var createdBy *string
		if err := rows.Scan(&w.ID, &w.CompanyID, &w.ProductID, &w.Quantity, &w.Cause, &w.Note, &createdBy, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan waste: %w", err)
		}
		if createdBy != nil {
			w.CreatedBy = *createdBy
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}
