package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

const lotColumns = `id, company_id, product_id, lot_number, quantity, expiry_date, created_at`

// LotRepo lotes de inventario sobre PostgreSQL.
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

func scanLot(row rowScanner) (*entity.InventoryLot, error) {
	var l entity.InventoryLot
	if err := row.Scan(&l.ID, &l.CompanyID, &l.ProductID, &l.LotNumber, &l.Quantity, &l.ExpiryDate, &l.CreatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

// Create persiste un lote. Quantity nula se guarda como NULL.
func (r *LotRepo) Create(ctx context.Context, lot *entity.InventoryLot) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO inventory_lots (`+lotColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		lot.ID, lot.CompanyID, lot.ProductID, lot.LotNumber, lot.Quantity, lot.ExpiryDate, lot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote.
func (r *LotRepo) GetByID(ctx context.Context, companyID, id string) (*entity.InventoryLot, error) {
	l, err := scanLot(r.q.QueryRow(ctx,
		`SELECT `+lotColumns+` FROM inventory_lots WHERE company_id = $1 AND id = $2`, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return l, nil
}

// ListByProduct lotes de un producto.
func (r *LotRepo) ListByProduct(ctx context.Context, companyID, productID string) ([]*entity.InventoryLot, error) {
	return r.list(ctx, `SELECT `+lotColumns+` FROM inventory_lots WHERE company_id = $1 AND product_id = $2
		ORDER BY created_at, id`, companyID, productID)
}

// ListByCompany instantánea completa de lotes de la empresa.
func (r *LotRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.InventoryLot, error) {
	return r.list(ctx, `SELECT `+lotColumns+` FROM inventory_lots WHERE company_id = $1 ORDER BY created_at, id`, companyID)
}

func (r *LotRepo) list(ctx context.Context, query string, args ...any) ([]*entity.InventoryLot, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryLot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}
