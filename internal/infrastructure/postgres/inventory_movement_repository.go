package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo kardex sobre PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento de inventario.
func (r *InventoryMovementRepo) Create(ctx context.Context, movement *entity.InventoryMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_movements (id, transaction_id, company_id, product_id, type, quantity, balance, reason, reference, date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.TransactionID, movement.CompanyID, movement.ProductID, movement.Type,
		movement.Quantity, movement.Balance, movement.Reason, movement.Reference,
		movement.Date, movement.CreatedAt, nullableString(movement.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// ListByProduct kardex de un producto, más reciente primero.
func (r *InventoryMovementRepo) ListByProduct(ctx context.Context, companyID, productID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT id, transaction_id, company_id, product_id, type, quantity, balance, reason, reference, date, created_at, created_by
		FROM inventory_movements WHERE company_id = $1 AND product_id = $2
		ORDER BY date DESC, created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		var createdBy *string
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.CompanyID, &m.ProductID, &m.Type, &m.Quantity, &m.Balance,
			&m.Reason, &m.Reference, &m.Date, &m.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if createdBy != nil {
			m.CreatedBy = *createdBy
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
