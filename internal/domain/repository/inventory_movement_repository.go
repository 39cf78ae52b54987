package repository

import (
	"context"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// InventoryMovementRepository puerto del kardex.
type InventoryMovementRepository interface {
	Create(ctx context.Context, m *entity.InventoryMovement) error
	ListByProduct(ctx context.Context, companyID, productID string, limit, offset int) ([]*entity.InventoryMovement, error)
}
