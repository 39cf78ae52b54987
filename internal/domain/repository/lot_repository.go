package repository

import (
	"context"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// LotRepository puerto de persistencia para lotes de inventario.
type LotRepository interface {
	Create(ctx context.Context, lot *entity.InventoryLot) error
	GetByID(ctx context.Context, companyID, id string) (*entity.InventoryLot, error)
	ListByProduct(ctx context.Context, companyID, productID string) ([]*entity.InventoryLot, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.InventoryLot, error)
}
