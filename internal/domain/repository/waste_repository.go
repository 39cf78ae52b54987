package repository

import (
	"context"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// WasteRepository puerto de persistencia para mermas.
type WasteRepository interface {
	Create(ctx context.Context, w *entity.Waste) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Waste, error)
}
