package repository

import (
	"context"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// ReturnRepository puerto de persistencia para devoluciones de clientes.
type ReturnRepository interface {
	Create(ctx context.Context, r *entity.CustomerReturn) error
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.CustomerReturn, error)
	Update(ctx context.Context, r *entity.CustomerReturn) error
	ListByCompany(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.CustomerReturn, error)
}
