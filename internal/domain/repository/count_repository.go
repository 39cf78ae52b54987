package repository

import (
	"context"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// CountRepository puerto de persistencia para sesiones de conteo. Las líneas viajan con la sesión.
type CountRepository interface {
	Create(ctx context.Context, session *entity.CountSession) error
	GetByID(ctx context.Context, companyID, id string) (*entity.CountSession, error)
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.CountSession, error)
	Update(ctx context.Context, session *entity.CountSession) error
	ListByCompany(ctx context.Context, companyID, location string, limit, offset int) ([]*entity.CountSession, error)
}
