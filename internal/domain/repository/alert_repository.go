package repository

import (
	"context"
	"time"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// AlertRepository puerto del almacén de alertas (append-only salvo la marca de leído).
type AlertRepository interface {
	Create(ctx context.Context, alert *entity.Alert) error
	ListByCompany(ctx context.Context, companyID string, unreadOnly bool, limit, offset int) ([]*entity.Alert, error)
	CountUnread(ctx context.Context, companyID string) (int, error)
	MarkRead(ctx context.Context, companyID, id string) error
	// ExistsSince indica si ya hay una alerta con esa categoría y referencia desde since.
	ExistsSince(ctx context.Context, companyID, category, reference string, since time.Time) (bool, error)
}
