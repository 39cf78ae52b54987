package ports

import (
	"context"

	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Products  repository.ProductRepository
	Lots      repository.LotRepository
	Counts    repository.CountRepository
	Alerts    repository.AlertRepository
	Movements repository.InventoryMovementRepository
	Waste     repository.WasteRepository
	Returns   repository.ReturnRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD. Si fn devuelve error se hace Rollback
// y ninguna escritura del evento de negocio queda aplicada.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
