package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los Get devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE); usar dentro de una transacción.
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error)
	GetByCompanyAndSKU(ctx context.Context, companyID, sku string) (*entity.Product, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error)
	// ListAll devuelve todos los productos de la empresa (instantánea para triage y sincronización).
	ListAll(ctx context.Context, companyID string) ([]*entity.Product, error)
	ListByLocation(ctx context.Context, companyID, location string) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// SetStock escribe la misma cantidad en stock, quantity y total_stock.
	SetStock(ctx context.Context, companyID, id string, qty decimal.Decimal) error
	CompanyIDs(ctx context.Context) ([]string, error)
}
