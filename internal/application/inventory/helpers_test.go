package inventory

import (
	"context"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/bodega-api/internal/application/ports"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository/mocks"
)

// fakeTx ejecuta fn con los mocks; runs cuenta las transacciones abiertas.
type fakeTx struct {
	repos ports.Repos
	runs  atomic.Int32
}

func (f *fakeTx) Run(_ context.Context, fn func(r ports.Repos) error) error {
	f.runs.Add(1)
	return fn(f.repos)
}

type repoMocks struct {
	products  *mocks.ProductRepository
	lots      *mocks.LotRepository
	alerts    *mocks.AlertRepository
	movements *mocks.MovementRepository
	waste     *mocks.WasteRepository
	returns   *mocks.ReturnRepository
}

func newRepoMocks() (*repoMocks, *fakeTx) {
	m := &repoMocks{
		products:  new(mocks.ProductRepository),
		lots:      new(mocks.LotRepository),
		alerts:    new(mocks.AlertRepository),
		movements: new(mocks.MovementRepository),
		waste:     new(mocks.WasteRepository),
		returns:   new(mocks.ReturnRepository),
	}
	tx := &fakeTx{repos: ports.Repos{
		Products:  m.products,
		Lots:      m.lots,
		Alerts:    m.alerts,
		Movements: m.movements,
		Waste:     m.waste,
		Returns:   m.returns,
	}}
	return m, tx
}

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func decEq(n int64) interface{} {
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(n)) })
}

func alertOf(category string) interface{} {
	return mock.MatchedBy(func(a *entity.Alert) bool { return a.Category == category })
}

func product(id string, stock int64) *entity.Product {
	return &entity.Product{
		ID:        id,
		CompanyID: "c1",
		SKU:       "SKU-" + id,
		Name:      "Producto " + id,
		Stock:     decimal.NewNullDecimal(dec(stock)),
	}
}
