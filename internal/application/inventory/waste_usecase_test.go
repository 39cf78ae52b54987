package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

func TestWaste_DescuentaStockYRegistraTodoEnUnaTransaccion(t *testing.T) {
	m, tx := newRepoMocks()
	ctx := context.Background()
	m.products.On("GetForUpdate", ctx, "c1", "p1").Return(product("p1", 50), nil)
	m.products.On("SetStock", ctx, "c1", "p1", decEq(45)).Return(nil)
	m.movements.On("Create", ctx, mock.MatchedBy(func(mv *entity.InventoryMovement) bool {
		return mv.Type == entity.MovementTypeWASTE && mv.Quantity.Equal(dec(-5)) && mv.Balance.Equal(dec(45))
	})).Return(nil)
	m.waste.On("Create", ctx, mock.AnythingOfType("*entity.Waste")).Return(nil)
	m.alerts.On("Create", ctx, alertOf(entity.AlertCategoryWaste)).Return(nil)

	uc := NewWasteUseCase(tx, NewStockWriter(10))
	out, err := uc.Apply(ctx, ApplyWasteEvent{CompanyID: "c1", UserID: "u1", ProductID: "p1", Quantity: dec(5), Cause: "vencido"})

	require.NoError(t, err)
	assert.EqualValues(t, 1, tx.runs.Load())
	assert.True(t, out.Result.Product.Stock.Equal(dec(45)))
	require.Len(t, out.Result.Alerts, 1)
	assert.Equal(t, entity.AlertCategoryWaste, out.Result.Alerts[0].Category)
	m.alerts.AssertNumberOfCalls(t, "Create", 1)
	m.products.AssertExpectations(t)
	m.movements.AssertExpectations(t)
	m.waste.AssertExpectations(t)
}

func TestWaste_QuedaEnMinimoEmiteStockBajo(t *testing.T) {
	m, tx := newRepoMocks()
	ctx := context.Background()
	m.products.On("GetForUpdate", ctx, "c1", "p1").Return(product("p1", 12), nil)
	m.products.On("SetStock", ctx, "c1", "p1", decEq(10)).Return(nil)
	m.movements.On("Create", ctx, mock.Anything).Return(nil)
	m.waste.On("Create", ctx, mock.Anything).Return(nil)
	m.alerts.On("Create", ctx, alertOf(entity.AlertCategoryStock)).Return(nil).Once()
	m.alerts.On("Create", ctx, alertOf(entity.AlertCategoryWaste)).Return(nil).Once()

	uc := NewWasteUseCase(tx, NewStockWriter(10))
	out, err := uc.Apply(context.Background(), ApplyWasteEvent{CompanyID: "c1", ProductID: "p1", Quantity: dec(2), Cause: "roto"})

	require.NoError(t, err)
	assert.Len(t, out.Result.Alerts, 2)
	m.alerts.AssertExpectations(t)
}

func TestWaste_StockInsuficienteNoEscribeNada(t *testing.T) {
	m, tx := newRepoMocks()
	ctx := context.Background()
	m.products.On("GetForUpdate", ctx, "c1", "p1").Return(product("p1", 3), nil)

	uc := NewWasteUseCase(tx, NewStockWriter(10))
	_, err := uc.Apply(ctx, ApplyWasteEvent{CompanyID: "c1", ProductID: "p1", Quantity: dec(5), Cause: "vencido"})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	m.products.AssertNotCalled(t, "SetStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.movements.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.waste.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.alerts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWaste_ValidaEntrada(t *testing.T) {
	_, tx := newRepoMocks()
	uc := NewWasteUseCase(tx, NewStockWriter(10))

	cases := map[string]ApplyWasteEvent{
		"sin producto":      {Quantity: dec(1), Cause: "x"},
		"cantidad cero":     {ProductID: "p1", Cause: "x"},
		"cantidad negativa": {ProductID: "p1", Quantity: dec(-1), Cause: "x"},
		"sin causa":         {ProductID: "p1", Quantity: dec(1), Cause: "  "},
	}
	for name, ev := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Apply(context.Background(), ev)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Zero(t, tx.runs.Load())
}

func TestWaste_ProductoInexistente(t *testing.T) {
	m, tx := newRepoMocks()
	m.products.On("GetForUpdate", mock.Anything, "c1", "nope").Return(nil, nil)

	uc := NewWasteUseCase(tx, NewStockWriter(10))
	_, err := uc.Apply(context.Background(), ApplyWasteEvent{CompanyID: "c1", ProductID: "nope", Quantity: dec(1), Cause: "x"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
