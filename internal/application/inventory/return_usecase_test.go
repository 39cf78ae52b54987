package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

func pendingReturn(qty int64) *entity.CustomerReturn {
	return &entity.CustomerReturn{
		ID:        "r1",
		CompanyID: "c1",
		ProductID: "p1",
		Quantity:  dec(qty),
		Reason:    "cliente insatisfecho",
		Status:    entity.ReturnStatusPending,
	}
}

func dtoReturn(productID string, qty int64) dto.CreateReturnRequest {
	return dto.CreateReturnRequest{ProductID: productID, Quantity: dec(qty), Reason: "talla equivocada"}
}

func TestApproveReturn_ReingresaStockYEmiteAlertas(t *testing.T) {
	m, tx := newRepoMocks()
	ctx := context.Background()
	m.returns.On("GetForUpdate", ctx, "c1", "r1").Return(pendingReturn(3), nil)
	m.products.On("GetForUpdate", ctx, "c1", "p1").Return(product("p1", 4), nil)
	m.products.On("SetStock", ctx, "c1", "p1", decEq(7)).Return(nil)
	m.movements.On("Create", ctx, mock.MatchedBy(func(mv *entity.InventoryMovement) bool {
		return mv.Type == entity.MovementTypeRETURN && mv.Reference == "r1"
	})).Return(nil)
	m.returns.On("Update", ctx, mock.MatchedBy(func(r *entity.CustomerReturn) bool {
		return r.Status == entity.ReturnStatusApproved && r.ResolvedBy == "u1" && r.ResolvedAt != nil
	})).Return(nil)
	// 7 sigue por debajo del mínimo por defecto: el reingreso no suprime la alerta de stock bajo.
	m.alerts.On("Create", ctx, alertOf(entity.AlertCategoryStock)).Return(nil).Once()
	m.alerts.On("Create", ctx, alertOf(entity.AlertCategoryReturn)).Return(nil).Once()

	uc := NewReturnUseCase(tx, NewStockWriter(10), m.products, m.returns)
	out, err := uc.Approve(ctx, ApproveReturn{CompanyID: "c1", UserID: "u1", ReturnID: "r1"})

	require.NoError(t, err)
	assert.Equal(t, entity.ReturnStatusApproved, out.Status)
	require.NotNil(t, out.Result)
	assert.True(t, out.Result.Product.Stock.Equal(dec(7)))
	m.alerts.AssertExpectations(t)
	m.returns.AssertExpectations(t)
}

func TestApproveReturn_YaResueltaEsConflicto(t *testing.T) {
	m, tx := newRepoMocks()
	ret := pendingReturn(3)
	ret.Status = entity.ReturnStatusRejected
	m.returns.On("GetForUpdate", mock.Anything, "c1", "r1").Return(ret, nil)

	uc := NewReturnUseCase(tx, NewStockWriter(10), m.products, m.returns)
	_, err := uc.Approve(context.Background(), ApproveReturn{CompanyID: "c1", ReturnID: "r1"})

	assert.ErrorIs(t, err, domain.ErrConflict)
	m.products.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func TestRejectReturn_NoMueveStock(t *testing.T) {
	m, tx := newRepoMocks()
	m.returns.On("GetForUpdate", mock.Anything, "c1", "r1").Return(pendingReturn(3), nil)
	m.returns.On("Update", mock.Anything, mock.Anything).Return(nil)

	uc := NewReturnUseCase(tx, NewStockWriter(10), m.products, m.returns)
	out, err := uc.Reject(context.Background(), "c1", "u1", "r1")

	require.NoError(t, err)
	assert.Equal(t, entity.ReturnStatusRejected, out.Status)
	assert.Nil(t, out.Result)
	m.products.AssertNotCalled(t, "SetStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterReturn_QuedaPendiente(t *testing.T) {
	m, tx := newRepoMocks()
	m.products.On("GetByID", mock.Anything, "c1", "p1").Return(product("p1", 4), nil)
	m.returns.On("Create", mock.Anything, mock.AnythingOfType("*entity.CustomerReturn")).Return(nil)

	uc := NewReturnUseCase(tx, NewStockWriter(10), m.products, m.returns)
	out, err := uc.Register(context.Background(), "c1", "u1", dtoReturn("p1", 2))

	require.NoError(t, err)
	assert.Equal(t, entity.ReturnStatusPending, out.Status)
	assert.Zero(t, tx.runs.Load())
}
