package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	appinventory "github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/application/ports"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/expiry"
	"github.com/jhoicas/bodega-api/internal/domain/repository/mocks"
	"github.com/jhoicas/bodega-api/pkg/logger"
)

type fakeTx struct{ repos ports.Repos }

func (f fakeTx) Run(_ context.Context, fn func(r ports.Repos) error) error { return fn(f.repos) }

type productFixture struct {
	products  *mocks.ProductRepository
	alerts    *mocks.AlertRepository
	movements *mocks.MovementRepository
	uc        *ProductUseCase
}

func newProductFixture(strict bool) *productFixture {
	f := &productFixture{
		products:  new(mocks.ProductRepository),
		alerts:    new(mocks.AlertRepository),
		movements: new(mocks.MovementRepository),
	}
	tx := fakeTx{repos: ports.Repos{Products: f.products, Alerts: f.alerts, Movements: f.movements}}
	policy := expiry.DefaultPolicy()
	policy.Strict = strict
	f.uc = NewProductUseCase(tx, appinventory.NewStockWriter(10), f.products, f.movements, policy, logger.NewNop())
	return f
}

func alertCategories(list []dto.AlertResponse) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.Category)
	}
	return out
}

func TestCreateProduct_StockAltoYSinVencimientoNoAlerta(t *testing.T) {
	f := newProductFixture(false)
	f.products.On("GetByCompanyAndSKU", mock.Anything, "c1", "ABC-1").Return(nil, nil)
	f.products.On("Create", mock.Anything, mock.AnythingOfType("*entity.Product")).Return(nil)
	f.movements.On("Create", mock.Anything, mock.MatchedBy(func(m *entity.InventoryMovement) bool {
		return m.Type == entity.MovementTypeIN && m.Quantity.Equal(decimal.NewFromInt(40))
	})).Return(nil)

	out, err := f.uc.Create(context.Background(), "c1", "u1", dto.CreateProductRequest{
		SKU: " abc-1 ", Name: "Arroz", Stock: decimal.NewFromInt(40),
	})

	require.NoError(t, err)
	assert.True(t, out.Created)
	assert.Equal(t, "ABC-1", out.Product.SKU)
	assert.Equal(t, entity.PackagingUnit, out.Product.Packaging)
	require.NotNil(t, out.Movement)
	assert.Empty(t, out.Alerts)
	f.alerts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProduct_StockBajoYVencePronto(t *testing.T) {
	f := newProductFixture(false)
	f.products.On("GetByCompanyAndSKU", mock.Anything, "c1", "LECHE").Return(nil, nil)
	f.products.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.movements.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.alerts.On("Create", mock.Anything, mock.Anything).Return(nil)

	soon := time.Now().AddDate(0, 0, 3).Format("2006-01-02")
	out, err := f.uc.Create(context.Background(), "c1", "u1", dto.CreateProductRequest{
		SKU: "leche", Name: "Leche", Stock: decimal.NewFromInt(5), ExpiryDate: soon,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{entity.AlertCategoryStock, entity.AlertCategoryFEFO}, alertCategories(out.Alerts))
	f.alerts.AssertNumberOfCalls(t, "Create", 2)
}

func TestCreateProduct_YaVencido(t *testing.T) {
	f := newProductFixture(false)
	f.products.On("GetByCompanyAndSKU", mock.Anything, "c1", "YOG").Return(nil, nil)
	f.products.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.movements.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.alerts.On("Create", mock.Anything, mock.Anything).Return(nil)

	past := time.Now().AddDate(0, 0, -2).Format("02/01/2006")
	out, err := f.uc.Create(context.Background(), "c1", "u1", dto.CreateProductRequest{
		SKU: "yog", Name: "Yogur", Stock: decimal.NewFromInt(100), ExpiryDate: past,
	})

	require.NoError(t, err)
	require.Len(t, out.Alerts, 1)
	assert.Equal(t, "Producto ya vencido", out.Alerts[0].Title)
}

func TestCreateProduct_FechaIlegible(t *testing.T) {
	req := dto.CreateProductRequest{SKU: "x1", Name: "X", Stock: decimal.NewFromInt(50), ExpiryDate: "pronto"}

	t.Run("tolerante crea sin alerta", func(t *testing.T) {
		f := newProductFixture(false)
		f.products.On("GetByCompanyAndSKU", mock.Anything, "c1", "X1").Return(nil, nil)
		f.products.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.movements.On("Create", mock.Anything, mock.Anything).Return(nil)

		out, err := f.uc.Create(context.Background(), "c1", "u1", req)
		require.NoError(t, err)
		assert.Empty(t, out.Alerts)
	})

	t.Run("estricto falla", func(t *testing.T) {
		f := newProductFixture(true)
		f.products.On("GetByCompanyAndSKU", mock.Anything, "c1", "X1").Return(nil, nil)
		f.products.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.movements.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, err := f.uc.Create(context.Background(), "c1", "u1", req)
		assert.ErrorIs(t, err, domain.ErrUnparseableDate)
	})
}

func TestCreateProduct_SKUDuplicado(t *testing.T) {
	f := newProductFixture(false)
	f.products.On("GetByCompanyAndSKU", mock.Anything, "c1", "A").Return(&entity.Product{ID: "p1"}, nil)

	_, err := f.uc.Create(context.Background(), "c1", "u1", dto.CreateProductRequest{SKU: "a", Name: "A"})

	assert.ErrorIs(t, err, domain.ErrDuplicate)
	f.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProduct_CajaSinUnidadesEsInvalido(t *testing.T) {
	f := newProductFixture(false)
	_, err := f.uc.Create(context.Background(), "c1", "u1", dto.CreateProductRequest{SKU: "a", Name: "A", Packaging: entity.PackagingBox})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestScan_ExistenteSumaCajas(t *testing.T) {
	f := newProductFixture(false)
	existing := &entity.Product{ID: "p1", CompanyID: "c1", SKU: "CAFE", Name: "Café", Packaging: entity.PackagingBox, UnitsPerBox: 12,
		Stock: decimal.NewNullDecimal(decimal.NewFromInt(4))}
	f.products.On("GetByCompanyAndSKU", mock.Anything, "c1", "CAFE").Return(existing, nil)
	f.products.On("GetForUpdate", mock.Anything, "c1", "p1").Return(existing, nil)
	f.products.On("SetStock", mock.Anything, "c1", "p1", mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.NewFromInt(28))
	})).Return(nil)
	f.movements.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := f.uc.Scan(context.Background(), "c1", "u1", dto.ScanProductRequest{Code: "ｃａｆｅ", Boxes: 2})

	require.NoError(t, err)
	assert.False(t, out.Created)
	assert.True(t, out.Product.Stock.Equal(decimal.NewFromInt(28)))
	assert.Empty(t, out.Alerts)
}

func TestScan_CajasQueDesbordanSonInvalidas(t *testing.T) {
	f := newProductFixture(false)
	existing := &entity.Product{ID: "p1", CompanyID: "c1", SKU: "CAFE", Name: "Café", Packaging: entity.PackagingBox, UnitsPerBox: 12}
	f.products.On("GetByCompanyAndSKU", mock.Anything, "c1", "CAFE").Return(existing, nil)
	f.products.On("GetByCompanyAndSKU", mock.Anything, "c1", "NUEVO").Return(nil, nil)

	_, err := f.uc.Scan(context.Background(), "c1", "u1", dto.ScanProductRequest{Code: "cafe", Boxes: 1537228672809129302})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Scan(context.Background(), "c1", "u1", dto.ScanProductRequest{Code: "nuevo", Name: "Nuevo", Boxes: 178956971, UnitsPerBox: 12})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	f.products.AssertNotCalled(t, "SetStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestScan_NuevoCreaProducto(t *testing.T) {
	f := newProductFixture(false)
	f.products.On("GetByCompanyAndSKU", mock.Anything, "c1", "NUEVO").Return(nil, nil)
	f.products.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.movements.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := f.uc.Scan(context.Background(), "c1", "u1", dto.ScanProductRequest{Code: "nuevo", Name: "Nuevo", Quantity: decimal.NewFromInt(20)})

	require.NoError(t, err)
	assert.True(t, out.Created)
	assert.True(t, out.Product.Stock.Equal(decimal.NewFromInt(20)))
}

func TestSetStock_EdicionManualRegistraAjuste(t *testing.T) {
	f := newProductFixture(false)
	p := &entity.Product{ID: "p1", CompanyID: "c1", SKU: "A", Name: "A", Quantity: decimal.NewNullDecimal(decimal.NewFromInt(30))}
	f.products.On("GetForUpdate", mock.Anything, "c1", "p1").Return(p, nil)
	f.products.On("SetStock", mock.Anything, "c1", "p1", mock.Anything).Return(nil)
	f.movements.On("Create", mock.Anything, mock.MatchedBy(func(m *entity.InventoryMovement) bool {
		return m.Type == entity.MovementTypeADJUSTMENT && m.Quantity.Equal(decimal.NewFromInt(-22))
	})).Return(nil)
	f.alerts.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := f.uc.SetStock(context.Background(), "c1", "u1", "p1", dto.SetStockRequest{Stock: decimal.NewFromInt(8)})

	require.NoError(t, err)
	assert.Equal(t, []string{entity.AlertCategoryStock}, alertCategories(out.Alerts))
	// los tres campos heredados quedan iguales
	assert.True(t, p.Stock.Decimal.Equal(decimal.NewFromInt(8)))
	assert.True(t, p.TotalStock.Decimal.Equal(decimal.NewFromInt(8)))
	assert.True(t, p.Quantity.Decimal.Equal(decimal.NewFromInt(8)))
}
