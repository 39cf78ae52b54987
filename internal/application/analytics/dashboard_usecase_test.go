package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-api/internal/application/monitor"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/expiry"
	"github.com/jhoicas/bodega-api/internal/domain/repository/mocks"
)

type fixedSnapshot struct{ snap *monitor.Snapshot }

func (f fixedSnapshot) Latest(context.Context, string) (*monitor.Snapshot, error) { return f.snap, nil }

func TestExpiry_EtiquetasDeTramosYCritico(t *testing.T) {
	computed := time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC)
	uc := NewDashboardUseCase(fixedSnapshot{&monitor.Snapshot{
		Result: expiry.Result{
			Critical:  &expiry.CriticalAlert{ID: "p1", Name: "Pan", SKU: "P", Days: 2, Source: expiry.SourceProduct},
			Buckets:   [4]int{3, 1, 0, 2},
			Expired:   4,
			Evaluated: 10,
			Skipped:   1,
		},
		ComputedAt: computed,
	}}, nil, nil, 30)

	out, err := uc.Expiry(context.Background(), "c1")

	require.NoError(t, err)
	require.NotNil(t, out.Critical)
	assert.Equal(t, "p1", out.Critical.ID)
	labels := make([]string, 0, 4)
	for _, b := range out.Buckets {
		labels = append(labels, b.Label)
	}
	assert.Equal(t, []string{"0-7 días", "8-14 días", "15-21 días", "22-30 días"}, labels)
	assert.Equal(t, 2, out.Buckets[3].Count)
	assert.Equal(t, 4, out.Expired)
	assert.Equal(t, 1, out.Skipped)
	assert.Equal(t, computed, out.ComputedAt)
}

func TestConsistency_ReportaSoloProductosConLotesDescuadrados(t *testing.T) {
	products := new(mocks.ProductRepository)
	lots := new(mocks.LotRepository)
	products.On("ListAll", mock.Anything, "c1").Return([]*entity.Product{
		{ID: "p1", SKU: "A", Stock: decimal.NewNullDecimal(decimal.NewFromInt(10))},
		{ID: "p2", SKU: "B", Stock: decimal.NewNullDecimal(decimal.NewFromInt(5))},
		{ID: "p3", SKU: "C", Stock: decimal.NewNullDecimal(decimal.NewFromInt(9))},
	}, nil)
	lots.On("ListByCompany", mock.Anything, "c1").Return([]*entity.InventoryLot{
		{ID: "l1", ProductID: "p1", Quantity: decimal.NewNullDecimal(decimal.NewFromInt(10))},
		{ID: "l2", ProductID: "p2", Quantity: decimal.NewNullDecimal(decimal.NewFromInt(2))},
		{ID: "l3", ProductID: "p2"},
	}, nil)

	uc := NewDashboardUseCase(nil, products, lots, 30)
	out, err := uc.Consistency(context.Background(), "c1")

	require.NoError(t, err)
	assert.Equal(t, 3, out.Products)
	assert.Equal(t, 3, out.Lots)
	require.Len(t, out.Drifts, 1)
	assert.Equal(t, "p2", out.Drifts[0].ProductID)
	assert.True(t, out.Drifts[0].Delta.Equal(decimal.NewFromInt(-3)))
}
