package expiry_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/expiry"
)

var today = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func policy() expiry.Policy {
	p := expiry.DefaultPolicy()
	p.Loc = time.UTC
	return p
}

func inDays(d int) string {
	return today.AddDate(0, 0, d).Format("2006-01-02")
}

func TestTriage_SeleccionaElMasUrgente(t *testing.T) {
	records := []expiry.Record{
		{ID: "a", Name: "Leche", Expiry: inDays(10)},
		{ID: "b", Name: "Yogur", SKU: "YG-1", Category: "Lácteos", Expiry: inDays(3)},
		{ID: "c", Name: "Queso", Expiry: inDays(7)},
	}

	res, err := policy().Triage(records, today)
	require.NoError(t, err)

	require.NotNil(t, res.Critical)
	assert.Equal(t, "b", res.Critical.ID)
	assert.Equal(t, 3, res.Critical.Days)
	assert.Equal(t, "YG-1", res.Critical.SKU)
	assert.Equal(t, "Lácteos", res.Critical.Category)
	assert.Equal(t, [4]int{2, 1, 0, 0}, res.Buckets)
	assert.Equal(t, 3, res.Evaluated)
}

func TestTriage_EmpatesGanaElPrimeroVisto(t *testing.T) {
	records := []expiry.Record{
		{ID: "primero", Expiry: inDays(2)},
		{ID: "segundo", Expiry: inDays(2)},
	}
	res, err := policy().Triage(records, today)
	require.NoError(t, err)
	assert.Equal(t, "primero", res.Critical.ID)
}

func TestTriage_SinCriticosTodoEnOrden(t *testing.T) {
	res, err := policy().Triage([]expiry.Record{{ID: "a", Expiry: inDays(8)}}, today)
	require.NoError(t, err)
	assert.Nil(t, res.Critical)
	assert.Equal(t, [4]int{0, 1, 0, 0}, res.Buckets)
}

func TestTriage_TramosYLimites(t *testing.T) {
	var records []expiry.Record
	for _, d := range []int{0, 7, 8, 14, 15, 21, 22, 30, 31, 90} {
		records = append(records, expiry.Record{ID: inDays(d), Expiry: inDays(d)})
	}
	res, err := policy().Triage(records, today)
	require.NoError(t, err)
	assert.Equal(t, [4]int{2, 2, 2, 2}, res.Buckets)
	assert.Equal(t, 0, res.Critical.Days)
}

func TestTriage_VencidosFueraDelHistogramaPeroCriticos(t *testing.T) {
	records := []expiry.Record{
		{ID: "vencido", Expiry: inDays(-2)},
		{ID: "pronto", Expiry: inDays(1)},
	}
	res, err := policy().Triage(records, today)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Expired)
	assert.Equal(t, [4]int{1, 0, 0, 0}, res.Buckets)
	assert.Equal(t, "vencido", res.Critical.ID)
	assert.Equal(t, -2, res.Critical.Days)
}

func TestTriage_FechaIlegible_ToleranteOmite(t *testing.T) {
	records := []expiry.Record{
		{ID: "malo", Expiry: "no-es-fecha"},
		{ID: "sin-fecha"},
		{ID: "bueno", Expiry: inDays(5)},
	}
	res, err := policy().Triage(records, today)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, []string{"malo"}, res.SkippedIDs)
	assert.Equal(t, 1, res.Evaluated)
	assert.Equal(t, "bueno", res.Critical.ID)
}

func TestTriage_FechaIlegible_EstrictoFalla(t *testing.T) {
	p := policy()
	p.Strict = true
	_, err := p.Triage([]expiry.Record{{ID: "malo", Expiry: "no-es-fecha"}}, today)
	assert.ErrorIs(t, err, domain.ErrUnparseableDate)
}

func TestFromSnapshot_LotesHeredanDatosDelProducto(t *testing.T) {
	products := []*entity.Product{
		{ID: "p1", Name: "Leche", SKU: "LE-1", Category: "Lácteos", ExpiryDate: "2024-03-05"},
		{ID: "p2", Name: "Arroz", SKU: "AR-1"},
	}
	lots := []*entity.InventoryLot{
		{ID: "l1", ProductID: "p2", LotNumber: "L-001", ExpiryDate: "05/04/2024"},
		{ID: "l2", ProductID: "huérfano", LotNumber: "L-002", ExpiryDate: "2024-04-06"},
		{ID: "l3", ProductID: "p2", LotNumber: "L-003"},
	}

	records := expiry.FromSnapshot(products, lots)
	require.Len(t, records, 3)
	assert.Equal(t, expiry.SourceProduct, records[0].Source)
	assert.Equal(t, "Arroz", records[1].Name)
	assert.Equal(t, "AR-1", records[1].SKU)
	assert.Equal(t, expiry.SourceLot, records[1].Source)
	assert.Equal(t, "L-002", records[2].Name)
}
