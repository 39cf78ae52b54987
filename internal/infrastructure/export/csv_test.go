package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

func TestExportCountCSV(t *testing.T) {
	counted := 8
	s := &entity.CountSession{
		ID: "s1", Location: "B1", Status: entity.CountStatusPending,
		Items: []entity.CountItem{
			{SKU: "A", Name: "Arroz", Expected: 10, Counted: &counted},
			{SKU: "B", Name: "Frijol", Expected: 24, UnitsPerBox: 12},
		},
	}

	out, err := NewCountCSVExporter().ExportCountCSV(s)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "sesion,ubicacion,sku,producto,unidades_por_caja,esperado,contado,diferencia,estado", lines[0])
	assert.Equal(t, "s1,B1,A,Arroz,,10,8,-2,Pendiente", lines[1])
	assert.Equal(t, "s1,B1,B,Frijol,12,24,,,Pendiente", lines[2])
}

func TestExportCountCSV_SinLineas(t *testing.T) {
	out, err := NewCountCSVExporter().ExportCountCSV(&entity.CountSession{ID: "s"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "sesion,ubicacion")
}
