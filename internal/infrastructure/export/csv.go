// Package export serializa conteos a CSV para hojas de cálculo.
package export

import (
	"fmt"

	"github.com/gocarina/gocsv"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// countRow fila del CSV. Las columnas vacías indican línea sin contar.
type countRow struct {
	SessionID   string `csv:"sesion"`
	Location    string `csv:"ubicacion"`
	SKU         string `csv:"sku"`
	Name        string `csv:"producto"`
	UnitsPerBox string `csv:"unidades_por_caja"`
	Expected    int    `csv:"esperado"`
	Counted     string `csv:"contado"`
	Diff        string `csv:"diferencia"`
	Status      string `csv:"estado"`
}

// CountCSVExporter implementa counting.CountExporter con gocsv.
type CountCSVExporter struct{}

func NewCountCSVExporter() *CountCSVExporter { return &CountCSVExporter{} }

// ExportCountCSV una fila por línea del conteo, en orden.
func (CountCSVExporter) ExportCountCSV(session *entity.CountSession) ([]byte, error) {
	rows := make([]*countRow, 0, len(session.Items))
	for _, it := range session.Items {
		r := &countRow{
			SessionID: session.ID,
			Location:  session.Location,
			SKU:       it.SKU,
			Name:      it.Name,
			Expected:  it.Expected,
			Status:    session.Status,
		}
		if it.UnitsPerBox > 0 {
			r.UnitsPerBox = fmt.Sprint(it.UnitsPerBox)
		}
		if it.Counted != nil {
			r.Counted = fmt.Sprint(*it.Counted)
			r.Diff = fmt.Sprint(*it.Counted - it.Expected)
		}
		rows = append(rows, r)
	}
	out, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("export: csv conteo: %w", err)
	}
	return out, nil
}
