package counting

import (
	"context"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// CountSheetRenderer genera la planilla imprimible del conteo.
type CountSheetRenderer interface {
	RenderCountSheet(ctx context.Context, session *entity.CountSession) ([]byte, error)
}

// CountExporter exporta las líneas del conteo a CSV.
type CountExporter interface {
	ExportCountCSV(session *entity.CountSession) ([]byte, error)
}
