// Package pdf genera la planilla imprimible de un conteo cíclico.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Ubicación + operario │  Estado + fecha              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Esperado | Contado | Dif.           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: esperado / contado                                 │
//	│  FOOTER: QR de la sesión + firmas                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// CountSheetGenerator implementa counting.CountSheetRenderer con Maroto v2.
type CountSheetGenerator struct {
	loc *time.Location
}

// NewCountSheetGenerator construye el generador; las fechas se imprimen en loc.
func NewCountSheetGenerator(loc *time.Location) *CountSheetGenerator {
	if loc == nil {
		loc = time.Local
	}
	return &CountSheetGenerator{loc: loc}
}

// RenderCountSheet genera el PDF y devuelve sus bytes. Las líneas sin contar quedan en blanco para llenar a mano.
func (g *CountSheetGenerator) RenderCountSheet(_ context.Context, session *entity.CountSession) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Planilla de conteo "+session.Location, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(session))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(session.Items)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(session))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(session))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar planilla: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *CountSheetGenerator) headerRow(s *entity.CountSession) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("CONTEO CÍCLICO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Ubicación: "+s.Location, props.Text{Size: 9, Top: 9}),
			text.New("Operario: "+nonEmpty(s.WorkerID, "—"), props.Text{Size: 8, Top: 14, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(s.Status, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Inicio: "+s.CreatedAt.In(g.loc).Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
			text.New(closedLabel(s, g.loc), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 5, align.Left),
		h("Esperado", 2, align.Right),
		h("Contado", 2, align.Right),
		h("Dif.", 1, align.Right),
	)
}

// tableRows una fila por línea, en el orden de la sesión.
func tableRows(items []entity.CountItem) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		counted, diff := "", ""
		diffColor := colorGray
		if it.Counted != nil {
			counted = formatThousands(*it.Counted)
			d := *it.Counted - it.Expected
			diff = signed(d)
			if d != 0 {
				diffColor = colorRed
			}
		}
		name := it.Name
		if it.UnitsPerBox > 0 {
			name += fmt.Sprintf(" (caja x%d)", it.UnitsPerBox)
		}
		rows = append(rows, row.New(7).Add(
			col.New(2).Add(text.New(it.SKU, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(5).Add(text.New(name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(formatThousands(it.Expected), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(nonEmpty(counted, "______"), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(diff, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: diffColor})),
		))
	}
	return rows
}

func totalsRow(s *entity.CountSession) core.Row {
	label := func(v string) core.Component {
		return text.New(v, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(v string, top float64) core.Component {
		return text.New(v, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(14).Add(
		col.New(6),
		col.New(3).Add(
			label("Total esperado:"),
			text.New("Total contado:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 6}),
		),
		col.New(3).Add(
			value(formatThousands(s.TotalExpected), 0),
			value(formatThousands(s.TotalCounted), 6),
		),
	)
}

// footerRow QR con el ID de la sesión para retomarla desde el escáner y espacio para firmas.
func footerRow(s *entity.CountSession) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(s.ID, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Sesión "+s.ID, props.Text{Size: 7, Top: 2, Left: 3, Color: colorGray}),
			text.New("Firma operario: ______________________", props.Text{Size: 9, Top: 16, Left: 3}),
			text.New("Firma supervisor: ____________________", props.Text{Size: 9, Top: 28, Left: 3}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func closedLabel(s *entity.CountSession, loc *time.Location) string {
	if s.ClosedAt == nil {
		return "Cierre: —"
	}
	return "Cierre: " + s.ClosedAt.In(loc).Format("02/01/2006 15:04")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func signed(n int) string {
	if n > 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// formatThousands inserta puntos de miles. Ej: 25000 → "25.000", -1200 → "-1.200".
func formatThousands(n int) string {
	s := strconv.Itoa(n)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	l := len(s)
	if l <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, l+l/3)
	for i, c := range []byte(s) {
		if i > 0 && (l-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
