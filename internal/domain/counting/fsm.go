// Package counting modela la reconciliación de un conteo cíclico como una máquina de estados tipada:
//
//	Summary → Scan ⇄ Input → Result → Summary
//
// Cada estado es un tipo distinto, así que guardar desde Scan o contar sin escanear no compila.
package counting

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// Summary estado de resumen de la sesión. Es el único estado desde el que se abre el escáner.
type Summary struct {
	session *entity.CountSession
}

// Scan escáner abierto esperando un código.
type Scan struct {
	session *entity.CountSession
}

// Input línea identificada esperando la cantidad contada.
type Input struct {
	session *entity.CountSession
	index   int
}

// Result cantidad contada lista para guardar.
type Result struct {
	session *entity.CountSession
	index   int
	counted int
}

// Begin entra al resumen de una sesión. Una sesión cerrada ya no admite conteos.
// Trabaja sobre una copia: la sesión recibida no se modifica.
func Begin(session *entity.CountSession) (Summary, error) {
	if session == nil {
		return Summary{}, domain.ErrNotFound
	}
	if session.Status == entity.CountStatusClosed {
		return Summary{}, fmt.Errorf("sesión %s cerrada: %w", session.ID, domain.ErrConflict)
	}
	return Summary{session: session.Clone()}, nil
}

// Session sesión en el estado actual.
func (s Summary) Session() *entity.CountSession { return s.session }

// OpenScanner SUMMARY → SCAN.
func (s Summary) OpenScanner() Scan { return Scan{session: s.session} }

// Close SCAN → SUMMARY sin contar nada.
func (s Scan) Close() Summary { return Summary{session: s.session} }

// Decode SCAN → INPUT si el código coincide con el SKU de alguna línea; si no, sigue en SCAN con ErrNotFound.
func (s Scan) Decode(code string) (Input, error) {
	want := NormalizeCode(code)
	if want == "" {
		return Input{}, domain.ErrInvalidInput
	}
	for i, it := range s.session.Items {
		if NormalizeCode(it.SKU) == want {
			return Input{session: s.session, index: i}, nil
		}
	}
	return Input{}, fmt.Errorf("código %q: %w", code, domain.ErrNotFound)
}

// Line línea identificada.
func (i Input) Line() entity.CountItem { return i.session.Items[i.index] }

// Back INPUT → SCAN.
func (i Input) Back() Scan { return Scan{session: i.session} }

// SubmitUnits INPUT → RESULT con un conteo directo en unidades.
func (i Input) SubmitUnits(raw string) (Result, error) {
	n, err := parseCount(raw)
	if err != nil {
		return Result{}, err
	}
	return Result{session: i.session, index: i.index, counted: n}, nil
}

// SubmitBoxes INPUT → RESULT con cajas × unidades por caja de la línea.
func (i Input) SubmitBoxes(raw string) (Result, error) {
	boxes, err := parseCount(raw)
	if err != nil {
		return Result{}, err
	}
	per := i.Line().UnitsPerBox
	if per <= 0 {
		return Result{}, fmt.Errorf("línea %s sin unidades por caja: %w", i.Line().SKU, domain.ErrInvalidInput)
	}
	units, err := BoxUnits(boxes, per)
	if err != nil {
		return Result{}, err
	}
	return Result{session: i.session, index: i.index, counted: units}, nil
}

// MaxCount tope de un conteo: total_counted y expected son INTEGER en la base.
const MaxCount = math.MaxInt32

// BoxUnits cajas × unidades por caja, rechazando productos que desborden MaxCount.
func BoxUnits(boxes, per int) (int, error) {
	if boxes < 0 || per <= 0 {
		return 0, domain.ErrInvalidInput
	}
	if boxes > MaxCount/per {
		return 0, fmt.Errorf("%d cajas x %d: %w", boxes, per, domain.ErrInvalidInput)
	}
	return boxes * per, nil
}

// parseCount exige un entero no negativo dentro de MaxCount.
func parseCount(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 || n > MaxCount {
		return 0, fmt.Errorf("cantidad %q: %w", raw, domain.ErrInvalidInput)
	}
	return n, nil
}

// Line línea contada.
func (r Result) Line() entity.CountItem { return r.session.Items[r.index] }

// Counted cantidad contada.
func (r Result) Counted() int { return r.counted }

// Diff contado menos esperado.
func (r Result) Diff() int { return r.counted - r.Line().Expected }

// Matches true si no hay discrepancia.
func (r Result) Matches() bool { return r.Diff() == 0 }

// SaveOutcome efecto de guardar una línea.
type SaveOutcome struct {
	Line         entity.CountItem
	Index        int
	Diff         int
	TotalCounted int
	// EmitAlert true solo la primera vez que se guarda un valor discrepante;
	// volver a guardar el mismo valor no repite la alerta.
	EmitAlert bool
}

// Save RESULT → SUMMARY: escribe el conteo en la línea, recalcula el total contado
// y decide si corresponde alerta de discrepancia. El estado de la sesión sigue en Pendiente.
func (r Result) Save() (Summary, SaveOutcome) {
	s := r.session
	line := &s.Items[r.index]
	counted := r.counted
	line.Counted = &counted

	diff := counted - line.Expected
	emit := false
	if diff != 0 {
		if line.AlertedCounted == nil || *line.AlertedCounted != counted {
			emit = true
			alerted := counted
			line.AlertedCounted = &alerted
		}
	} else {
		line.AlertedCounted = nil
	}

	s.TotalCounted = TotalCounted(s.Items)
	return Summary{session: s}, SaveOutcome{
		Line:         *line,
		Index:        r.index,
		Diff:         diff,
		TotalCounted: s.TotalCounted,
		EmitAlert:    emit,
	}
}

// TotalCounted suma de lo contado en todas las líneas (líneas sin contar valen 0).
func TotalCounted(items []entity.CountItem) int {
	total := 0
	for _, it := range items {
		if it.Counted != nil {
			total += *it.Counted
		}
	}
	return total
}

// TotalExpected suma de lo esperado en todas las líneas.
func TotalExpected(items []entity.CountItem) int {
	total := 0
	for _, it := range items {
		total += it.Expected
	}
	return total
}
