// Package expiry resuelve fechas de vencimiento heterogéneas y clasifica su urgencia (FEFO).
package expiry

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cast"

	"github.com/jhoicas/bodega-api/internal/domain"
)

// ErrNoDate el registro no tiene fecha de vencimiento; no es un error de datos.
var ErrNoDate = errors.New("sin fecha de vencimiento")

var (
	isoDateRe = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	dmyDateRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// Resolver convierte valores crudos de vencimiento en una fecha calendario a medianoche local.
// Las fechas sin hora se construyen con los componentes año/mes/día en Loc, nunca vía UTC.
// Lenient habilita el parseo tolerante (dateparse) cuando no coincide ningún formato conocido.
type Resolver struct {
	Loc     *time.Location
	Lenient bool
}

// NewResolver construye un resolver para la zona indicada (nil = time.Local).
func NewResolver(loc *time.Location, lenient bool) Resolver {
	if loc == nil {
		loc = time.Local
	}
	return Resolver{Loc: loc, Lenient: lenient}
}

func (r Resolver) loc() *time.Location {
	if r.Loc == nil {
		return time.Local
	}
	return r.Loc
}

// Resolve acepta time.Time, *time.Time, "YYYY-MM-DD", "DD/MM/YYYY" y timestamps RFC3339.
// Devuelve ErrNoDate si el valor está vacío y domain.ErrUnparseableDate si no se puede interpretar.
func (r Resolver) Resolve(raw any) (time.Time, error) {
	loc := r.loc()
	switch v := raw.(type) {
	case nil:
		return time.Time{}, ErrNoDate
	case time.Time:
		if v.IsZero() {
			return time.Time{}, ErrNoDate
		}
		return Midnight(v, loc), nil
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, ErrNoDate
		}
		return Midnight(*v, loc), nil
	case string:
		return r.resolveString(v)
	}

	// Otros tipos (epoch numérico, []byte, ...) se coercionan con cast.
	t, err := cast.ToTimeInDefaultLocationE(raw, loc)
	if err != nil || t.IsZero() {
		return time.Time{}, fmt.Errorf("%w: %v", domain.ErrUnparseableDate, raw)
	}
	return Midnight(t, loc), nil
}

func (r Resolver) resolveString(s string) (time.Time, error) {
	loc := r.loc()
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrNoDate
	}
	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		return calendarDate(m[1], m[2], m[3], loc, s)
	}
	if m := dmyDateRe.FindStringSubmatch(s); m != nil {
		return calendarDate(m[3], m[2], m[1], loc, s)
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Midnight(t, loc), nil
	}
	if r.Lenient {
		if t, err := dateparse.ParseIn(s, loc); err == nil {
			return Midnight(t, loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", domain.ErrUnparseableDate, s)
}

// calendarDate arma la fecha desde componentes locales y rechaza días inexistentes (31/02).
func calendarDate(ys, ms, ds string, loc *time.Location, raw string) (time.Time, error) {
	y, _ := strconv.Atoi(ys)
	m, _ := strconv.Atoi(ms)
	d, _ := strconv.Atoi(ds)
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrUnparseableDate, raw)
	}
	return t, nil
}

// Midnight devuelve la medianoche del día calendario de t en loc.
func Midnight(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// DaysUntil días calendario enteros entre hoy y target (negativo si ya pasó).
// Ambos se normalizan a medianoche local y la diferencia se redondea, así un cambio de horario no corre el día.
func DaysUntil(today, target time.Time, loc *time.Location) int {
	from := Midnight(today, loc)
	to := Midnight(target, loc)
	return int(math.Round(to.Sub(from).Hours() / 24))
}
