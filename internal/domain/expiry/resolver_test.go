package expiry_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/expiry"
)

var zones = []*time.Location{
	time.UTC,
	time.FixedZone("COT", -5*3600),
	time.FixedZone("LINT", 14*3600),
	time.FixedZone("HST", -10*3600),
}

func TestResolve_FormatosEquivalentesEnCualquierZona(t *testing.T) {
	for _, loc := range zones {
		t.Run(loc.String(), func(t *testing.T) {
			r := expiry.NewResolver(loc, false)
			native := time.Date(2024, time.March, 10, 15, 30, 0, 0, loc)

			for _, raw := range []any{"2024-03-10", "10/03/2024", native, &native} {
				got, err := r.Resolve(raw)
				require.NoError(t, err, "raw=%v", raw)
				y, m, d := got.Date()
				assert.Equal(t, 2024, y)
				assert.Equal(t, time.March, m)
				assert.Equal(t, 10, d)
				assert.Equal(t, 0, got.Hour())
				assert.Equal(t, loc, got.Location())
			}
		})
	}
}

func TestResolve_VaciosNoSonError(t *testing.T) {
	r := expiry.NewResolver(time.UTC, false)
	for _, raw := range []any{nil, "", "   ", time.Time{}, (*time.Time)(nil)} {
		_, err := r.Resolve(raw)
		assert.ErrorIs(t, err, expiry.ErrNoDate)
	}
}

func TestResolve_FechasInvalidas(t *testing.T) {
	r := expiry.NewResolver(time.UTC, false)
	for _, raw := range []string{"31/02/2024", "2024-13-01", "mañana", "10-03-2024x"} {
		_, err := r.Resolve(raw)
		assert.ErrorIs(t, err, domain.ErrUnparseableDate, raw)
	}
}

func TestResolve_ModoTolerante_UsaDateparse(t *testing.T) {
	strict := expiry.NewResolver(time.UTC, false)
	_, err := strict.Resolve("March 10, 2024")
	assert.ErrorIs(t, err, domain.ErrUnparseableDate)

	lenient := expiry.NewResolver(time.UTC, true)
	got, err := lenient.Resolve("March 10, 2024")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), got)
}

func TestResolve_TimestampRFC3339SeConvierteALaZonaLocal(t *testing.T) {
	loc := time.FixedZone("COT", -5*3600)
	r := expiry.NewResolver(loc, false)

	// 02:00 UTC del 11 de marzo es todavía 10 de marzo en Bogotá.
	got, err := r.Resolve("2024-03-11T02:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, loc), got)
}

func TestDaysUntil(t *testing.T) {
	loc := time.FixedZone("COT", -5*3600)
	today := time.Date(2024, 3, 1, 23, 59, 0, 0, loc)

	assert.Equal(t, 0, expiry.DaysUntil(today, time.Date(2024, 3, 1, 0, 0, 0, 0, loc), loc))
	assert.Equal(t, 9, expiry.DaysUntil(today, time.Date(2024, 3, 10, 0, 0, 0, 0, loc), loc))
	assert.Equal(t, -1, expiry.DaysUntil(today, time.Date(2024, 2, 29, 12, 0, 0, 0, loc), loc))
}
