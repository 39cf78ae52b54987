package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-api/pkg/logger"
)

func TestAdd_ExpresionVaciaDeshabilita(t *testing.T) {
	s := New(time.UTC, logger.NewNop())
	require.NoError(t, s.Add("sync", "", func(context.Context) error { return nil }))
	assert.Empty(t, s.cron.Entries())
}

func TestAdd_ExpresionInvalida(t *testing.T) {
	s := New(time.UTC, logger.NewNop())
	assert.Error(t, s.Add("sync", "cada rato", func(context.Context) error { return nil }))
}

func TestAdd_AceptaDescriptoresYSegundos(t *testing.T) {
	s := New(time.UTC, logger.NewNop())
	require.NoError(t, s.Add("sync", "@every 1h", func(context.Context) error { return nil }))
	require.NoError(t, s.Add("digest", "0 30 6 * * *", func(context.Context) error { return nil }))
	assert.Len(t, s.cron.Entries(), 2)
}

func TestWrap_RecuperaPanicoYErrores(t *testing.T) {
	s := New(time.UTC, logger.NewNop())
	assert.NotPanics(t, s.wrap("boom", func(context.Context) error { panic("x") }))
	assert.NotPanics(t, s.wrap("err", func(context.Context) error { return errors.New("falló") }))
}

func TestStop_CancelaContexto(t *testing.T) {
	s := New(time.UTC, logger.NewNop())
	s.Start()
	s.Stop()
	assert.Error(t, s.ctx.Err())
}
