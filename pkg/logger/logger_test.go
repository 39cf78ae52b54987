package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if l == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(l), &m))
		out = append(out, m)
	}
	return out
}

func TestNew_JSONConServicioYComponente(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: "info", Service: "bodega-api", Output: &buf})

	log.Component("monitor").Info().Str("company_id", "c1").Msg("recalculado")
	log.Debug().Msg("no sale")

	got := lines(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "bodega-api", got[0]["service"])
	assert.Equal(t, "monitor", got[0]["component"])
	assert.Equal(t, "c1", got[0]["company_id"])
	assert.Equal(t, "info", got[0]["level"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verboso"))
}
