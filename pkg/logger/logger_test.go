package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""), "nivel vacío usa info")
	assert.Equal(t, zerolog.InfoLevel, parseLevel("verbose"), "nivel desconocido usa info")
}

func TestOrNop_NuncaDevuelveNil(t *testing.T) {
	l := OrNop(nil)
	assert.NotNil(t, l)
	assert.NotPanics(t, func() { l.Info().Str("k", "v").Msg("descartado") })

	real := New(Config{Env: "production", Level: "error"})
	assert.Same(t, real, OrNop(real))
}

func TestNewWriter_FiltraPorNivel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "warn")

	l.Info().Msg("no aparece")
	assert.Zero(t, buf.Len())

	l.Warn().Str("producto", "AMO-010").Msg("aviso")
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"producto":"AMO-010"`)
}
