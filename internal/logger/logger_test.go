package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_DisabledDiscards(t *testing.T) {
	require.NoError(t, Init(Options{Enabled: false}))
	assert.False(t, L.Enabled(context.Background(), slog.LevelError))
}

func TestInit_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Enabled: true, Level: slog.LevelDebug, Format: "json", Writer: &buf}))
	t.Cleanup(func() { _ = Init(Options{}) })

	Debug("hello", "k", 1)
	assert.True(t, strings.Contains(buf.String(), `"msg":"hello"`), buf.String())
}

func TestInit_BadFormat(t *testing.T) {
	assert.Error(t, Init(Options{Enabled: true, Format: "xml"}))
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
