package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/phuslu/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New("info", "json", &buf)

	logger.Debug().Msg("hidden")
	logger.Info().Str("page", "Page 1").Msg("labeled")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "labeled", entry["message"])
	assert.Equal(t, "Page 1", entry["page"])
	assert.Equal(t, "info", entry["level"])
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := New("debug", "console", &buf)
	assert.Equal(t, log.DebugLevel, logger.Level)

	logger.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestIsTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "run.log"))
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, isTerminal(f), "regular file")
	assert.False(t, isTerminal(&bytes.Buffer{}), "non-file writer")

	logger := New("info", "console", f)
	assert.False(t, logger.Writer.(*log.ConsoleWriter).ColorOutput)
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Error().Msg("nothing")
	assert.NotNil(t, logger.Writer)
}
