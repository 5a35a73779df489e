package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Options{Level: "debug", Format: "json", Writer: buf})

	logger.Debug().Str("k", "v").Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "v", line["k"])
	assert.Equal(t, "gymtracker", line["service"])
}

func TestNewUnknownLevelDefaultsToInfo(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Options{Level: "chatty", Writer: buf})

	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	logger.Debug().Msg("dropped")
	assert.Zero(t, buf.Len())
}
