package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	SetupWriter(&buf, "debug", "json")
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	log.Debug().Str("component", "test").Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "quizduel", line["service"])
	assert.Equal(t, "debug", line["level"])
}

func TestSetupFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	SetupWriter(&buf, "loud", "json")
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	assert.Contains(t, buf.String(), "invalid log level")
}
