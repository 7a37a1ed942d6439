package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom("DEBUG", "text")
	assert.Equal(t, DebugLevel, cfg.Level)
	assert.True(t, cfg.Pretty)

	cfg = ConfigFrom("warn", "json")
	assert.Equal(t, WarnLevel, cfg.Level)
	assert.False(t, cfg.Pretty)
}

func TestConfigure_JSONOutput(t *testing.T) {
	t.Cleanup(func() { Configure(Config{Level: InfoLevel, Pretty: true, Output: os.Stdout}) })

	var buf bytes.Buffer
	lgr := Configure(Config{Level: WarnLevel, Output: &buf})

	lgr.Info().Msg("dropped")
	mailer := WithComponent("mailer")
	mailer.Warn().Str("to", "a@b.c").Msg("kept")

	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "kept", line["message"])
	assert.Equal(t, "mailer", line["component"])
	assert.Equal(t, "a@b.c", line["to"])
}
