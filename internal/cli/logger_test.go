package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/modgen/internal/errors"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger("", &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, logger.Sync())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "WARN")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLogger_Debug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger("debug", &buf)
	require.NoError(t, err)

	logger.Debug("trace")
	assert.Contains(t, buf.String(), "DEBUG")
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger("chatty", &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, errors.ConfigurationErrorCode, errors.CodeOf(err))
}
