package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/afriroots/afriroots-api/internal/config"
)

func TestNewLogger(t *testing.T) {
	app := config.AppConfig{Name: "afriroots-api", Env: "test", Version: "v1"}

	logger, err := NewLogger(config.LoggerConfig{Level: "WARN", Format: "console"}, app)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = NewLogger(config.LoggerConfig{Level: "bogus"}, app)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))

	_, err = NewLogger(config.LoggerConfig{Format: "xml"}, app)
	assert.Error(t, err)
}
