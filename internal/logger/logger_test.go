// ABOUTME: Tests for logger construction.
// ABOUTME: Checks level parsing and the lazily initialized globals.
package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestBuildLevels(t *testing.T) {
	l, err := Build("prod", "warn")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l, err = Build("dev", "debug")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestBuildIgnoresBadLevel(t *testing.T) {
	l, err := Build("prod", "loud")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestGlobalsLazyInit(t *testing.T) {
	log, sugar = nil, nil
	assert.NotNil(t, L())
	assert.NotNil(t, S())
	Sync()
}
