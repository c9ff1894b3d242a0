package logger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_ParsesLevel(t *testing.T) {
	l, err := New("debug", true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	l, err := New("loud", false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestGet_NeverNil(t *testing.T) {
	assert.NotNil(t, Get())
}

func TestGet_AfterFailedInit(t *testing.T) {
	saved := globalLogger
	t.Cleanup(func() { globalLogger = saved })

	globalLogger = nil
	once = sync.Once{}
	once.Do(func() {})

	l := Get()
	require.NotNil(t, l)
	l.Info("dropped")
}
