package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&Config{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)

	ctx := WithWindow(WithProject(context.Background(), "global3"), 3)
	logger.Info(ctx, "project created", zap.Int("port", 6000))
	require.NoError(t, logger.Sync())

	out := buf.String()
	require.Contains(t, out, `"msg":"project created"`)
	require.Contains(t, out, `"project":"global3"`)
	require.Contains(t, out, `"window":3`)
	require.Contains(t, out, `"port":6000`)
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	_, err := NewLogger(&Config{Level: "info", Format: "xml"}, &bytes.Buffer{})
	require.Error(t, err)

	_, err = NewLogger(&Config{Level: "loud", Format: "json"}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestLevelFromString(t *testing.T) {
	l, err := LevelFromString("trace")
	require.NoError(t, err)
	require.Equal(t, TraceLevel, l)

	l, err = LevelFromString("warn")
	require.NoError(t, err)
	require.Equal(t, zapcore.WarnLevel, l)
}

func TestTestLogger(t *testing.T) {
	logger := NewTestLogger()
	logger.Trace(context.Background(), "classpath scanned")
	logger.AssertLogged(t, TraceLevel, "classpath")
	logger.AssertNotLogged(t, zapcore.ErrorLevel, "classpath")
	require.Len(t, logger.All(), 1)
}
