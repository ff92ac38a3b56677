package logger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), logs
}

func traceQuery(l *GormLogger, elapsed time.Duration, err error) {
	l.Trace(context.Background(), time.Now().Add(-elapsed), func() (string, int64) {
		return "SELECT * FROM stock_entries", 3
	}, err)
}

func TestNewGormLogger(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Warn)
	require.NotNil(t, gl)
	assert.Equal(t, defaultSlowThreshold, gl.slowThreshold)
	assert.True(t, gl.ignoreRecordNotFoundError)
}

func TestGormLoggerOptions(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Warn,
		WithSlowThreshold(time.Second),
		WithIgnoreRecordNotFoundError(false),
	)
	assert.Equal(t, time.Second, gl.slowThreshold)
	assert.False(t, gl.ignoreRecordNotFoundError)
}

func TestGormLoggerLogMode(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Warn)

	quiet := gl.LogMode(gormlogger.Silent)
	require.NotSame(t, gl, quiet)
	assert.Equal(t, gormlogger.Warn, gl.logLevel)
}

func TestGormLoggerLevelGating(t *testing.T) {
	t.Run("info emitted at info level", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Info)
		gl.Info(context.Background(), "migrated %d tables", 4)
		require.Len(t, logs.All(), 1)
	})

	t.Run("info suppressed at warn level", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Warn)
		gl.Info(context.Background(), "migrated %d tables", 4)
		assert.Empty(t, logs.All())
	})

	t.Run("error emitted at error level", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Error)
		gl.Error(context.Background(), "bad connection")
		require.Len(t, logs.All(), 1)
		assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
	})
}

func TestGormLoggerTrace(t *testing.T) {
	t.Run("query error logged", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Error)
		traceQuery(gl, time.Millisecond, assert.AnError)

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "SQL Error", entries[0].Message)
		assert.Equal(t, "SELECT * FROM stock_entries", entries[0].ContextMap()["sql"])
	})

	t.Run("record not found ignored by default", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Error)
		traceQuery(gl, time.Millisecond, gormlogger.ErrRecordNotFound)
		assert.Empty(t, logs.All())
	})

	t.Run("slow query logged at warn", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Millisecond))
		traceQuery(gl, 50*time.Millisecond, nil)

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "Slow SQL", entries[0].Message)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	})

	t.Run("normal query logged at debug under info level", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Info)
		traceQuery(gl, time.Millisecond, nil)

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "SQL Query", entries[0].Message)
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	})

	t.Run("silent level emits nothing", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Silent)
		traceQuery(gl, 500*time.Millisecond, assert.AnError)
		assert.Empty(t, logs.All())
	})

	t.Run("request id attached when on context", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Info)
		ctx := context.WithValue(context.Background(), RequestIDKey, "req-42")
		gl.Trace(ctx, time.Now(), func() (string, int64) {
			return "SELECT 1", 1
		}, nil)

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
	})
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"unknown", gormlogger.Warn},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapGormLogLevel(tt.input))
		})
	}
}

func TestGormLoggerImplementsInterface(t *testing.T) {
	var _ gormlogger.Interface = (*GormLogger)(nil)
}
