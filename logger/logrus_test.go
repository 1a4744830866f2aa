package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogrusLogger(t *testing.T) {
	logrusLogger := logrus.New()
	logrusLogger.SetOutput(&bytes.Buffer{})

	logrusAdapter := NewLogrusLogger(logrusLogger, Config{
		LogLevel:      Info,
		SlowThreshold: 100 * time.Millisecond,
	})

	require.NotNil(t, logrusAdapter)
	assert.Equal(t, Info, logrusAdapter.(*LogrusLogger).LogLevel)
	assert.Equal(t, 100*time.Millisecond, logrusAdapter.(*LogrusLogger).SlowThreshold)
}

func TestLogrusLogger_LogMode(t *testing.T) {
	logger := NewLogrusLogger(logrus.New(), Config{LogLevel: Error})

	infoLogger := logger.LogMode(Info)
	assert.Equal(t, Info, infoLogger.(*LogrusLogger).LogLevel)

	// original is not affected
	assert.Equal(t, Error, logger.(*LogrusLogger).LogLevel)
}

func TestLogrusLogger_LogLevels(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer

	logrusLogger := logrus.New()
	logrusLogger.SetOutput(&buf)
	logger := NewLogrusLogger(logrusLogger, Config{LogLevel: Info})

	tests := []struct {
		name   string
		level  LogLevel
		logMsg string
	}{
		{"Info level", Info, "schema resolved"},
		{"Warn level", Warn, "schema unavailable"},
		{"Error level", Error, "bind failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			logger := logger.LogMode(tt.level)

			switch tt.level {
			case Info:
				logger.Info(ctx, tt.logMsg, "model", "Widget")
			case Warn:
				logger.Warn(ctx, tt.logMsg, "model", "Widget")
			case Error:
				logger.Error(ctx, tt.logMsg, "model", "Widget")
			}

			output := buf.String()
			assert.Contains(t, output, tt.logMsg)
			assert.Contains(t, output, "Widget")
		})
	}

	t.Run("Filtered by level", func(t *testing.T) {
		buf.Reset()
		logger.LogMode(Warn).Info(ctx, "hidden")
		assert.Empty(t, buf.String())
	})
}

func TestLogrusLogger_Trace(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer

	logrusLogger := logrus.New()
	logrusLogger.SetOutput(&buf)
	logger := NewLogrusLogger(logrusLogger, Config{
		LogLevel:                  Info,
		SlowThreshold:             100 * time.Millisecond,
		IgnoreRecordNotFoundError: true,
	})

	t.Run("Normal trace", func(t *testing.T) {
		buf.Reset()
		logger.Trace(ctx, time.Now(), func() (string, int64) {
			return "SELECT * FROM widgets WHERE id = 5", 1
		}, nil)

		output := buf.String()
		assert.Contains(t, output, "SELECT * FROM widgets WHERE id = 5")
		assert.Contains(t, output, "rows")
		assert.Contains(t, output, "duration")
	})

	t.Run("Slow query", func(t *testing.T) {
		buf.Reset()
		logger.Trace(ctx, time.Now().Add(-150*time.Millisecond), func() (string, int64) {
			return "SELECT * FROM large_table", 1000
		}, nil)

		output := buf.String()
		assert.Contains(t, output, "SLOW SQL")
		assert.Contains(t, output, "slow_threshold")
	})

	t.Run("Error", func(t *testing.T) {
		buf.Reset()
		logger.Trace(ctx, time.Now(), func() (string, int64) {
			return "SELECT * FROM missing", -1
		}, errors.New("no such table"))

		output := buf.String()
		assert.Contains(t, output, "no such table")
		assert.NotContains(t, output, "rows")
	})

	t.Run("Record not found ignored", func(t *testing.T) {
		buf.Reset()
		logger.LogMode(Error).Trace(ctx, time.Now(), func() (string, int64) {
			return "SELECT * FROM widgets LIMIT 1", 0
		}, ErrRecordNotFound)
		assert.Empty(t, buf.String())
	})

	t.Run("Silent", func(t *testing.T) {
		buf.Reset()
		logger.LogMode(Silent).Trace(ctx, time.Now(), func() (string, int64) {
			return "SELECT 1", 1
		}, errors.New("boom"))
		assert.Empty(t, buf.String())
	})
}
