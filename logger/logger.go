package logger

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrRecordNotFound record not found error
var ErrRecordNotFound = errors.New("record not found")

// LogLevel log level
type LogLevel int

const (
	// Silent silent log level
	Silent LogLevel = iota + 1
	// Error error log level
	Error
	// Warn warn log level
	Warn
	// Info info log level
	Info
)

// Config logger config
type Config struct {
	SlowThreshold             time.Duration
	LogLevel                  LogLevel
	ParameterizedQueries      bool
	IgnoreRecordNotFoundError bool
}

// Interface logger interface
type Interface interface {
	LogMode(LogLevel) Interface
	Info(context.Context, string, ...interface{})
	Warn(context.Context, string, ...interface{})
	Error(context.Context, string, ...interface{})
	Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error)
}

var (
	// Discard logger will print nothing
	Discard = NewLogrusLogger(discardLogrus(), Config{LogLevel: Silent})
	// Default default logger
	Default = NewLogrusLogger(logrus.StandardLogger(), Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  levelFromEnv(),
		IgnoreRecordNotFoundError: true,
	})
)

func levelFromEnv() LogLevel {
	switch os.Getenv("MODELKIT_LOG_LEVEL") {
	case "silent":
		return Silent
	case "info":
		return Info
	case "error":
		return Error
	default:
		return Warn
	}
}

func discardLogrus() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(nopWriter{})
	return l
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
