package pkg

import (
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
)

// LogLevel is the verbosity accepted by the command line and config file.
type LogLevel int

const (
	// LogLevelError only reports failures of a whole run
	LogLevelError LogLevel = iota
	// LogLevelWarn reports data sources that could not be read at all
	LogLevelWarn
	// LogLevelInfo reports snapshot progress
	LogLevelInfo
	// LogLevelDebug reports every fallback taken per interface
	LogLevelDebug
)

// Logger wraps the logrus logger shared by all ifshow packages.
type Logger struct {
	logger *log.Logger
}

var defaultLogger *Logger

func init() {
	defaultLogger = NewLogger(LogLevelWarn)
	defaultLogger.logger.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
}

// NewLogger creates a logger at the given level
func NewLogger(level LogLevel) *Logger {
	logger := log.New()
	logger.SetLevel(logrusLevel(level))
	return &Logger{logger: logger}
}

func logrusLevel(level LogLevel) log.Level {
	switch level {
	case LogLevelDebug:
		return log.DebugLevel
	case LogLevelInfo:
		return log.InfoLevel
	case LogLevelWarn:
		return log.WarnLevel
	case LogLevelError:
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}

// ParseLogLevel maps a level name to a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug, nil
	case "info":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	}
	return LogLevelWarn, fmt.Errorf("invalid log level: %s", s)
}

// SetLogLevel sets the level of the shared logger
func SetLogLevel(level LogLevel) {
	defaultLogger.logger.SetLevel(logrusLevel(level))
}

// SetLogLevelFromString sets the level of the shared logger by name
func SetLogLevelFromString(s string) error {
	level, err := ParseLogLevel(s)
	if err != nil {
		return err
	}
	SetLogLevel(level)
	return nil
}

func Debug(format string, args ...interface{}) {
	defaultLogger.logger.Debugf(format, args...)
}

func Info(format string, args ...interface{}) {
	defaultLogger.logger.Infof(format, args...)
}

func Warn(format string, args ...interface{}) {
	defaultLogger.logger.Warnf(format, args...)
}

func Error(format string, args ...interface{}) {
	defaultLogger.logger.Errorf(format, args...)
}

// SetOutput redirects the shared logger, mostly for tests
func SetOutput(w io.Writer) {
	defaultLogger.logger.SetOutput(w)
}

func WithField(key string, value interface{}) *log.Entry {
	return defaultLogger.logger.WithField(key, value)
}

func WithFields(fields log.Fields) *log.Entry {
	return defaultLogger.logger.WithFields(fields)
}

func WithError(err error) *log.Entry {
	return defaultLogger.logger.WithError(err)
}

// ForInterface returns an entry tagged with the interface being queried.
func ForInterface(name string) *log.Entry {
	return defaultLogger.logger.WithField("interface", name)
}
