package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	}
	return zapcore.InfoLevel
}

// ParseLevel accepts debug, info, warn (or warning) and error.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "", "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	}
	return InfoLevel, fmt.Errorf("unknown log level %q", s)
}

type Logger struct {
	level zap.AtomicLevel
	base  *zap.Logger
	Debug *levelLogger
	Info  *levelLogger
	Warn  *levelLogger
	Error *levelLogger
}

type levelLogger struct {
	level  zapcore.Level
	logger *Logger
}

// Global logger instance
var defaultLogger = NewLogger("default", InfoLevel)

// Package-level functions that use the default logger
func Debug() *levelLogger { return defaultLogger.Debug }
func Info() *levelLogger  { return defaultLogger.Info }
func Warn() *levelLogger  { return defaultLogger.Warn }
func Error() *levelLogger { return defaultLogger.Error }

// Function to change the default logger's level
func SetLevel(level Level) {
	defaultLogger.level.SetLevel(level.zapLevel())
}

// Sync flushes buffered entries of the default logger.
func Sync() error {
	return defaultLogger.base.Sync()
}

func (l *levelLogger) Printf(format string, v ...interface{}) {
	l.log(fmt.Sprintf(format, v...))
}

func (l *levelLogger) Println(v ...interface{}) {
	l.log(fmt.Sprintln(v...))
}

func (l *levelLogger) log(msg string) {
	if ce := l.logger.base.Check(l.level, strings.TrimSuffix(msg, "\n")); ce != nil {
		ce.Write()
	}
}

func Init(name string, level Level) {
	defaultLogger = NewLogger(name, level)
}

// InitWriter replaces the default logger with one writing to w.
func InitWriter(name string, level Level, w io.Writer) {
	defaultLogger = newLogger(name, level, zapcore.Lock(zapcore.AddSync(w)))
}

func NewLogger(name string, level Level) *Logger {
	return newLogger(name, level, zapcore.Lock(os.Stdout))
}

func newLogger(name string, level Level, out zapcore.WriteSyncer) *Logger {
	atom := zap.NewAtomicLevelAt(level.zapLevel())

	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	cfg.ConsoleSeparator = " "
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), out, atom)

	logger := &Logger{
		level: atom,
		base:  zap.New(core).Named(name),
	}
	logger.Debug = &levelLogger{level: zapcore.DebugLevel, logger: logger}
	logger.Info = &levelLogger{level: zapcore.InfoLevel, logger: logger}
	logger.Warn = &levelLogger{level: zapcore.WarnLevel, logger: logger}
	logger.Error = &levelLogger{level: zapcore.ErrorLevel, logger: logger}

	return logger
}
