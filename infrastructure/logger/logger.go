package logger

import (
	"context"
	"fmt"
	"sort"

	"github.com/seedtabs/qrcoder/constant"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap logger with the structured LoggerInfo shape used
// across the application. It is passed explicitly to every component.
type Logger struct {
	zl *zap.Logger
}

// LoggerInfo contains structured logging information
type LoggerInfo struct {
	ContextFunction string
	Error           *CustomError
	Data            map[string]interface{}
}

// CustomError represents a structured error for logging
type CustomError struct {
	Code    string
	Message string
	Type    string
}

type ctxKey string

// New builds a logger. Debug mode uses the console encoder at debug
// level; otherwise JSON at info level.
func New(debug bool) (*Logger, error) {
	logLevel := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		logLevel = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        constant.LogTimeKey,
		LevelKey:       constant.LogLevelKey,
		NameKey:        constant.LogNameKey,
		CallerKey:      constant.LogCallerKey,
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     constant.LogMessageKey,
		StacktraceKey:  constant.LogStacktraceKey,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var config zap.Config
	if debug {
		config = zap.Config{
			Level:            logLevel,
			Development:      true,
			Encoding:         constant.LogEncodingConsole,
			EncoderConfig:    encoderConfig,
			OutputPaths:      []string{constant.LogOutputStdout},
			ErrorOutputPaths: []string{constant.LogOutputStderr},
		}
	} else {
		// No sampling: every overflow warning must reach the operator.
		config = zap.Config{
			Level:            logLevel,
			Development:      false,
			Encoding:         constant.LogEncodingJSON,
			EncoderConfig:    encoderConfig,
			OutputPaths:      []string{constant.LogOutputStdout},
			ErrorOutputPaths: []string{constant.LogOutputStderr},
		}
	}

	zl, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return &Logger{zl: zl.Named(constant.LogName)}, nil
}

// NewWithCore wraps an existing zap core, used by tests with zaptest/observer.
func NewWithCore(core zapcore.Core) *Logger {
	return &Logger{zl: zap.New(core).Named(constant.LogName)}
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{zl: zap.NewNop()}
}

// Close flushes buffered log entries.
func (l *Logger) Close() {
	if l != nil && l.zl != nil {
		_ = l.zl.Sync()
	}
}

// Zap exposes the underlying zap logger.
func (l *Logger) Zap() *zap.Logger {
	return l.zl
}

// createFields creates zap fields with proper structure
func createFields(ctx context.Context, info LoggerInfo) []zap.Field {
	fields := []zap.Field{}

	if requestID := valueFromContext(ctx, constant.RequestIDKey); requestID != "" {
		fields = append(fields, zap.String(constant.LogRequestIDKey, requestID))
	}
	if runID := valueFromContext(ctx, constant.RunIDKey); runID != "" {
		fields = append(fields, zap.String(constant.LogRunIDKey, runID))
	}

	if info.ContextFunction != "" {
		fields = append(fields, zap.String(constant.LogFunctionKey, info.ContextFunction))
	}

	if info.Error != nil {
		fields = append(fields, zap.String(constant.LogErrorCodeKey, info.Error.Code))
		fields = append(fields, zap.String(constant.LogErrorTypeKey, info.Error.Type))
		fields = append(fields, zap.String(constant.LogErrorMessageKey, info.Error.Message))
	}

	// Sorted so console output is stable between runs.
	keys := make([]string, 0, len(info.Data))
	for k := range info.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, zap.Any(k, info.Data[k]))
	}

	return fields
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, info LoggerInfo) {
	l.CtxDebug(nil, msg, info)
}

// Info logs an info message
func (l *Logger) Info(msg string, info LoggerInfo) {
	l.CtxInfo(nil, msg, info)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, info LoggerInfo) {
	l.CtxWarn(nil, msg, info)
}

// Error logs an error message
func (l *Logger) Error(msg string, info LoggerInfo) {
	l.CtxError(nil, msg, info)
}

// CtxDebug logs a debug message with context
func (l *Logger) CtxDebug(ctx context.Context, msg string, info LoggerInfo) {
	if l == nil || l.zl == nil {
		return
	}
	l.zl.Debug(msg, createFields(ctx, info)...)
}

// CtxInfo logs an info message with context
func (l *Logger) CtxInfo(ctx context.Context, msg string, info LoggerInfo) {
	if l == nil || l.zl == nil {
		return
	}
	l.zl.Info(msg, createFields(ctx, info)...)
}

// CtxWarn logs a warning message with context
func (l *Logger) CtxWarn(ctx context.Context, msg string, info LoggerInfo) {
	if l == nil || l.zl == nil {
		return
	}
	l.zl.Warn(msg, createFields(ctx, info)...)
}

// CtxError logs an error message with context
func (l *Logger) CtxError(ctx context.Context, msg string, info LoggerInfo) {
	if l == nil || l.zl == nil {
		return
	}
	l.zl.Error(msg, createFields(ctx, info)...)
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey(constant.RequestIDKey), requestID)
}

// WithRunID tags every record logged under ctx with a batch run ID
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, ctxKey(constant.RunIDKey), runID)
}

// RequestID returns the request ID stored in ctx, if any
func RequestID(ctx context.Context) string {
	return valueFromContext(ctx, constant.RequestIDKey)
}

// RunID returns the batch run ID stored in ctx, if any
func RunID(ctx context.Context) string {
	return valueFromContext(ctx, constant.RunIDKey)
}

func valueFromContext(ctx context.Context, key string) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxKey(key)).(string); ok {
		return v
	}
	return ""
}
