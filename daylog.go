// Package daylog provides process-local leveled logging with daily log
// file rotation and bounded retention. Records go to a rotating file sink
// and optionally to stdout; the active file is named
// {service}_{YYYY-MM-DD}.log, files retired by rotation get a minute-level
// timestamp, and rotated files beyond the retention count are removed.
package daylog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/egliette/daylog/config"
	"github.com/egliette/daylog/rotate"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	fileTimeLayout    = "2006-01-02 15:04:05"
	consoleTimeLayout = "15:04:05"
)

// Logger is the logging facade: leveled writes through a rotating file
// sink, with an optional console echo.
type Logger struct {
	zl   *zap.Logger
	sink rotate.Sink
}

// New builds a Logger from the given configuration, nil meaning defaults.
// Most services use the process-wide Init/Default pair; New exists for
// dependency injection and tests. Failure to create the log directory is
// fatal, a failed startup cleanup sweep is not.
func New(cfg *config.Config) (*Logger, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lvl, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	sink, err := buildSink(cfg)
	if err != nil {
		return nil, err
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(fileEncoderConfig()), zapcore.AddSync(sink), lvl),
	}
	if cfg.Console {
		cores = append(cores,
			zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig()), zapcore.Lock(os.Stdout), lvl))
	}

	zl := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(2))
	zl = zl.Named(strings.ToUpper(cfg.Service))
	return &Logger{zl: zl, sink: sink}, nil
}

// buildSink constructs the rotating sink the configured strategy asks for.
// Sweep failures surface on stderr: the sink cannot log its own
// housekeeping problems through itself.
func buildSink(cfg *config.Config) (rotate.Sink, error) {
	switch cfg.Rotation.Strategy {
	case config.StrategySize:
		return rotate.NewSize(filepath.Join(cfg.Dir, cfg.Service+".log"),
			rotate.WithMaxSizeMB(cfg.Rotation.MaxSizeMB),
			rotate.WithMaxBackups(cfg.Rotation.MaxBackups),
			rotate.WithMaxAgeDays(cfg.Rotation.MaxAgeDays),
			rotate.WithCompress(cfg.Rotation.Compress),
		)
	default:
		return rotate.NewDaily(cfg.Dir, cfg.Service, cfg.MaxFiles,
			rotate.WithOnError(func(err error) {
				fmt.Fprintf(os.Stderr, "daylog: cleanup: %v\n", err)
			}),
		)
	}
}

// Debug logs msg at debug level. Pass true as the optional trailing flag
// to attach a stack trace of the calling goroutine.
func (l *Logger) Debug(msg string, trace ...bool) { l.emit(zapcore.DebugLevel, msg, traceField(trace)...) }

// Info logs msg at info level.
func (l *Logger) Info(msg string, trace ...bool) { l.emit(zapcore.InfoLevel, msg, traceField(trace)...) }

// Warn logs msg at warn level.
func (l *Logger) Warn(msg string, trace ...bool) { l.emit(zapcore.WarnLevel, msg, traceField(trace)...) }

// Error logs msg at error level.
func (l *Logger) Error(msg string, trace ...bool) { l.emit(zapcore.ErrorLevel, msg, traceField(trace)...) }

// Critical logs msg at the highest severity. It does not exit or panic.
func (l *Logger) Critical(msg string, trace ...bool) {
	l.emit(zapcore.DPanicLevel, msg, traceField(trace)...)
}

// Exception logs a caught error with its concrete type and message at
// error level, always attaching a stack trace. The context label names
// where the error was caught.
func (l *Logger) Exception(err error, context string) {
	msg := "Exception occurred"
	if context != "" {
		msg += " in " + context
	}
	if err != nil {
		msg = fmt.Sprintf("%s: %T: %v", msg, err, err)
	}
	l.emit(zapcore.ErrorLevel, msg, zap.Stack("stacktrace"))
}

// Perf logs a performance event at info level: the operation name, its
// duration in seconds, and any structured context fields.
func (l *Logger) Perf(operation string, d time.Duration, fields ...zap.Field) {
	l.emit(zapcore.InfoLevel, fmt.Sprintf("Performance: %s took %.3fs", operation, d.Seconds()), fields...)
}

// Rotate forces a rotation of the underlying sink.
func (l *Logger) Rotate() error { return l.sink.Rotate() }

// Sync flushes buffered log entries.
func (l *Logger) Sync() error { return l.zl.Sync() }

// Close flushes the logger and closes the underlying sink.
func (l *Logger) Close() error {
	return multierr.Append(l.zl.Sync(), l.sink.Close())
}

// emit is the single choke point every public method funnels through, so
// the caller annotation always skips the same two frames.
func (l *Logger) emit(lvl zapcore.Level, msg string, fields ...zap.Field) {
	if ce := l.zl.Check(lvl, msg); ce != nil {
		ce.Write(fields...)
	}
}

// traceField turns the optional trailing flag of the severity methods into
// a stack trace field.
func traceField(trace []bool) []zap.Field {
	if len(trace) > 0 && trace[0] {
		return []zap.Field{zap.Stack("stacktrace")}
	}
	return nil
}

// parseLevel maps a configured level name onto zap's scale. "critical" has
// no zap equivalent and rides on DPanicLevel; outside development mode
// that level logs without panicking.
func parseLevel(s string) (zapcore.Level, error) {
	if s == "critical" {
		return zapcore.DPanicLevel, nil
	}
	lvl, err := zapcore.ParseLevel(s)
	if err != nil {
		return lvl, fmt.Errorf("parsing log level %q: %w", s, err)
	}
	return lvl, nil
}

// criticalLevelEncoder prints DPanicLevel as CRITICAL and everything else
// in zap's capital form.
func criticalLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if l == zapcore.DPanicLevel {
		enc.AppendString("CRITICAL")
		return
	}
	zapcore.CapitalLevelEncoder(l, enc)
}

// fileEncoderConfig is the detailed format written to disk:
// timestamp - LEVEL - SERVICE - file:line - message.
func fileEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		NameKey:          "logger",
		CallerKey:        "caller",
		MessageKey:       "msg",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout(fileTimeLayout),
		EncodeLevel:      criticalLevelEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " - ",
	}
}

// consoleEncoderConfig is the shortened format echoed to stdout:
// time - LEVEL - message.
func consoleEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		MessageKey:       "msg",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout(consoleTimeLayout),
		EncodeLevel:      criticalLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " - ",
	}
}
