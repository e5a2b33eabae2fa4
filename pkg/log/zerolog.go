package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	cferrors "github.com/YuminosukeSato/curvefit/pkg/errors"
)

const (
	// ErrAttrKey is the key an error passed as first Error field is logged under.
	ErrAttrKey = "error"
	// StacktraceAttrKey carries the cockroachdb/errors stack of a logged error.
	StacktraceAttrKey = "stacktrace"
)

func init() {
	zerolog.ErrorStackFieldName = StacktraceAttrKey
	zerolog.ErrorStackMarshaler = func(err error) interface{} {
		if st := extractStacktrace(err); st != "" {
			return st
		}
		return nil
	}
}

// extractStacktrace returns the first safe detail recorded by
// cockroachdb/errors, which is the stack captured by WithStack. Errors
// without safe details fall back to their verbose format.
func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	if verbose := fmt.Sprintf("%+v", err); verbose != err.Error() {
		return verbose
	}
	return ""
}

// ZerologProvider implements LoggerProvider on top of a zerolog.Logger.
type ZerologProvider struct {
	mu   sync.RWMutex
	base zerolog.Logger
}

// NewZerologProvider creates a provider writing JSON lines to w at level.
func NewZerologProvider(w io.Writer, level Level) *ZerologProvider {
	return &ZerologProvider{
		base: zerolog.New(w).With().Timestamp().Logger().Level(toZerologLevel(level)),
	}
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *ZerologProvider) GetLogger() Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologLogger{zl: p.base}
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	return p.GetLogger().With(ComponentKey, name)
}

// SetLevel implements LoggerProvider.SetLevel.
func (p *ZerologProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.base = p.base.Level(toZerologLevel(level))
}

// SetOutput redirects subsequently created loggers to w.
func (p *ZerologProvider) SetOutput(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.base = p.base.Output(w)
}

var defaultProvider = NewZerologProvider(os.Stderr, LevelWarn)

// GetLogger returns a logger from the default provider.
func GetLogger() Logger {
	return defaultProvider.GetLogger()
}

// GetLoggerWithName returns a component logger from the default provider.
func GetLoggerWithName(name string) Logger {
	return defaultProvider.GetLoggerWithName(name)
}

// SetLevel sets the level of the default provider.
func SetLevel(level Level) {
	defaultProvider.SetLevel(level)
}

// SetOutput sets the writer of the default provider.
func SetOutput(w io.Writer) {
	defaultProvider.SetOutput(w)
}

// SetupLogger configures the default provider from a level name and routes
// library warnings (errors.Warn) through it.
func SetupLogger(loglevel string) error {
	level, err := ParseLevel(loglevel)
	if err != nil {
		return err
	}
	SetLevel(level)
	cferrors.SetZerologWarnFunc(func(w error) {
		GetLoggerWithName("warnings").Warn(w.Error(), "warning", w)
	})
	return nil
}

// ParseLevel converts "debug", "info", "warn" or "error" to a Level.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, cferrors.NewValidationError("log_level", "unknown level", level)
	}
}

func toZerologLevel(l Level) zerolog.Level {
	switch {
	case l <= LevelDebug:
		return zerolog.DebugLevel
	case l <= LevelInfo:
		return zerolog.InfoLevel
	case l <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

type zerologLogger struct {
	zl zerolog.Logger
}

func (l *zerologLogger) Debug(msg string, fields ...any) { emit(l.zl.Debug(), msg, fields) }
func (l *zerologLogger) Info(msg string, fields ...any)  { emit(l.zl.Info(), msg, fields) }
func (l *zerologLogger) Warn(msg string, fields ...any)  { emit(l.zl.Warn(), msg, fields) }
func (l *zerologLogger) Error(msg string, fields ...any) { emit(l.zl.Error(), msg, fields) }

func (l *zerologLogger) With(fields ...any) Logger {
	ctx := l.zl.With()
	for i := 0; i+1 < len(fields); i += 2 {
		ctx = ctx.Interface(fmt.Sprint(fields[i]), fields[i+1])
	}
	return &zerologLogger{zl: ctx.Logger()}
}

func (l *zerologLogger) Enabled(_ context.Context, level Level) bool {
	zlevel := toZerologLevel(level)
	return zlevel >= l.zl.GetLevel() && zlevel >= zerolog.GlobalLevel()
}

// emit appends key/value fields to e. A leading error is logged with its
// stack; typed values keep their JSON type.
func emit(e *zerolog.Event, msg string, fields []any) {
	if e == nil {
		return
	}
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			e = e.Stack().Err(err)
			fields = fields[1:]
		}
	}
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		switch v := fields[i+1].(type) {
		case string:
			e = e.Str(key, v)
		case int:
			e = e.Int(key, v)
		case int64:
			e = e.Int64(key, v)
		case float64:
			e = e.Float64(key, v)
		case bool:
			e = e.Bool(key, v)
		case []float64:
			e = e.Floats64(key, v)
		case []string:
			e = e.Strs(key, v)
		case zerolog.LogObjectMarshaler:
			e = e.Object(key, v)
		case error:
			e = e.AnErr(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	e.Msg(msg)
}
