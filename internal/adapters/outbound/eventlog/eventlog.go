// Package eventlog writes pipeline events to a zap logger.
package eventlog

import (
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shipkraft/shipkraft/internal/domain"
)

// Logger is an EventSink backed by zap.
type Logger struct {
	log *zap.Logger
}

// New wraps log. A nil logger discards everything.
func New(log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{log: log}
}

// Emit logs e. Degraded outcomes are warnings, everything else is debug output.
func (l *Logger) Emit(e domain.Event) {
	fields := make([]zap.Field, 0, len(e.Fields)+2)
	fields = append(fields, zap.String("stage", e.Stage), zap.String("kind", e.Kind))

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, zap.String(k, e.Fields[k]))
	}

	if isDegraded(e.Kind) {
		l.log.Warn(e.Message, fields...)
		return
	}
	l.log.Debug(e.Message, fields...)
}

func isDegraded(kind string) bool {
	switch kind {
	case domain.EventParseFailed, domain.EventFetchFailed,
		domain.EventEnrichmentUnavailable, domain.EventSuiteCrashed:
		return true
	}
	return false
}

// NewZap builds the process logger. Output goes to stderr so it never mixes with
// JSON written to stdout. verbose forces the debug level.
func NewZap(level string, verbose bool) (*zap.Logger, error) {
	lvl := zapcore.WarnLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parsing log level %q: %w", level, err)
		}
		lvl = parsed
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		zap.NewAtomicLevelAt(lvl),
	)
	return zap.New(core), nil
}
