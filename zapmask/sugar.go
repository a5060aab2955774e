package zapmask

import (
	"github.com/zoobzio/shroud"
	"go.uber.org/zap"
)

// SugaredLogger is a zap.SugaredLogger whose arguments are redacted before
// they are formatted.
type SugaredLogger struct {
	s *zap.SugaredLogger
	r *shroud.LogRedactor
}

// Sugar wraps l. A nil redactor uses the defaults.
// Callers are reported at the call site of the wrapper methods.
func Sugar(l *zap.Logger, r *shroud.LogRedactor) *SugaredLogger {
	if r == nil {
		r = shroud.NewLogRedactor()
	}
	return &SugaredLogger{s: l.WithOptions(zap.AddCallerSkip(1)).Sugar(), r: r}
}

// Desugar returns the underlying logger.
func (l *SugaredLogger) Desugar() *zap.Logger {
	return l.s.Desugar().WithOptions(zap.AddCallerSkip(-1))
}

// With adds redacted key-value context.
func (l *SugaredLogger) With(keysAndValues ...any) *SugaredLogger {
	return &SugaredLogger{s: l.s.With(l.kv(keysAndValues)...), r: l.r}
}

// Sync flushes buffered entries.
func (l *SugaredLogger) Sync() error {
	return l.s.Sync()
}

func (l *SugaredLogger) Debug(args ...any) { l.s.Debug(l.r.RedactArgs(args)...) }
func (l *SugaredLogger) Info(args ...any)  { l.s.Info(l.r.RedactArgs(args)...) }
func (l *SugaredLogger) Warn(args ...any)  { l.s.Warn(l.r.RedactArgs(args)...) }
func (l *SugaredLogger) Error(args ...any) { l.s.Error(l.r.RedactArgs(args)...) }

func (l *SugaredLogger) Debugf(template string, args ...any) {
	l.s.Debugf(template, l.r.RedactArgs(args)...)
}

func (l *SugaredLogger) Infof(template string, args ...any) {
	l.s.Infof(template, l.r.RedactArgs(args)...)
}

func (l *SugaredLogger) Warnf(template string, args ...any) {
	l.s.Warnf(template, l.r.RedactArgs(args)...)
}

func (l *SugaredLogger) Errorf(template string, args ...any) {
	l.s.Errorf(template, l.r.RedactArgs(args)...)
}

func (l *SugaredLogger) Debugw(msg string, keysAndValues ...any) {
	l.s.Debugw(msg, l.kv(keysAndValues)...)
}

func (l *SugaredLogger) Infow(msg string, keysAndValues ...any) {
	l.s.Infow(msg, l.kv(keysAndValues)...)
}

func (l *SugaredLogger) Warnw(msg string, keysAndValues ...any) {
	l.s.Warnw(msg, l.kv(keysAndValues)...)
}

func (l *SugaredLogger) Errorw(msg string, keysAndValues ...any) {
	l.s.Errorw(msg, l.kv(keysAndValues)...)
}

// kv redacts the values of a key-value list, turning redacted structs into
// zap fields so they keep their structure.
func (l *SugaredLogger) kv(keysAndValues []any) []any {
	out := make([]any, 0, len(keysAndValues))
	for i := 0; i < len(keysAndValues); i++ {
		arg := keysAndValues[i]
		if _, ok := arg.(zap.Field); ok {
			out = append(out, arg)
			continue
		}
		key, isKey := arg.(string)
		if !isKey || i+1 >= len(keysAndValues) {
			out = append(out, l.r.Redact(arg))
			continue
		}
		i++
		if red, ok := l.r.Redact(keysAndValues[i]).(*shroud.Redacted); ok {
			out = append(out, Field(key, red))
			continue
		}
		out = append(out, key, keysAndValues[i])
	}
	return out
}
