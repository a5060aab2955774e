// Package zapmask installs log redaction into zap.
//
// NewCore wraps any zapcore.Core so that struct values logged with zap.Any,
// zap.Reflect or zap.Stringer have their sensitive fields masked before the
// encoder sees them. Sugar does the same for printf-style arguments.
package zapmask

import (
	"fmt"

	"github.com/zoobzio/shroud"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// redactingCore wraps a zapcore.Core to redact sensitive struct fields.
type redactingCore struct {
	zapcore.Core
	redactor *shroud.LogRedactor
}

// NewCore wraps base with log redaction. A nil redactor uses the defaults.
func NewCore(base zapcore.Core, r *shroud.LogRedactor) zapcore.Core {
	if r == nil {
		r = shroud.NewLogRedactor()
	}
	return &redactingCore{Core: base, redactor: r}
}

// With redacts context fields before they are bound to the child core.
func (c *redactingCore) With(fields []zapcore.Field) zapcore.Core {
	return &redactingCore{
		Core:     c.Core.With(c.redactFields(fields)),
		redactor: c.redactor,
	}
}

// Check registers this core, not the wrapped one, so Write sees the entry.
func (c *redactingCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write redacts fields and forwards the entry.
func (c *redactingCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	return c.Core.Write(ent, c.redactFields(fields))
}

// redactFields returns fields with reflected and Stringer values redacted.
// The input slice is copied only when a field changes.
func (c *redactingCore) redactFields(fields []zapcore.Field) []zapcore.Field {
	var out []zapcore.Field
	for i, f := range fields {
		nf, changed := c.redactField(f)
		if !changed {
			if out != nil {
				out = append(out, f)
			}
			continue
		}
		if out == nil {
			out = make([]zapcore.Field, i, len(fields))
			copy(out, fields[:i])
		}
		out = append(out, nf)
	}
	if out == nil {
		return fields
	}
	return out
}

func (c *redactingCore) redactField(f zapcore.Field) (zapcore.Field, bool) {
	switch f.Type {
	case zapcore.ReflectType, zapcore.StringerType:
	default:
		return f, false
	}

	red, ok := c.redactor.Redact(f.Interface).(*shroud.Redacted)
	if !ok {
		return f, false
	}
	return Field(f.Key, red), true
}

// Field converts a redacted value into a zap field: an object when fields
// are available, otherwise its text.
func Field(key string, red *shroud.Redacted) zap.Field {
	if len(red.Fields()) == 0 {
		return zap.Stringer(key, red)
	}
	return zap.Object(key, redactedObject{red})
}

// redactedObject marshals a *shroud.Redacted as a zap object.
type redactedObject struct {
	red *shroud.Redacted
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (o redactedObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	for _, f := range o.red.Fields() {
		switch v := f.Value.(type) {
		case nil:
			enc.AddString(f.Name, "<nil>")
		case string:
			enc.AddString(f.Name, v)
		case *shroud.Redacted:
			if err := enc.AddObject(f.Name, redactedObject{v}); err != nil {
				return err
			}
		case fmt.Stringer:
			enc.AddString(f.Name, v.String())
		default:
			if err := enc.AddReflected(f.Name, v); err != nil {
				return err
			}
		}
	}
	return nil
}
