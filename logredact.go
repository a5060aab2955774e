package shroud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// LogMode selects how a redacted log argument is rendered.
type LogMode string

const (
	// LogModeCopy renders a copy of the argument with sensitive values masked.
	LogModeCopy LogMode = "copy"

	// LogModeLabel renders only MaskedObject(TypeName).
	LogModeLabel LogMode = "label"
)

// ParseLogMode resolves a mode name case-insensitively.
func ParseLogMode(name string) (LogMode, error) {
	switch m := LogMode(strings.ToLower(strings.TrimSpace(name))); m {
	case LogModeCopy, LogModeLabel:
		return m, nil
	}
	return "", newConfigError(ErrInvalidMode, "", "", name)
}

// maxLogDepth bounds nested rendering so pointer cycles terminate.
const maxLogDepth = 16

// LogRedactor masks sensitive fields of values passed to a log call.
// Masking is unconditional: no principal is consulted.
// Arguments are never modified; redacted values are copies.
type LogRedactor struct {
	index      *Index
	mode       LogMode
	plans      sync.Map // reflect.Type -> *logPlan
	containers sync.Map // reflect.Type -> bool, slice/array/map holds sensitive structs
}

// LogOption configures a LogRedactor.
type LogOption func(*LogRedactor)

// WithLogIndex sets the field index. Defaults to DefaultIndex.
func WithLogIndex(idx *Index) LogOption {
	return func(r *LogRedactor) { r.index = idx }
}

// WithLogMode sets the rendering mode. Defaults to LogModeCopy.
func WithLogMode(m LogMode) LogOption {
	return func(r *LogRedactor) { r.mode = m }
}

// NewLogRedactor creates a LogRedactor.
func NewLogRedactor(opts ...LogOption) *LogRedactor {
	r := &LogRedactor{
		index: DefaultIndex(),
		mode:  LogModeCopy,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultLogRedactor = NewLogRedactor()

// RedactArgs redacts log arguments with the default LogRedactor.
func RedactArgs(args []any) []any {
	return defaultLogRedactor.RedactArgs(args)
}

// RedactArgs returns a new argument list in which every value with
// sensitive fields is replaced by a *Redacted.
func (r *LogRedactor) RedactArgs(args []any) []any {
	if args == nil {
		return nil
	}
	out := make([]any, len(args))
	for i, arg := range args {
		out[i] = r.Redact(arg)
	}
	return out
}

// Redact returns v unchanged if it has no sensitive fields, and a *Redacted
// rendering of it otherwise. Slices, arrays and maps are redacted when their
// elements hold sensitive structs.
func (r *LogRedactor) Redact(v any) any {
	switch v.(type) {
	case nil, string, bool, []byte, *Redacted:
		return v
	}

	rv := reflect.ValueOf(v)
	if isLeafKind(rv.Kind()) {
		return v
	}
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return v
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct:
	case reflect.Slice, reflect.Array, reflect.Map:
		return r.redactContainer(v, rv)
	default:
		return v
	}

	plan := r.planFor(rv.Type())
	if !plan.sensitive {
		return v
	}

	if r.mode == LogModeLabel {
		return &Redacted{typeName: plan.name, label: true}
	}

	red := r.redactStruct(plan, rv, 0)
	if s, ok := v.(fmt.Stringer); ok && plan.copyable {
		red.text = r.stringCopy(plan, rv, s)
	}
	return red
}

// redactContainer redacts a slice, array or map whose elements hold
// sensitive structs, and returns v unchanged otherwise.
func (r *LogRedactor) redactContainer(v any, rv reflect.Value) any {
	t := rv.Type()
	holds, ok := r.containers.Load(t)
	if !ok {
		holds, _ = r.containers.LoadOrStore(t, newProjector(r.index).containsSensitive(t, map[reflect.Type]bool{}))
	}
	if !holds.(bool) {
		return v
	}

	name := logTypeName(t)
	if r.mode == LogModeLabel {
		return &Redacted{typeName: name, label: true}
	}
	val := r.redactValue(rv, 0)
	return &Redacted{typeName: name, text: fmt.Sprint(val), value: val}
}

func logTypeName(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

func isLeafKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}

// logPlan is the cached rendering layout of one struct type.
type logPlan struct {
	name      string
	sensitive bool // sensitive fields here or in nested structs
	copyable  bool // every sensitive field is a directly settable string or *string
	fields    []logField
}

type logField struct {
	name   string
	index  []int
	desc   *Descriptor
	nested bool // holds sensitive structs: struct, pointer, slice, array or map
}

func (r *LogRedactor) planFor(t reflect.Type) *logPlan {
	if p, ok := r.plans.Load(t); ok {
		return p.(*logPlan)
	}

	fields, _ := r.index.Lookup(t)
	sensitive := make(map[string]Descriptor, len(fields))
	for _, f := range fields {
		sensitive[fieldKey(f.Index)] = f.Descriptor
	}

	plan := &logPlan{
		name:      logTypeName(t),
		sensitive: len(sensitive) > 0,
		copyable:  true,
	}

	pj := newProjector(r.index)
	for _, sf := range reflect.VisibleFields(t) {
		if coveredBy(fields, sf.Index) {
			continue
		}
		d, ok := sensitive[fieldKey(sf.Index)]
		if !ok && sf.Anonymous && isStructLike(sf.Type) {
			continue
		}
		lf := logField{name: sf.Name, index: sf.Index}
		if ok {
			lf.desc = &d
			if !sf.IsExported() || !isStringLike(sf.Type) || crossesPointer(t, sf.Index) {
				plan.copyable = false
			}
		} else if pj.containsSensitive(sf.Type, map[reflect.Type]bool{}) {
			lf.nested = true
			plan.sensitive = true
			plan.copyable = false
		}
		plan.fields = append(plan.fields, lf)
	}

	actual, _ := r.plans.LoadOrStore(t, plan)
	return actual.(*logPlan)
}

func isStringLike(t reflect.Type) bool {
	return t.Kind() == reflect.String || (t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.String)
}

// crossesPointer reports whether reaching index from t dereferences an
// embedded pointer, which a shallow copy would share with the caller.
func crossesPointer(t reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		t = t.Field(i).Type
		if t.Kind() == reflect.Pointer {
			return true
		}
	}
	return false
}

// redactStruct renders rv field by field with sensitive values masked.
func (r *LogRedactor) redactStruct(plan *logPlan, rv reflect.Value, depth int) *Redacted {
	red := &Redacted{typeName: plan.name}

	var b strings.Builder
	b.WriteString(plan.name)
	b.WriteByte('{')
	for _, f := range plan.fields {
		fv, err := rv.FieldByIndexErr(f.index)
		if err != nil {
			emitLogFieldSkipped(context.Background(), plan.name, f.name, err)
			continue
		}

		rf := RedactedField{Name: f.name}
		switch {
		case f.desc != nil:
			rf.Sensitive = true
			rf.Value = maskLogValue(fv, *f.desc)
		case f.nested:
			rf.Value = r.redactValue(fv, depth+1)
		case fv.CanInterface():
			rf.Value = fv.Interface()
		default:
			rf.Value = fmt.Sprint(fv)
		}

		if len(red.fields) > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(f.name)
		b.WriteByte(':')
		fmt.Fprint(&b, rf.Value)
		red.fields = append(red.fields, rf)
	}
	b.WriteByte('}')
	red.text = b.String()
	return red
}

// redactValue renders v with every struct inside it redacted. Containers
// are rebuilt element by element; maps become map[string]any keyed by the
// formatted key.
func (r *LogRedactor) redactValue(v reflect.Value, depth int) any {
	if depth > maxLogDepth {
		return &Redacted{typeName: logTypeName(v.Type()), label: true}
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return r.redactValue(v.Elem(), depth)
	case reflect.Struct:
		if plan := r.planFor(v.Type()); plan.sensitive {
			return r.redactStruct(plan, v, depth)
		}
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			break
		}
		out := make([]any, v.Len())
		for i := range out {
			out[i] = r.redactValue(v.Index(i), depth+1)
		}
		return out
	case reflect.Map:
		if v.IsNil() {
			break
		}
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key())] = r.redactValue(iter.Value(), depth+1)
		}
		return out
	}

	if v.CanInterface() {
		return v.Interface()
	}
	return fmt.Sprint(v)
}

// maskLogValue masks a field value, reading unexported fields through reflect.
func maskLogValue(fv reflect.Value, d Descriptor) any {
	for fv.Kind() == reflect.Pointer || fv.Kind() == reflect.Interface {
		if fv.IsNil() {
			return nil
		}
		fv = fv.Elem()
	}

	var text string
	switch {
	case fv.CanInterface():
		text = textOf(fv.Interface())
	case fv.Kind() == reflect.String:
		text = fv.String()
	case fv.Kind() == reflect.Slice && fv.Type().Elem().Kind() == reflect.Uint8:
		text = string(fv.Bytes())
	default:
		text = fmt.Sprint(fv)
	}
	return d.Mask(text)
}

// stringCopy sets masked values on a shallow copy of rv and renders the
// copy with its own String method.
func (r *LogRedactor) stringCopy(plan *logPlan, rv reflect.Value, orig fmt.Stringer) string {
	cp := reflect.New(rv.Type())
	cp.Elem().Set(rv)

	for _, f := range plan.fields {
		if f.desc == nil {
			continue
		}
		dst := cp.Elem().FieldByIndex(f.index)
		if dst.Kind() == reflect.Pointer {
			if dst.IsNil() {
				continue
			}
			masked := f.desc.Mask(dst.Elem().String())
			ptr := reflect.New(dst.Type().Elem())
			ptr.Elem().SetString(masked)
			dst.Set(ptr)
			continue
		}
		dst.SetString(f.desc.Mask(dst.String()))
	}

	if reflect.TypeOf(orig).Kind() == reflect.Pointer {
		return cp.Interface().(fmt.Stringer).String()
	}
	return cp.Elem().Interface().(fmt.Stringer).String()
}

// RedactedField is one field of a redacted log value.
type RedactedField struct {
	Name      string
	Value     any // masked string for sensitive fields, *Redacted for nested ones
	Sensitive bool
}

// Redacted is the log-safe rendering of a value with sensitive fields.
type Redacted struct {
	typeName string
	label    bool
	text     string
	fields   []RedactedField
	value    any // redacted elements of a slice, array or map
}

// TypeName returns the name of the redacted value's type.
func (r *Redacted) TypeName() string {
	return r.typeName
}

// Fields returns the rendered fields; empty in label mode and for
// slices, arrays and maps.
func (r *Redacted) Fields() []RedactedField {
	return r.fields
}

// String renders the redacted value.
func (r *Redacted) String() string {
	if r.label {
		return "MaskedObject(" + r.typeName + ")"
	}
	return r.text
}

// Format renders the same text for every verb, quoting it for %q.
func (r *Redacted) Format(f fmt.State, verb rune) {
	if verb == 'q' {
		_, _ = f.Write([]byte(strconv.Quote(r.String())))
		return
	}
	_, _ = f.Write([]byte(r.String()))
}

// MarshalJSON encodes the fields as an object in declaration order,
// a redacted container as an array or object, or the label as a string
// in label mode.
func (r *Redacted) MarshalJSON() ([]byte, error) {
	if r.label {
		return json.Marshal(r.String())
	}
	if r.value != nil {
		return json.Marshal(r.value)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(f.Name)
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.Value)
		if err != nil {
			val, _ = json.Marshal(fmt.Sprint(f.Value))
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
