package shroud

import (
	"fmt"
	"reflect"
)

// RedactField decides what to emit for one sensitive field value.
//
// A nil value (including typed nil pointers, maps, slices and interfaces)
// is returned as nil without an authorization check. When p is authorized
// by d the raw value is returned with its original type. Otherwise the
// value's text is masked and returned as a string.
func RedactField(p Principal, value any, d Descriptor) any {
	out, _ := redactField(p, value, d)
	return out
}

// redactField is RedactField that also reports whether masking was applied.
func redactField(p Principal, value any, d Descriptor) (any, bool) {
	if isNil(value) {
		return nil, false
	}
	if d.Allows(p) {
		return value, false
	}
	text := textOf(value)
	if text == "" {
		return text, false
	}
	return d.Mask(text), true
}

// isNil reports whether v is nil or a typed nil reference.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// textOf renders a value the way it would appear in text output.
// Pointers are followed so a *string masks its target, not its address.
func textOf(v any) string {
	for {
		switch t := v.(type) {
		case string:
			return t
		case []byte:
			return string(t)
		case fmt.Stringer:
			return t.String()
		case error:
			return t.Error()
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer {
			return fmt.Sprint(v)
		}
		if rv.IsNil() {
			return ""
		}
		v = rv.Elem().Interface()
	}
}
