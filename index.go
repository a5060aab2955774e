package shroud

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"sync"
)

// Field is one sensitive field discovered on a struct type.
type Field struct {
	Name       string       // Go field name
	Index      []int        // reflect.Value.FieldByIndex access path
	Type       reflect.Type // declared field type
	Exported   bool         // false for unexported fields, which only log redaction reads
	Embedded   bool         // an embedded struct masked as a whole; its promoted fields are not reported
	Descriptor Descriptor
}

// covers reports whether index lies inside the embedded struct at f.
func (f Field) covers(index []int) bool {
	return f.Embedded && len(index) > len(f.Index) && slices.Equal(index[:len(f.Index)], f.Index)
}

// coveredBy reports whether index lies inside any embedded sensitive field.
func coveredBy(fields []Field, index []int) bool {
	for _, f := range fields {
		if f.covers(index) {
			return true
		}
	}
	return false
}

// IndexOption configures an Index.
type IndexOption func(*Index)

// WithDefaultMaskChar sets the mask character used by tags that do not name one.
func WithDefaultMaskChar(r rune) IndexOption {
	return func(i *Index) { i.defaultChar = r }
}

// Index discovers and caches the sensitive fields of struct types.
// Entries are computed on first use and never invalidated.
// An Index is safe for concurrent use.
type Index struct {
	defaultChar rune

	mu      sync.RWMutex
	entries map[reflect.Type]*indexEntry
}

type indexEntry struct {
	fields []Field
	err    error
}

// NewIndex creates an empty index.
func NewIndex(opts ...IndexOption) *Index {
	idx := &Index{
		defaultChar: DefaultMaskChar,
		entries:     make(map[reflect.Type]*indexEntry),
	}
	for _, opt := range opts {
		opt(idx)
	}
	if _, err := NewDescriptor(MaskGeneric, WithMaskChar(idx.defaultChar)); err != nil {
		idx.defaultChar = DefaultMaskChar
	}
	return idx
}

var defaultIndex = NewIndex()

// DefaultIndex returns the process-wide index.
func DefaultIndex() *Index {
	return defaultIndex
}

// FieldsOf returns a copy of the sensitive fields of T from the default index.
func FieldsOf[T any]() []Field {
	return defaultIndex.Fields(reflect.TypeFor[T]())
}

// Fields returns a copy of the sensitive fields of t in declaration order.
// Pointer types are dereferenced; non-struct types have no fields.
//
// A field whose policy is invalid is still reported, with a descriptor
// that masks the whole value. Use Lookup to see the error.
func (i *Index) Fields(t reflect.Type) []Field {
	fields, _ := i.Lookup(t)
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for n, f := range fields {
		f.Index = slices.Clone(f.Index)
		out[n] = f
	}
	return out
}

// Lookup is like Fields but also returns the policy error, if any.
// The returned slice is shared and must not be modified.
func (i *Index) Lookup(t reflect.Type) ([]Field, error) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, nil
	}

	// Fast path: read-lock cache check
	i.mu.RLock()
	if e, ok := i.entries[t]; ok {
		i.mu.RUnlock()
		return e.fields, e.err
	}
	i.mu.RUnlock()

	// Discovery runs outside the lock; a racing caller may compute the same
	// entry, and the first one stored wins.
	entry := i.discover(t)

	i.mu.Lock()
	if e, ok := i.entries[t]; ok {
		i.mu.Unlock()
		return e.fields, e.err
	}
	i.entries[t] = entry
	i.mu.Unlock()

	emitFieldsDiscovered(context.Background(), t.String(), len(entry.fields), entry.err)
	return entry.fields, entry.err
}

// HasSensitive reports whether t has any sensitive field.
func (i *Index) HasSensitive(t reflect.Type) bool {
	fields, _ := i.Lookup(t)
	return len(fields) > 0
}

// discover walks every visible field of t, including fields promoted from
// embedded structs. Shadowed fields are excluded by reflect.VisibleFields.
// A sensitive embedded struct is reported as one field and not descended into.
func (i *Index) discover(t reflect.Type) *indexEntry {
	var errs []error
	failClosed := MustDescriptor(MaskGeneric, WithMaskChar(i.defaultChar))

	overrides := policyFor(t)

	var fields []Field
	seen := make(map[string]bool)
	for _, sf := range reflect.VisibleFields(t) {
		if coveredBy(fields, sf.Index) {
			if _, ok := overrides[sf.Name]; ok {
				seen[sf.Name] = true
			}
			continue
		}
		_, overridden := overrides[sf.Name]
		tagged := hasTag(sf)
		embedded := sf.Anonymous && isStructLike(sf.Type)
		if embedded && !overridden && !tagged {
			continue
		}

		desc, ok := overrides[sf.Name]
		if ok {
			seen[sf.Name] = true
			if !IsValidMaskKind(desc.kind) {
				errs = append(errs, newConfigError(ErrInvalidDescriptor, t.Name(), sf.Name, string(desc.kind)))
				desc = failClosed
			}
		} else {
			if !tagged {
				continue
			}
			d, err := parseTag(sf.Tag.Get(TagName), i.defaultChar)
			if err != nil {
				errs = append(errs, &ConfigError{Err: err, Type: t.Name(), Field: sf.Name})
				d = failClosed
			}
			desc = d
		}

		fields = append(fields, Field{
			Name:       sf.Name,
			Index:      sf.Index,
			Type:       sf.Type,
			Exported:   sf.IsExported(),
			Embedded:   embedded,
			Descriptor: desc,
		})
	}

	for name := range overrides {
		if !seen[name] {
			errs = append(errs, newConfigError(ErrUnknownField, t.Name(), name, ""))
		}
	}

	return &indexEntry{fields: fields, err: errors.Join(errs...)}
}

func hasTag(sf reflect.StructField) bool {
	_, ok := sf.Tag.Lookup(TagName)
	return ok
}

func isStructLike(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}
