package shroud

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// TagName is the struct tag that marks a field as sensitive.
//
//	type User struct {
//	    Password string `json:"password" sensitive:""`
//	    Email    string `json:"email" sensitive:"email"`
//	    Note     string `json:"note" sensitive:"generic,first=3,last=2,char=#,roles=ROLE_ADMIN|ROLE_SUPPORT"`
//	}
//
// Tag parts are separated by commas and trimmed of surrounding spaces, so
// char= cannot select a comma or a space. Use WithMaskChar in a
// SensitiveFields policy for those characters.
const TagName = "sensitive"

// Descriptor is the immutable masking policy attached to one field.
// The zero value is not valid; build one with NewDescriptor or ParseTag.
type Descriptor struct {
	kind      MaskKind
	showFirst int
	showLast  int
	maskChar  rune
	roles     RoleSet
}

// DescriptorOption configures a Descriptor under construction.
type DescriptorOption func(*Descriptor)

// ShowFirst sets the number of leading characters revealed by MaskGeneric.
func ShowFirst(n int) DescriptorOption {
	return func(d *Descriptor) { d.showFirst = n }
}

// ShowLast sets the number of trailing characters revealed by MaskGeneric.
func ShowLast(n int) DescriptorOption {
	return func(d *Descriptor) { d.showLast = n }
}

// WithMaskChar sets the fill character.
func WithMaskChar(r rune) DescriptorOption {
	return func(d *Descriptor) { d.maskChar = r }
}

// AllowRoles adds roles that may see the raw value.
func AllowRoles(roles ...string) DescriptorOption {
	return func(d *Descriptor) {
		for _, r := range roles {
			if r = strings.TrimSpace(r); r != "" {
				d.roles[r] = struct{}{}
			}
		}
	}
}

// NewDescriptor builds a descriptor for kind.
// Without options it reveals nothing, masks with DefaultMaskChar and allows no roles.
func NewDescriptor(kind MaskKind, opts ...DescriptorOption) (Descriptor, error) {
	d := Descriptor{
		kind:     kind,
		maskChar: DefaultMaskChar,
		roles:    RoleSet{},
	}
	for _, opt := range opts {
		opt(&d)
	}
	if err := d.validate(); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

// MustDescriptor is like NewDescriptor but panics on error.
// Intended for package-level policy declarations.
func MustDescriptor(kind MaskKind, opts ...DescriptorOption) Descriptor {
	d, err := NewDescriptor(kind, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Descriptor) validate() error {
	switch {
	case !IsValidMaskKind(d.kind):
		return fmt.Errorf("%w: %w %q", ErrInvalidDescriptor, ErrInvalidKind, d.kind)
	case d.showFirst < 0:
		return fmt.Errorf("%w: showFirst must be >= 0, got %d", ErrInvalidDescriptor, d.showFirst)
	case d.showLast < 0:
		return fmt.Errorf("%w: showLast must be >= 0, got %d", ErrInvalidDescriptor, d.showLast)
	case d.maskChar == 0 || d.maskChar == utf8.RuneError || !utf8.ValidRune(d.maskChar):
		return fmt.Errorf("%w: invalid mask character %q", ErrInvalidDescriptor, d.maskChar)
	}
	return nil
}

// Kind returns the masking algorithm.
func (d Descriptor) Kind() MaskKind { return d.kind }

// ShowFirst returns the leading characters revealed by MaskGeneric.
func (d Descriptor) ShowFirst() int { return d.showFirst }

// ShowLast returns the trailing characters revealed by MaskGeneric.
func (d Descriptor) ShowLast() int { return d.showLast }

// MaskChar returns the fill character.
func (d Descriptor) MaskChar() rune { return d.maskChar }

// AllowedRoles returns the allow-list sorted.
func (d Descriptor) AllowedRoles() []string { return d.roles.Slice() }

// Roles returns a copy of the allow-list.
func (d Descriptor) Roles() RoleSet { return d.roles.Clone() }

// Mask masks value according to the descriptor.
// Empty values are returned unchanged.
func (d Descriptor) Mask(value string) string {
	if value == "" {
		return value
	}
	return Mask(d.kind, value, d.showFirst, d.showLast, d.maskChar)
}

// String renders the descriptor in tag syntax.
func (d Descriptor) String() string {
	var b strings.Builder
	b.WriteString(string(d.kind))
	if d.showFirst != 0 {
		b.WriteString(",first=" + strconv.Itoa(d.showFirst))
	}
	if d.showLast != 0 {
		b.WriteString(",last=" + strconv.Itoa(d.showLast))
	}
	if d.maskChar != DefaultMaskChar {
		b.WriteString(",char=" + string(d.maskChar))
	}
	if len(d.roles) > 0 {
		b.WriteString(",roles=" + strings.Join(d.roles.Slice(), "|"))
	}
	return b.String()
}

// ParseTag parses a sensitive tag value using DefaultMaskChar.
// String output parses back to an equal descriptor unless the mask
// character is a comma or a space.
func ParseTag(tag string) (Descriptor, error) {
	return parseTag(tag, DefaultMaskChar)
}

// parseTag parses `kind,first=N,last=N,char=C,roles=A|B`.
// The kind token is optional and must come first.
func parseTag(tag string, defaultChar rune) (Descriptor, error) {
	opts := []DescriptorOption{WithMaskChar(defaultChar)}
	kind := MaskGeneric

	tag = strings.TrimSpace(tag)
	if tag == "" {
		return NewDescriptor(kind, opts...)
	}

	for i, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		key, val, hasVal := strings.Cut(part, "=")
		if !hasVal {
			if i != 0 {
				return Descriptor{}, fmt.Errorf("%w: unexpected token %q", ErrInvalidTag, part)
			}
			k, err := ParseMaskKind(part)
			if err != nil {
				return Descriptor{}, fmt.Errorf("%w: %w", ErrInvalidTag, err)
			}
			kind = k
			continue
		}

		val = strings.TrimSpace(val)
		switch strings.TrimSpace(key) {
		case "kind":
			k, err := ParseMaskKind(val)
			if err != nil {
				return Descriptor{}, fmt.Errorf("%w: %w", ErrInvalidTag, err)
			}
			kind = k
		case "first":
			n, err := strconv.Atoi(val)
			if err != nil {
				return Descriptor{}, fmt.Errorf("%w: first=%q", ErrInvalidTag, val)
			}
			opts = append(opts, ShowFirst(n))
		case "last":
			n, err := strconv.Atoi(val)
			if err != nil {
				return Descriptor{}, fmt.Errorf("%w: last=%q", ErrInvalidTag, val)
			}
			opts = append(opts, ShowLast(n))
		case "char":
			if utf8.RuneCountInString(val) != 1 {
				return Descriptor{}, fmt.Errorf("%w: char must be a single character, got %q", ErrInvalidTag, val)
			}
			r, _ := utf8.DecodeRuneInString(val)
			opts = append(opts, WithMaskChar(r))
		case "roles":
			opts = append(opts, AllowRoles(strings.Split(val, "|")...))
		default:
			return Descriptor{}, fmt.Errorf("%w: unknown option %q", ErrInvalidTag, key)
		}
	}

	d, err := NewDescriptor(kind, opts...)
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: %w", ErrInvalidTag, err)
	}
	return d, nil
}
