package shroud

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrInvalidTag indicates a sensitive struct tag has an invalid format or value.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrInvalidKind indicates a mask kind outside the supported set.
	ErrInvalidKind = errors.New("invalid mask kind")

	// ErrInvalidDescriptor indicates a descriptor was built with invalid parameters.
	ErrInvalidDescriptor = errors.New("invalid descriptor")

	// ErrUnknownField indicates a policy names a field the type does not have.
	ErrUnknownField = errors.New("unknown field")

	// ErrUnsupportedType indicates a type whose sensitive fields cannot be projected.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrInvalidMode indicates an unknown log rendering mode.
	ErrInvalidMode = errors.New("invalid log mode")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")
)

// ConfigError represents a policy configuration error.
// It wraps a sentinel error with additional context about the type and field.
type ConfigError struct {
	Err   error  // Underlying sentinel error (ErrInvalidTag, etc.)
	Type  string // Type name that owns the field
	Field string // Field name that triggered the error
	Value string // Offending tag or policy value
}

func (e *ConfigError) Error() string {
	msg := e.Err.Error()
	if e.Value != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Value)
	}
	switch {
	case e.Type != "" && e.Field != "":
		return fmt.Sprintf("%s (field %s.%s)", msg, e.Type, e.Field)
	case e.Field != "":
		return fmt.Sprintf("%s (field %s)", msg, e.Field)
	case e.Type != "":
		return fmt.Sprintf("%s (type %s)", msg, e.Type)
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// CodecError represents a marshal error.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// newConfigError creates a ConfigError for a type/field pair.
func newConfigError(sentinel error, typeName, field, value string) error {
	return &ConfigError{
		Err:   sentinel,
		Type:  typeName,
		Field: field,
		Value: value,
	}
}

// newCodecError creates a CodecError for marshal failures.
func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}
