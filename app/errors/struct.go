package errors

import (
	"maps"
)

// StructuredError is an error annotated with key/value metadata and an
// optional cause, which Log renders as slog attributes.
type StructuredError struct {
	err      error
	metadata map[string]any
	cause    error
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	return e.err.Error()
}

// Unwrap allows errors.Is and errors.As to match both the error and its cause.
func (e *StructuredError) Unwrap() []error {
	var errs []error
	if e.err != nil {
		errs = append(errs, e.err)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// Cause returns the cause of this error, if any.
func (e *StructuredError) Cause() error {
	return e.cause
}

// Metadata returns a copy of the metadata map.
func (e *StructuredError) Metadata() map[string]any {
	if e.metadata == nil {
		return nil
	}
	return maps.Clone(e.metadata)
}

// With annotates err with key/value pairs. If err is already a
// StructuredError, the pairs are merged into its metadata, with new values
// replacing old ones. It panics if fields isn't a list of string keys and
// values.
func With(err error, fields ...any) *StructuredError {
	if se, ok := err.(*StructuredError); ok {
		return &StructuredError{
			err:      se.err,
			metadata: merge(se.metadata, fields),
			cause:    se.cause,
		}
	}

	return &StructuredError{err: err, metadata: merge(nil, fields)}
}

// WithCause is like With, but also sets the cause of the error.
func WithCause(err, cause error, fields ...any) *StructuredError {
	se := With(err, fields...)
	se.cause = cause
	return se
}

func merge(metadata map[string]any, fields []any) map[string]any {
	if len(fields)%2 != 0 {
		panic("an even number of fields is required")
	}

	combined := make(map[string]any, len(metadata)+len(fields)/2)
	maps.Copy(combined, metadata)
	for i := 0; i < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			panic("keys must be strings")
		}
		combined[key] = fields[i+1]
	}

	return combined
}
