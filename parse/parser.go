package parse

import (
	"fmt"
)

// DefaultCharset is assumed when a request doesn't declare one.
const DefaultCharset = "utf-8"

// Parser turns raw request body bytes into a structured value.
type Parser interface {
	// Parse decodes data, encoded with charset, using the media type
	// parameters params. It returns the structured value or an *Error.
	Parse(data []byte, charset string, params map[string]string) (any, error)
}

// Factory returns a Parser for the given media type. A single factory may be
// registered under several media types.
type Factory func(mediaType string) Parser

// Plugin describes a body format implementation and the media types it
// handles.
type Plugin struct {
	Name       string
	MediaTypes []string
	New        Factory
}

// Error is returned when a body can't be parsed with the parser registered for
// its media type.
type Error struct {
	MediaType string
	Charset   string
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed parsing %s body (charset %s): %s", e.MediaType, e.Charset, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}
