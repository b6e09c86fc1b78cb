package resource

import (
	"net/http"

	"go.hackfix.me/hypersphere/parse"
)

const (
	// DefaultMaxURILength is the default limit of the request path length, in
	// bytes.
	DefaultMaxURILength = 4096
	// DefaultMaxBodyLength is the default limit of the request body length, in
	// bytes.
	DefaultMaxBodyLength int64 = 10 * 1024 * 1024
)

// Resource declares the capabilities a request is evaluated against.
//
// Methods are called on every evaluation and may compute their result
// dynamically, e.g. Available can report a maintenance switch. A Resource is
// shared by concurrent evaluations, so implementations must be safe for
// concurrent use.
type Resource interface {
	// Available reports whether the resource accepts any requests at all.
	Available() bool
	// KnownMethods are the methods recognized by the resource. This is a
	// superset of AllowedMethods.
	KnownMethods() []string
	// AllowedMethods are the methods permitted on the resource.
	AllowedMethods() []string
	MaxURILength() int
	MaxBodyLength() int64

	AcceptableMediaTypes() []string
	AcceptableLanguages() []string
	AcceptableCharsets() []string
	AcceptableEncodings() []string

	// ValidateRequest reports whether the request is well-formed for this
	// resource.
	ValidateRequest(*Request) bool
	// Authenticate reports whether the request carries valid credentials. It
	// may record the authenticated principal with Request.SetIdentity.
	Authenticate(*Request) bool
	// Authorize reports whether the request may access the resource.
	Authorize(*Request) bool
	// Parsers returns the registry used to parse request bodies.
	Parsers() parse.Lookup
}

// Base implements Resource with default capabilities. It is meant to be
// embedded; the embedding type overrides the methods it wants to change. The
// zero value is ready to use.
type Base struct{}

var _ Resource = Base{}

// Available implements the Resource interface.
func (Base) Available() bool {
	return true
}

// KnownMethods implements the Resource interface. It returns the standard
// HTTP methods, except PATCH.
func (Base) KnownMethods() []string {
	return []string{
		http.MethodGet,
		http.MethodHead,
		http.MethodPost,
		http.MethodPut,
		http.MethodDelete,
		http.MethodTrace,
		http.MethodConnect,
		http.MethodOptions,
	}
}

// AllowedMethods implements the Resource interface.
func (Base) AllowedMethods() []string {
	return []string{http.MethodGet, http.MethodHead, http.MethodOptions}
}

// MaxURILength implements the Resource interface.
func (Base) MaxURILength() int {
	return DefaultMaxURILength
}

// MaxBodyLength implements the Resource interface.
func (Base) MaxBodyLength() int64 {
	return DefaultMaxBodyLength
}

// AcceptableMediaTypes implements the Resource interface.
func (Base) AcceptableMediaTypes() []string {
	return []string{"text/turtle"}
}

// AcceptableLanguages implements the Resource interface.
func (Base) AcceptableLanguages() []string {
	return []string{"en"}
}

// AcceptableCharsets implements the Resource interface.
func (Base) AcceptableCharsets() []string {
	return []string{"utf-8"}
}

// AcceptableEncodings implements the Resource interface.
func (Base) AcceptableEncodings() []string {
	return []string{"identity"}
}

// ValidateRequest implements the Resource interface. It accepts every request.
func (Base) ValidateRequest(*Request) bool {
	return true
}

// Authenticate implements the Resource interface. It accepts every request.
func (Base) Authenticate(*Request) bool {
	return true
}

// Authorize implements the Resource interface. It accepts every request.
func (Base) Authorize(*Request) bool {
	return true
}

// Parsers implements the Resource interface. It returns the registry of
// built-in parsers.
func (Base) Parsers() parse.Lookup {
	return parse.Default()
}
