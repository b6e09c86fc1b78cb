package resource

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// ErrAlreadySet is returned when writing a request slot that can only be
// written once.
var ErrAlreadySet = errors.New("value already set")

// Request is the request being evaluated. Method, Path, Header, Body and
// RemoteAddr are supplied by the caller. The entity and identity slots are
// written at most once per evaluation. Evaluate clears them before running
// any checks, so the same request may be evaluated again, e.g. after changing
// its headers.
type Request struct {
	Method     string
	Path       string
	Header     http.Header
	Body       []byte
	RemoteAddr string
	// Logger receives evaluation logs. If nil, the default logger is used.
	Logger *slog.Logger

	entity      any
	entitySet   bool
	identity    string
	identitySet bool
	negotiated  Negotiated
}

// Negotiated holds the best matches computed during content negotiation.
// Empty fields mean that no match was found.
type Negotiated struct {
	MediaType string
	Language  string
	Charset   string
	Encoding  string
}

// NewRequest returns a new request with an empty header. An empty method
// defaults to GET.
func NewRequest(method, path string) *Request {
	if method == "" {
		method = http.MethodGet
	}
	return &Request{
		Method: method,
		Path:   path,
		Header: http.Header{},
	}
}

// Entity returns the parsed request body, and whether it was set.
func (r *Request) Entity() (any, bool) {
	return r.entity, r.entitySet
}

// SetEntity attaches the parsed request body. It can only be called once per
// evaluation.
func (r *Request) SetEntity(v any) error {
	if r.entitySet {
		return fmt.Errorf("failed setting request entity: %w", ErrAlreadySet)
	}
	r.entity = v
	r.entitySet = true
	return nil
}

// Identity returns the name of the authenticated principal, and whether it was
// set.
func (r *Request) Identity() (string, bool) {
	return r.identity, r.identitySet
}

// SetIdentity records the authenticated principal. Authenticators call it
// before returning true, so that authorizers can read it. It can only be
// called once per evaluation.
func (r *Request) SetIdentity(id string) error {
	if r.identitySet {
		return fmt.Errorf("failed setting request identity: %w", ErrAlreadySet)
	}
	r.identity = id
	r.identitySet = true
	return nil
}

// reset clears the slots written during evaluation.
func (r *Request) reset() {
	r.entity, r.entitySet = nil, false
	r.identity, r.identitySet = "", false
	r.negotiated = Negotiated{}
}

func (r *Request) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// Negotiated returns the results of content negotiation.
func (r *Request) Negotiated() Negotiated {
	return r.negotiated
}

// headerValue returns all values of the named header joined with ", ", and
// whether the header is present at all.
func (r *Request) headerValue(name string) (string, bool) {
	if r.Header == nil {
		return "", false
	}
	vals := r.Header.Values(name)
	if len(vals) == 0 {
		return "", false
	}
	return strings.Join(vals, ", "), true
}
