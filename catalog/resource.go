package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.hackfix.me/hypersphere/app/config"
	"go.hackfix.me/hypersphere/auth"
	"go.hackfix.me/hypersphere/parse"
	"go.hackfix.me/hypersphere/resource"
)

// Resource is a resource built from configuration. It is immutable after
// construction.
type Resource struct {
	resource.Base

	name      string
	path      string
	available bool

	knownMethods   []string
	allowedMethods []string
	maxURILength   int
	maxBodyLength  int64

	mediaTypes []string
	languages  []string
	charsets   []string
	encodings  []string

	pattern *auth.PathPattern
	authn   auth.Chain
	clients *auth.ClientIPs
	roles   *auth.Roles
	parsers parse.Lookup
}

var _ resource.Resource = (*Resource)(nil)

func newResource(cfg config.Resource, parsers parse.Lookup) (*Resource, error) {
	var base resource.Base

	if cfg.Path == "" || !strings.HasPrefix(cfg.Path, "/") {
		return nil, fmt.Errorf("path '%s' must start with '/'", cfg.Path)
	}

	r := &Resource{
		name:           cfg.Name,
		path:           cfg.Path,
		available:      cfg.Available == nil || *cfg.Available,
		knownMethods:   base.KnownMethods(),
		allowedMethods: base.AllowedMethods(),
		maxURILength:   base.MaxURILength(),
		maxBodyLength:  base.MaxBodyLength(),
		mediaTypes:     orDefault(cfg.MediaTypes, base.AcceptableMediaTypes()),
		languages:      orDefault(cfg.Languages, base.AcceptableLanguages()),
		charsets:       orDefault(cfg.Charsets, base.AcceptableCharsets()),
		encodings:      orDefault(cfg.Encodings, base.AcceptableEncodings()),
		parsers:        parsers,
	}

	for _, m := range cfg.KnownMethods {
		m = strings.ToUpper(m)
		if !slices.Contains(r.knownMethods, m) {
			r.knownMethods = append(r.knownMethods, m)
		}
	}
	if len(cfg.AllowedMethods) > 0 {
		r.allowedMethods = make([]string, 0, len(cfg.AllowedMethods))
		for _, m := range cfg.AllowedMethods {
			m = strings.ToUpper(m)
			if !slices.Contains(r.knownMethods, m) {
				return nil, fmt.Errorf("allowed method '%s' is not a known method", m)
			}
			r.allowedMethods = append(r.allowedMethods, m)
		}
	}

	if cfg.MaxURILength < 0 || cfg.MaxBodyLength < 0 {
		return nil, errors.New("length limits must not be negative")
	}
	if cfg.MaxURILength > 0 {
		r.maxURILength = cfg.MaxURILength
	}
	if cfg.MaxBodyLength > 0 {
		r.maxBodyLength = cfg.MaxBodyLength
	}

	if err := r.setupHooks(cfg); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Resource) setupHooks(cfg config.Resource) (err error) {
	if cfg.PathPattern != "" {
		if r.pattern, err = auth.NewPathPattern(cfg.PathPattern); err != nil {
			return err
		}
	}

	if len(cfg.Auth.Basic) > 0 {
		basic, err := auth.NewBasic(cfg.Auth.Basic)
		if err != nil {
			return err
		}
		r.authn = append(r.authn, basic)
	}
	if len(cfg.Auth.Tokens) > 0 {
		tokens, err := auth.NewTokens(cfg.Auth.Tokens)
		if err != nil {
			return err
		}
		r.authn = append(r.authn, tokens)
	}

	if len(cfg.AllowClients) > 0 {
		if r.clients, err = auth.NewClientIPs(cfg.AllowClients...); err != nil {
			return err
		}
	}

	if len(cfg.Roles) > 0 || len(cfg.Users) > 0 {
		if r.authn == nil {
			return errors.New("roles require credentials in 'auth'")
		}
		if r.roles, err = auth.NewRoles(cfg.Roles, cfg.Users); err != nil {
			return err
		}
	}

	return nil
}

// Name returns the unique name of the resource.
func (r *Resource) Name() string {
	return r.name
}

// Path returns the route pattern the resource is mounted at.
func (r *Resource) Path() string {
	return r.path
}

// AuthSchemes returns the names of the accepted authentication schemes, or
// nil if the resource accepts anonymous requests.
func (r *Resource) AuthSchemes() []string {
	var schemes []string
	for _, a := range r.authn {
		switch a.(type) {
		case *auth.Basic:
			schemes = append(schemes, "basic")
		case *auth.Tokens:
			schemes = append(schemes, "bearer")
		}
	}
	return schemes
}

// Available implements the resource.Resource interface.
func (r *Resource) Available() bool {
	return r.available
}

// KnownMethods implements the resource.Resource interface.
func (r *Resource) KnownMethods() []string {
	return slices.Clone(r.knownMethods)
}

// AllowedMethods implements the resource.Resource interface.
func (r *Resource) AllowedMethods() []string {
	return slices.Clone(r.allowedMethods)
}

// MaxURILength implements the resource.Resource interface.
func (r *Resource) MaxURILength() int {
	return r.maxURILength
}

// MaxBodyLength implements the resource.Resource interface.
func (r *Resource) MaxBodyLength() int64 {
	return r.maxBodyLength
}

// AcceptableMediaTypes implements the resource.Resource interface.
func (r *Resource) AcceptableMediaTypes() []string {
	return slices.Clone(r.mediaTypes)
}

// AcceptableLanguages implements the resource.Resource interface.
func (r *Resource) AcceptableLanguages() []string {
	return slices.Clone(r.languages)
}

// AcceptableCharsets implements the resource.Resource interface.
func (r *Resource) AcceptableCharsets() []string {
	return slices.Clone(r.charsets)
}

// AcceptableEncodings implements the resource.Resource interface.
func (r *Resource) AcceptableEncodings() []string {
	return slices.Clone(r.encodings)
}

// ValidateRequest implements the resource.Resource interface.
func (r *Resource) ValidateRequest(req *resource.Request) bool {
	if r.pattern == nil {
		return true
	}
	return r.pattern.Validate(req)
}

// Authenticate implements the resource.Resource interface. Resources without
// configured credentials accept anonymous requests.
func (r *Resource) Authenticate(req *resource.Request) bool {
	if len(r.authn) == 0 {
		return true
	}
	return r.authn.Authenticate(req)
}

// Authorize implements the resource.Resource interface. The client address
// allow list is checked before roles.
func (r *Resource) Authorize(req *resource.Request) bool {
	if r.clients != nil && !r.clients.Allowed(req) {
		return false
	}
	if r.roles != nil && !r.roles.Authorize(req) {
		return false
	}
	return true
}

// Parsers implements the resource.Resource interface.
func (r *Resource) Parsers() parse.Lookup {
	return r.parsers
}

func orDefault(values, def []string) []string {
	if len(values) == 0 {
		return def
	}
	return slices.Clone(values)
}
