package parse

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Lookup finds the parser for a media type.
type Lookup interface {
	Lookup(mediaType string) (Parser, bool)
}

// Registry maps media types to parser factories.
type Registry struct {
	factories map[string]Factory
	plugins   map[string]string
}

var _ Lookup = (*Registry)(nil)

// NewRegistry builds a registry from plugins. Media types are matched
// case-insensitively. It returns an error if a plugin has no factory, or if
// two plugins claim the same media type.
func NewRegistry(plugins ...Plugin) (*Registry, error) {
	reg := &Registry{
		factories: make(map[string]Factory),
		plugins:   make(map[string]string),
	}

	for _, p := range plugins {
		if p.New == nil {
			return nil, fmt.Errorf("plugin '%s' has no parser factory", p.Name)
		}
		for _, mt := range p.MediaTypes {
			key := strings.ToLower(strings.TrimSpace(mt))
			if key == "" {
				return nil, fmt.Errorf("plugin '%s' declares an empty media type", p.Name)
			}
			if other, ok := reg.plugins[key]; ok {
				return nil, fmt.Errorf(
					"media type '%s' is claimed by plugins '%s' and '%s'", key, other, p.Name)
			}
			reg.factories[key] = p.New
			reg.plugins[key] = p.Name
		}
	}

	return reg, nil
}

// Lookup returns a parser for mediaType, if one is registered.
func (r *Registry) Lookup(mediaType string) (Parser, bool) {
	key := strings.ToLower(mediaType)
	newFn, ok := r.factories[key]
	if !ok {
		return nil, false
	}

	return newFn(key), true
}

// MediaTypes returns the registered media types in sorted order.
func (r *Registry) MediaTypes() []string {
	types := make([]string, 0, len(r.factories))
	for mt := range r.factories {
		types = append(types, mt)
	}
	slices.Sort(types)

	return types
}

// Plugin returns the name of the plugin registered for mediaType.
func (r *Registry) Plugin(mediaType string) (string, bool) {
	name, ok := r.plugins[strings.ToLower(mediaType)]
	return name, ok
}

// Plugins enumerates the built-in body format plugins.
func Plugins() []Plugin {
	return []Plugin{JSONPlugin(), RDFPlugin()}
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	reg, err := NewRegistry(Plugins()...)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in parser plugins: %s", err))
	}
	return reg
})

// Default returns the process-wide registry of built-in plugins. It is built
// on first use.
func Default() *Registry {
	return defaultRegistry()
}
