package catalog

import (
	"errors"
	"fmt"

	"go.hackfix.me/hypersphere/app/config"
	aerrors "go.hackfix.me/hypersphere/app/errors"
	"go.hackfix.me/hypersphere/parse"
)

// Catalog is an ordered set of resources with unique names and paths.
type Catalog struct {
	entries []*Resource
	byName  map[string]*Resource
}

// New builds a Catalog from resource configurations, in order. Bodies of
// every resource are parsed with parsers, or the built-in registry if it's
// nil. Errors are annotated with the offending resource name and index.
func New(cfgs []config.Resource, parsers parse.Lookup) (*Catalog, error) {
	if parsers == nil {
		parsers = parse.Default()
	}

	c := &Catalog{byName: make(map[string]*Resource, len(cfgs))}
	paths := make(map[string]string, len(cfgs))

	for i, rcfg := range cfgs {
		if rcfg.Name == "" {
			return nil, aerrors.With(errors.New("resource name is empty"), "index", i)
		}
		if _, ok := c.byName[rcfg.Name]; ok {
			return nil, aerrors.With(
				fmt.Errorf("duplicate resource name '%s'", rcfg.Name), "index", i)
		}
		if other, ok := paths[rcfg.Path]; ok {
			return nil, aerrors.With(
				fmt.Errorf("path '%s' is already used by resource '%s'", rcfg.Path, other),
				"resource", rcfg.Name, "index", i)
		}

		res, err := newResource(rcfg, parsers)
		if err != nil {
			return nil, aerrors.WithCause(
				errors.New("invalid resource configuration"), err,
				"resource", rcfg.Name, "index", i)
		}

		c.entries = append(c.entries, res)
		c.byName[res.name] = res
		paths[res.path] = res.name
	}

	return c, nil
}

// Entries returns the resources in configuration order.
func (c *Catalog) Entries() []*Resource {
	return append([]*Resource(nil), c.entries...)
}

// Get returns the resource with the given name.
func (c *Catalog) Get(name string) (*Resource, bool) {
	res, ok := c.byName[name]
	return res, ok
}

// Len returns the number of resources.
func (c *Catalog) Len() int {
	return len(c.entries)
}
