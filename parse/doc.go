// Package parse provides request body parsers and the registry that maps media
// types to them.
//
// A Registry is built once from a list of plugins, each of which may serve
// several media types with a single implementation. After construction it is
// read-only and safe for concurrent use. Plugins returns the built-in set:
// JSON and the RDF serializations supported by github.com/knakk/rdf.
package parse
