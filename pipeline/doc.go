// Package pipeline implements a short-circuiting evaluation of an ordered
// sequence of checks.
//
// A pipeline starts unresolved, holding a subject and an input. Each check is
// called with the pair and either returns a result, which resolves the
// pipeline, or returns nil, which leaves it unresolved so the next check runs.
// Once resolved, the result never changes and remaining checks are not called.
//
// Nothing here is specific to HTTP: any ordered list of fallible checks that
// should stop at the first match can be expressed with it.
package pipeline
