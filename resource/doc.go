// Package resource evaluates HTTP-like requests against the capabilities a
// resource declares, producing exactly one response.
//
// Evaluation runs an ordered list of checks through a short-circuiting
// pipeline: the first check that returns a response wins and the remaining
// checks are skipped. The default order is:
//
//  1. available (503)
//  2. method known (501)
//  3. URI length (414)
//  4. method allowed (405)
//  5. request valid (400)
//  6. authenticate (401)
//  7. authorize (403)
//  8. entity processing (413, 415), which attaches the parsed body to the
//     request
//  9. content negotiation for media type, language, charset and encoding (406)
//  10. default success (200)
//
// Resources are described by the Resource interface. Base implements it with
// sensible defaults, and is meant to be embedded in concrete resource types
// which override only the methods they need.
//
// A body that can't be parsed with the parser registered for its media type is
// not turned into a response. The parser error is returned to the caller of
// Respond or Evaluate, which decides how to report it.
package resource
