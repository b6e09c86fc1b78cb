// Package auth contains reusable implementations of the resource hooks for
// request validation, authentication and authorization.
//
// Authenticators record the authenticated principal on the request with
// resource.Request.SetIdentity, which authorizers then read. All types are
// immutable after construction and safe for concurrent use.
package auth
