// Package middleware contains HTTP middleware used by the web server.
package middleware

import (
	"net/http"
)

// Middleware is a function that wraps an http.Handler to provide additional
// functionality such as logging or tracing. It's compatible with chi.Router.Use.
type Middleware func(http.Handler) http.Handler
