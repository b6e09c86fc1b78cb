package server

import (
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go.hackfix.me/hypersphere/app/config"
	"go.hackfix.me/hypersphere/catalog"
	"go.hackfix.me/hypersphere/web/server/middleware"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	off := false
	cat, err := catalog.New([]config.Resource{
		{
			Name:           "people",
			Path:           "/people/{id}",
			AllowedMethods: []string{"GET", "HEAD", "POST", "PATCH"},
			KnownMethods:   []string{"PATCH"},
			MaxBodyLength:  32,
			MediaTypes:     []string{"application/json"},
			Auth:           config.Auth{Basic: map[string]string{"alice": string(hash)}},
		},
		{Name: "maintenance", Path: "/maintenance", Available: &off},
		{Name: "open", Path: "/open"},
	}, nil)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return SetupHandlers(cat, logger, false)
}

func TestServer(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	basic := "Basic " + base64.StdEncoding.EncodeToString([]byte("alice:hunter2"))

	tests := []struct {
		name      string
		method    string
		path      string
		header    map[string]string
		body      string
		expStatus int
		expBody   string
		expHeader map[string][]string
	}{
		{
			name: "ok/get", method: "GET", path: "/people/1",
			header:    map[string]string{"Authorization": basic},
			expStatus: http.StatusOK,
		},
		{
			name: "ok/post_json", method: "POST", path: "/people/1",
			header:    map[string]string{"Authorization": basic, "Content-Type": "application/json"},
			body:      `{"name":"Alice"}`,
			expStatus: http.StatusOK,
		},
		{
			name: "ok/extension_method", method: "PATCH", path: "/people/1",
			header:    map[string]string{"Authorization": basic},
			expStatus: http.StatusOK,
		},
		{
			name: "ok/anonymous", method: "GET", path: "/open",
			expStatus: http.StatusOK,
		},
		{
			name: "err/unauthenticated", method: "GET", path: "/people/1",
			expStatus: http.StatusUnauthorized, expBody: "Unauthorized\n",
		},
		{
			name: "err/not_allowed", method: "DELETE", path: "/people/1",
			expStatus: http.StatusMethodNotAllowed,
			expHeader: map[string][]string{"Allow": {"GET", "HEAD", "POST", "PATCH"}},
		},
		{
			name: "err/not_implemented", method: "BREW", path: "/open",
			expStatus: http.StatusNotImplemented,
		},
		{
			name: "err/unavailable", method: "GET", path: "/maintenance",
			expStatus: http.StatusServiceUnavailable,
		},
		{
			name: "err/body_too_large", method: "POST", path: "/people/1",
			header:    map[string]string{"Authorization": basic, "Content-Type": "application/json"},
			body:      `{"name":"` + strings.Repeat("a", 64) + `"}`,
			expStatus: http.StatusRequestEntityTooLarge,
		},
		{
			name: "err/unsupported_media_type", method: "POST", path: "/people/1",
			header:    map[string]string{"Authorization": basic, "Content-Type": "image/png"},
			body:      "x",
			expStatus: http.StatusUnsupportedMediaType,
		},
		{
			name: "err/malformed_body", method: "POST", path: "/people/1",
			header:    map[string]string{"Authorization": basic, "Content-Type": "application/json"},
			body:      `{"name":`,
			expStatus: http.StatusBadRequest,
			expBody:   "Bad Request: failed parsing application/json body",
		},
		{
			name: "err/not_acceptable", method: "GET", path: "/people/1",
			header:    map[string]string{"Authorization": basic, "Accept": "text/turtle"},
			expStatus: http.StatusNotAcceptable,
		},
		{
			name: "err/unmounted_subpath", method: "GET", path: "/open/" + strings.Repeat("x", 8),
			expStatus: http.StatusNotFound,
		},
		{
			name: "err/unknown_path", method: "GET", path: "/nope",
			expStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.expStatus, rec.Code)
			assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
			if tt.expBody != "" {
				assert.Contains(t, rec.Body.String(), tt.expBody)
			}
			for k, v := range tt.expHeader {
				assert.Equal(t, v, rec.Header().Values(k))
			}
		})
	}
}

func TestServerURITooLong(t *testing.T) {
	t.Parallel()

	cat, err := catalog.New([]config.Resource{
		{Name: "short", Path: "/short/*", MaxURILength: 16},
	}, nil)
	require.NoError(t, err)
	h := SetupHandlers(cat, slog.New(slog.NewTextHandler(io.Discard, nil)), false)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/short/"+strings.Repeat("x", 16), nil))
	assert.Equal(t, http.StatusRequestURITooLong, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/short/x", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

//nolint:paralleltest // Writes the router's global method table.
func TestServerExtensionMethod(t *testing.T) {
	cfg := []config.Resource{{
		Name:           "munge",
		Path:           "/munge",
		KnownMethods:   []string{"munge"},
		AllowedMethods: []string{"GET"},
	}}
	cat, err := catalog.New(cfg, nil)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := SetupHandlers(cat, logger, false)
	// Building a second router must not register the method again.
	_ = SetupHandlers(cat, logger, false)

	tests := []struct {
		method    string
		path      string
		expStatus int
	}{
		{"MUNGE", "/munge", http.StatusMethodNotAllowed},
		{"GET", "/munge", http.StatusOK},
		{"FROBNICATE", "/munge", http.StatusNotImplemented},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.expStatus, rec.Code, tt.method)
	}
}
