package server

import (
	"crypto/tls"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	actx "go.hackfix.me/hypersphere/app/context"
	"go.hackfix.me/hypersphere/catalog"
	"go.hackfix.me/hypersphere/web/server/middleware"
)

// Server is a wrapper around http.Server with some custom behavior.
type Server struct {
	*http.Server
	logger *slog.Logger
}

// New returns a new web Server instance that will listen on addr, and serve
// the resources of cat. If a TLS certificate and key are configured,
// ListenAndServe will start an HTTPS server.
func New(appCtx *actx.Context, addr string, cat *catalog.Catalog) (*Server, error) {
	logger := appCtx.Logger.With("component", "web-server")
	cfg := appCtx.Config.Server

	var (
		tlsCfg *tls.Config
		err    error
	)
	if cfg.TLSCertFile != "" || cfg.TLSKeyFile != "" {
		tlsCfg, err = loadTLSConfig(appCtx.FS, cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			return nil, err
		}
	}

	srv := &Server{
		Server: &http.Server{
			Handler:           SetupHandlers(cat, logger, appCtx.Config.Tracing.Enabled),
			Addr:              addr,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			TLSConfig:         tlsCfg,
		},
		logger: logger,
	}

	return srv, nil
}

// ListenAndServe starts either an HTTP or HTTPS server. It stores the actual
// listen address, which is convenient when the address is dynamically
// determined by the system (e.g. ':0').
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		//nolint:wrapcheck // This is fine.
		return err
	}

	s.Addr = ln.Addr().String()
	s.logger.Info("started listener", "address", s.Addr, "tls", s.TLSConfig != nil)

	if s.TLSConfig != nil {
		// The certificate is already in TLSConfig.
		//nolint:wrapcheck // This is fine.
		return s.ServeTLS(ln, "", "")
	}

	//nolint:wrapcheck // This is fine.
	return s.Serve(ln)
}

// SetupHandlers mounts every resource of cat at its path, for all methods.
func SetupHandlers(cat *catalog.Catalog, logger *slog.Logger, tracing bool) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)
	if tracing {
		r.Use(func(next http.Handler) http.Handler {
			return otelhttp.NewHandler(next, "hypersphere")
		})
	}

	// The router rejects methods it doesn't know before matching routes, so
	// configured extension methods must be registered.
	for _, res := range cat.Entries() {
		registerMethods(res.KnownMethods())
	}
	// Methods no resource knows are unimplemented.
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusNotImplemented, "")
	})

	for _, res := range cat.Entries() {
		r.Handle(res.Path(), resourceHandler(res, logger.With("resource", res.Name())))
	}

	return r
}

var (
	methodsMu  sync.Mutex
	registered = map[string]struct{}{}
)

// registerMethods adds methods to the router's method table. The table is
// process-global and registrations can't be undone, so this must happen
// before any router serves requests. Methods are only registered once.
func registerMethods(methods []string) {
	methodsMu.Lock()
	defer methodsMu.Unlock()

	for _, m := range methods {
		m = strings.ToUpper(m)
		if _, ok := registered[m]; ok || m == "" {
			continue
		}
		chi.RegisterMethod(m)
		registered[m] = struct{}{}
	}
}
