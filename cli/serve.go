package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	actx "go.hackfix.me/hypersphere/app/context"
	"go.hackfix.me/hypersphere/telemetry"
	"go.hackfix.me/hypersphere/web/server"
)

// Serve starts the web server.
type Serve struct {
	Address string `arg:"" optional:"" help:"[host]:port to listen on. Defaults to server.address from the configuration."`
}

// Run the serve command.
func (c *Serve) Run(appCtx *actx.Context) error {
	cat, err := loadCatalog(appCtx)
	if err != nil {
		return err
	}
	if cat.Len() == 0 {
		appCtx.Logger.Warn("no resources configured", "config_file", appCtx.Config.Path())
	}

	if tcfg := appCtx.Config.Tracing; tcfg.Enabled {
		shutdown, terr := telemetry.InitTracer(
			tcfg.ServiceName, appCtx.Version.Semantic, appCtx.Stderr, appCtx.Logger)
		if terr != nil {
			return terr
		}
		defer func() {
			if serr := shutdown(context.WithoutCancel(appCtx.Ctx)); serr != nil {
				appCtx.Logger.Warn("failed flushing traces", "error", serr)
			}
		}()
	}

	srv, err := server.New(appCtx, c.Address, cat)
	if err != nil {
		return err
	}

	// Gracefully shutdown the server if a process signal is received, or the
	// main context is done.
	srvDone := make(chan error)
	go func() {
		srvErr := srv.ListenAndServe()
		slog.Debug("web server shutdown")
		srvDone <- srvErr
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case s := <-sigCh:
		slog.Debug("process received signal", "signal", s)
	case <-appCtx.Ctx.Done():
		slog.Debug("app context is done")
	case srvErr := <-srvDone:
		if srvErr != nil && !errors.Is(srvErr, http.ErrServerClosed) {
			return fmt.Errorf("web server error: %w", srvErr)
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(
		context.WithoutCancel(appCtx.Ctx), appCtx.Config.Server.ShutdownTimeout)
	defer cancel()
	if err = srv.Shutdown(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("failed shutting down web server: %w", err)
	}

	return nil
}
