package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	aerrors "go.hackfix.me/hypersphere/app/errors"
	"go.hackfix.me/hypersphere/catalog"
	"go.hackfix.me/hypersphere/parse"
	"go.hackfix.me/hypersphere/resource"
	"go.hackfix.me/hypersphere/web/server/middleware"
)

const tracerName = "go.hackfix.me/hypersphere/web/server"

// resourceHandler evaluates every request against res, and writes the
// resulting response.
func resourceHandler(res *catalog.Resource, logger *slog.Logger) http.HandlerFunc {
	tracer := otel.Tracer(tracerName)

	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "resource.evaluate",
			trace.WithAttributes(
				attribute.String("resource.name", res.Name()),
				attribute.String("http.request.method", r.Method),
			))
		defer span.End()

		logger := logger.With("request_id", middleware.GetRequestID(r.Context()))

		req, err := newRequest(r, res.MaxBodyLength())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed reading request")
			logger.Warn("failed reading request body", "error", err)
			writeStatus(w, http.StatusBadRequest, "")
			return
		}
		req.Logger = logger

		result, err := resource.Evaluate(res, req, resource.DefaultSteps()...)
		if err != nil {
			status, msg := errorStatus(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.SetAttributes(attribute.Int("http.response.status_code", status))
			logger.Warn("request evaluation failed",
				append([]any{
					"error", err,
					"status", status,
					"checked", result.Checked,
				}, aerrors.Attrs(err)...)...)
			writeStatus(w, status, msg)
			return
		}

		span.SetAttributes(
			attribute.String("resource.resolved_by", result.ResolvedBy),
			attribute.Int("http.response.status_code", result.Response.StatusCode),
		)
		writeResponse(w, result.Response)
	}
}

// newRequest converts r into a resource request. At most maxBody+1 bytes of
// the body are read, which is enough for the evaluation to detect an
// oversized body.
func newRequest(r *http.Request, maxBody int64) (*resource.Request, error) {
	req := resource.NewRequest(r.Method, r.URL.Path)
	req.Header = r.Header.Clone()
	req.RemoteAddr = r.RemoteAddr

	if r.Body == nil {
		return req, nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed reading request body: %w", err)
	}
	req.Body = body

	return req, nil
}

// errorStatus maps an evaluation error to a response status code and message.
// Undecodable bodies are the client's fault, anything else is the server's.
// Details of internal errors are not exposed.
func errorStatus(err error) (int, string) {
	var perr *parse.Error
	if errors.As(err, &perr) {
		return http.StatusBadRequest, perr.Error()
	}
	return http.StatusInternalServerError, ""
}

func writeResponse(w http.ResponseWriter, resp *resource.Response) {
	for k, vals := range resp.Header {
		for _, v := range vals {
			w.Header().Add(k, v)
		}
	}

	if len(resp.Body) == 0 && resp.StatusCode >= http.StatusBadRequest {
		writeStatus(w, resp.StatusCode, "")
		return
	}

	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}

// writeStatus writes a plain text response with the status text, followed by
// msg if it's not empty.
func writeStatus(w http.ResponseWriter, status int, msg string) {
	body := http.StatusText(status)
	if msg != "" {
		body = fmt.Sprintf("%s: %s", body, msg)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = fmt.Fprintln(w, body)
}
