package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const loggerKey contextKey = "logger"

// statusRecorder captures the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// WithRequestLogger injects a request-scoped logger carrying the
// method, path, request id, and the tenant path segment when the route
// has one, then logs the request on completion. The tenant comes from
// the matched pattern's path value: tenant resolution runs further down
// the chain, on a context this middleware never sees.
func WithRequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			logger := base.With(
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			if id := GetRequestID(r.Context()); id != "" {
				logger = logger.With(slog.String("request_id", id))
			}
			if id := r.PathValue("tenant"); id != "" {
				logger = logger.With(slog.String("tenant", id))
			}

			ctx := context.WithValue(r.Context(), loggerKey, logger)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(ctx))

			logger.Info("request",
				slog.Int("status", rec.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// GetLogger returns the request-scoped logger, falling back to the
// default logger when the request did not pass through
// WithRequestLogger.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
