package slogx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/campus/pkg/idx"
)

// HTTPMiddleware logs each request and stores a request scoped logger in the
// request context. The X-Request-ID sent by the client is reused when it is a
// valid ULID; anything else is replaced and logged as client_req_id.
func HTTPMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			clientID := r.Header.Get("X-Request-ID")
			reqID, err := idx.Parse(clientID)
			if err != nil {
				reqID = idx.New()
			}
			rw.Header().Set("X-Request-ID", reqID.String())

			ctx := WithContext(r.Context(), base.With("method", r.Method, "path", r.URL.Path))
			ctx = WithRequestID(ctx, reqID.String())
			if clientID != "" && err != nil {
				ctx = With(ctx, "client_req_id", clientID)
			}
			r = r.WithContext(ctx)
			logger := FromContext(ctx)

			next.ServeHTTP(rw, r)

			logger.Info("http_request",
				"status", rw.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"authenticated", r.Header.Get("Authorization") != "",
			)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter

	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
