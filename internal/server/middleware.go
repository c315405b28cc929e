package server

import (
	"context"
	"net/http"

	"studentdir/internal/config"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/justinas/alice"
	"github.com/xmidt-org/httpaux"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// RequestID returns the id assigned to the request by the RequestIDs middleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDs keeps an incoming X-Request-Id or assigns a new one, and echoes it on the response.
func RequestIDs(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// AccessLog logs one line per request.
func AccessLog(logger *zap.Logger) alice.Constructor {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := httpsnoop.CaptureMetrics(next, w, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", m.Code),
				zap.Int64("bytes", m.Written),
				zap.Duration("duration", m.Duration),
				zap.String("request_id", RequestID(r.Context())),
			)
		})
	}
}

// Recovery turns a panicking handler into a 500 and logs the panic.
func Recovery(logger *zap.Logger) alice.Constructor {
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(logger)),
		handlers.PrintRecoveryStack(false),
	)
}

// CORS allows the configured browser origins.
func CORS(cfg config.ServerConfig) alice.Constructor {
	return handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "HEAD", "OPTIONS"}),
		handlers.ExposedHeaders([]string{RequestIDHeader}),
	)
}

// StaticHeaders sets the configured headers on every response before the handler runs.
func StaticHeaders(h http.Header) alice.Constructor {
	header := httpaux.NewHeader(h)
	return func(next http.Handler) http.Handler {
		if header.Len() == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header.SetTo(w.Header())
			next.ServeHTTP(w, r)
		})
	}
}

// Chain is the middleware every profile runs behind, outermost first.
func Chain(cfg config.ServerConfig, logger *zap.Logger) alice.Chain {
	return alice.New(
		StaticHeaders(cfg.Header),
		Recovery(logger),
		RequestIDs,
		AccessLog(logger),
		CORS(cfg),
	)
}
