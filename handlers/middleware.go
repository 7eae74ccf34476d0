package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"empresspc/auth"
	"empresspc/metrics"
	"empresspc/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Authenticator resolves a raw bearer token.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (auth.Identity, *auth.Claims, error)
}

type claimsKey struct{}

func claimsFrom(ctx context.Context) *auth.Claims {
	c, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return c
}

func identity(r *http.Request) auth.Identity {
	id, _ := auth.FromContext(r.Context())
	return id
}

// Authenticate rejects requests without a valid bearer token and attaches the
// caller's identity to the request context.
func Authenticate(a Authenticator, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, raw, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
				writeMessage(w, http.StatusUnauthorized, "no token provided")
				return
			}
			id, claims, err := a.Authenticate(r.Context(), strings.TrimSpace(raw))
			if err != nil {
				writeError(w, r, log, err)
				return
			}
			ctx := auth.WithIdentity(r.Context(), id)
			ctx = context.WithValue(ctx, claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Require lets the request through only when the caller's role may perform
// action on object.
func Require(e *auth.Enforcer, object, action string, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.FromContext(r.Context())
			if !ok {
				writeMessage(w, http.StatusUnauthorized, "no token provided")
				return
			}
			allowed, err := e.Allowed(id.Role, object, action)
			if err != nil {
				writeError(w, r, log, err)
				return
			}
			if !allowed {
				writeError(w, r, log, fmt.Errorf("%w: %s %s requires a different role", services.ErrForbidden, action, object))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger logs each request and records it in m under its route pattern.
func RequestLogger(log *zap.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			elapsed := time.Since(start)
			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.ObserveRequest(route, r.Method, status, elapsed)
			log.Info("request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("route", route),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", elapsed),
			)
		})
	}
}
