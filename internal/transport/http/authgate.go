package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"accountd/internal/observability/metrics"
	obsmw "accountd/internal/observability/middleware"
	"accountd/internal/service"
)

// AuthGate turns a bearer token into a trusted identity for every request
// behind it. Stateless: each request validates independently.
type AuthGate struct {
	tokens service.TokenService
}

func NewAuthGate(tokens service.TokenService) *AuthGate {
	return &AuthGate{tokens: tokens}
}

func (g *AuthGate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result := "success"
		defer func() {
			metrics.TokenValidationsTotal.WithLabelValues(result).Inc()
		}()
		reqID := obsmw.RequestIDFromContext(r.Context())
		traceID := obsmw.TraceIDFromContext(r.Context())

		raw := r.Header.Get("Authorization")
		if !strings.HasPrefix(strings.ToLower(raw), "bearer ") {
			result = "failure"
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			slog.Warn("gate missing bearer", "request_id", reqID, "trace_id", traceID)
			return
		}
		tokStr := strings.TrimSpace(raw[len("Bearer "):])

		sub, err := g.tokens.Validate(r.Context(), tokStr)
		if err != nil {
			result = "failure"
			// Validation failures become structured 401s, never a panic or
			// a raw error past this boundary.
			writeAuthError(w, err)
			slog.Warn("gate rejected token", "error", err, "request_id", reqID, "trace_id", traceID)
			return
		}

		ctx := contextWithSubject(r.Context(), sub)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Local context key so downstream handlers don't import another package.
type subjectKey struct{}

func contextWithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, subjectKey{}, sub)
}

func SubjectFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(subjectKey{}).(string)
	return v, ok
}
