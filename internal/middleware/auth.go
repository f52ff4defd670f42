package middleware

import (
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/irontracker/internal/telemetry/metrics"
	"github.com/2beens/irontracker/internal/telemetry/tracing"
	"github.com/2beens/irontracker/pkg"
)

const TokenHeader = "X-IRON-TOKEN"

type AuthMiddlewareHandler struct {
	// bcrypt hash of the write token, empty disables the check
	tokenHash            string
	metricsManager       *metrics.Manager
	allowedPathsPrefixes []string
}

func NewAuthMiddlewareHandler(tokenHash string, metricsManager *metrics.Manager) *AuthMiddlewareHandler {
	if tokenHash == "" {
		log.Warnln("write token hash not set, POST and DELETE requests are not protected")
	}
	return &AuthMiddlewareHandler{
		tokenHash:      tokenHash,
		metricsManager: metricsManager,
		allowedPathsPrefixes: []string{
			// mcp tools are read only
			"/mcp",
		},
	}
}

func (h *AuthMiddlewareHandler) pathIsAlwaysAllowed(path string) bool {
	for _, prefix := range h.allowedPathsPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// AuthCheck guards the write endpoints (POST, DELETE) with the token header.
func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			isWrite := r.Method == http.MethodPost || r.Method == http.MethodDelete
			if !isWrite ||
				h.tokenHash == "" ||
				h.pathIsAlwaysAllowed(r.URL.Path) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			authToken := r.Header.Get(TokenHeader)
			if authToken == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s %s", r.Method, r.URL.Path)
				h.metricsManager.CounterUnauthorized.Inc()
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			if !pkg.CheckTokenHash(authToken, h.tokenHash) {
				log.Warnf("[invalid token] [auth middleware] unauthorized => %s %s", r.Method, r.URL.Path)
				h.metricsManager.CounterUnauthorized.Inc()
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "invalid-token")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r)
		})
	}
}
