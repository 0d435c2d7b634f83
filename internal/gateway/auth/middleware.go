package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"radagast/internal/config"
	"radagast/internal/identity"
)

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (identity.Identity, error)
}

// Middleware gates every request before it reaches the proxy. Public paths
// pass through untouched; everything else needs a valid bearer token. On
// success the verified identity is injected into the forwarded headers so
// backend services can trust it without re-verifying the token.
type Middleware struct {
	verifier       TokenVerifier
	publicExact    map[string]struct{}
	publicPrefixes []string
	logger         *zap.Logger
}

func NewMiddleware(cfg config.GatewayConfig, verifier TokenVerifier, logger *zap.Logger) *Middleware {
	exact := make(map[string]struct{}, len(cfg.PublicEndpoints))
	for _, path := range cfg.PublicEndpoints {
		exact[path] = struct{}{}
	}
	return &Middleware{
		verifier:       verifier,
		publicExact:    exact,
		publicPrefixes: cfg.PublicPrefixes,
		logger:         logger,
	}
}

func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if m.isPublic(path) {
			m.logger.Debug("public endpoint, auth skipped", zap.String("path", path))
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			m.logger.Warn("missing or malformed Authorization header", zap.String("path", path))
			writeAuthError(w, http.StatusUnauthorized, "Authentication required", "Missing or invalid authorization header")
			return
		}

		ident, err := m.verifier.Verify(r.Context(), token)
		switch {
		case errors.Is(err, ErrTokenExpired):
			m.logger.Warn("expired token", zap.String("path", path))
			writeAuthError(w, http.StatusUnauthorized, "Token expired", "Token has expired, please login again")
			return
		case errors.Is(err, ErrTokenInvalid):
			m.logger.Warn("invalid token", zap.String("path", path))
			writeAuthError(w, http.StatusUnauthorized, "Invalid token", "Token verification failed")
			return
		case err != nil:
			m.logger.Error("token verification error", zap.String("path", path), zap.Error(err))
			writeAuthError(w, http.StatusInternalServerError, "Authentication error", "Internal authentication error")
			return
		}

		// Overwrite rather than append so a spoofed inbound header never
		// survives past the gateway.
		r.Header.Set(identity.HeaderUserID, ident.UserID)
		r.Header.Set(identity.HeaderUserRole, ident.Role)

		m.logger.Info("authentication successful",
			zap.String("userId", ident.UserID),
			zap.String("role", ident.Role))

		next.ServeHTTP(w, r.WithContext(identity.WithIdentity(r.Context(), ident)))
	})
}

func (m *Middleware) isPublic(path string) bool {
	if _, ok := m.publicExact[path]; ok {
		return true
	}
	for _, prefix := range m.publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func writeAuthError(w http.ResponseWriter, status int, errName, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   errName,
		"message": message,
	})
}
