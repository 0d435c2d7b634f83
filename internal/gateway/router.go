package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"radagast/internal/config"
	"radagast/internal/gateway/auth"
	"radagast/internal/gateway/proxy"
)

// NewRouter wires the gateway surface: an unauthenticated health check and
// the authenticated catch-all proxy route.
func NewRouter(cfg config.GatewayConfig, logger *zap.Logger) chi.Router {
	verifier := auth.NewVerifier(cfg, logger)
	authMw := auth.NewMiddleware(cfg, verifier, logger)
	p := proxy.New(cfg, logger)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"gateway"}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(authMw.Handler)
		r.HandleFunc("/api/v1/rest/{service}", p.Forward)
		r.HandleFunc("/api/v1/rest/{service}/*", p.Forward)
	})

	return r
}
