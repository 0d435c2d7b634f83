// Package proxy forwards authenticated traffic to backend services resolved
// by the first path segment after the API prefix.
package proxy

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"radagast/internal/config"
)

type Proxy struct {
	endpoints map[string]string
	client    *http.Client
	logger    *zap.Logger
}

func New(cfg config.GatewayConfig, logger *zap.Logger) *Proxy {
	return &Proxy{
		endpoints: cfg.ServiceEndpoints,
		client:    &http.Client{Timeout: cfg.RequestTimeout},
		logger:    logger,
	}
}

// Forward proxies the request verbatim: method, headers (minus the inbound
// host), query, and body. Upstream HTTP errors pass through unchanged; only
// network failures become gateway-level 503s.
func (p *Proxy) Forward(w http.ResponseWriter, r *http.Request) {
	serviceName := chi.URLParam(r, "service")
	rest := chi.URLParam(r, "*")

	baseURL, ok := p.endpoints[serviceName]
	if !ok {
		p.logger.Error("unknown service", zap.String("service", serviceName))
		writeProxyError(w, http.StatusNotFound,
			fmt.Sprintf("Service '%s' not found", serviceName), "")
		return
	}

	targetURL := baseURL
	if rest != "" {
		targetURL = baseURL + "/" + rest
	}

	var body io.Reader
	if r.Method != http.MethodGet {
		body = r.Body
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, targetURL, body)
	if err != nil {
		p.logger.Error("building upstream request", zap.Error(err))
		writeProxyError(w, http.StatusInternalServerError, "Internal gateway error", "")
		return
	}

	// The upstream sets its own Host; everything else forwards as-is.
	req.Header = r.Header.Clone()
	req.Header.Del("Host")
	req.URL.RawQuery = r.URL.RawQuery

	p.logger.Info("proxying request",
		zap.String("method", r.Method),
		zap.String("target", targetURL))

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Error("upstream request failed", zap.String("target", targetURL), zap.Error(err))
		writeProxyError(w, http.StatusServiceUnavailable, "Service unavailable", err.Error())
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		p.logger.Error("reading upstream response", zap.Error(err))
		writeProxyError(w, http.StatusInternalServerError, "Internal gateway error", "")
		return
	}

	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.WriteHeader(resp.StatusCode)
	w.Write(data)
}

func writeProxyError(w http.ResponseWriter, status int, errName, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	payload := map[string]string{"error": errName}
	if message != "" {
		payload["message"] = message
	}
	json.NewEncoder(w).Encode(payload)
}
