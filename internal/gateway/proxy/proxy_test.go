package proxy

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"radagast/internal/config"
)

func newGateway(t *testing.T, endpoints map[string]string) *httptest.Server {
	p := New(config.GatewayConfig{
		ServiceEndpoints: endpoints,
		RequestTimeout:   5 * time.Second,
	}, zap.NewNop())

	r := chi.NewRouter()
	r.HandleFunc("/api/v1/rest/{service}", p.Forward)
	r.HandleFunc("/api/v1/rest/{service}/*", p.Forward)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestForward_JSONPassthrough(t *testing.T) {
	var gotPath, gotQuery, gotUserID string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotUserID = r.Header.Get("x-user-id")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"order_id":"abc"},"error":null}`))
	}))
	defer upstream.Close()

	srv := newGateway(t, map[string]string{"order-service": upstream.URL + "/api/v1/rest"})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/rest/order-service/orders/my?status=delivered", nil)
	require.NoError(t, err)
	req.Header.Set("x-user-id", "user-1")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "/api/v1/rest/orders/my", gotPath)
	assert.Equal(t, "status=delivered", gotQuery)
	assert.Equal(t, "user-1", gotUserID, "identity headers must reach the upstream")

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Nil(t, body["error"])
}

func TestForward_TextPassthrough(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<h1>ok</h1>"))
	}))
	defer upstream.Close()

	srv := newGateway(t, map[string]string{"web": upstream.URL})

	resp, err := srv.Client().Get(srv.URL + "/api/v1/rest/web/page")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "<h1>ok</h1>", string(data))
}

func TestForward_BodyForwardedOnPost(t *testing.T) {
	var gotBody string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"order_id":"new"},"error":null}`))
	}))
	defer upstream.Close()

	srv := newGateway(t, map[string]string{"order-service": upstream.URL})

	resp, err := srv.Client().Post(srv.URL+"/api/v1/rest/order-service/orders",
		"application/json", strings.NewReader(`{"payment_method":"card"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode, "upstream status passes through unchanged")
	assert.Equal(t, `{"payment_method":"card"}`, gotBody)
}

func TestForward_UnknownService(t *testing.T) {
	srv := newGateway(t, map[string]string{"order-service": "http://order.invalid"})

	resp, err := srv.Client().Get(srv.URL + "/api/v1/rest/ghost-service/anything")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Service 'ghost-service' not found", body["error"])
}

func TestForward_UpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	upstream.Close()

	srv := newGateway(t, map[string]string{"order-service": upstream.URL})

	resp, err := srv.Client().Get(srv.URL + "/api/v1/rest/order-service/orders")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Service unavailable", body["error"])
	assert.NotEmpty(t, body["message"])
}

func TestForward_UpstreamErrorStatusPassesThrough(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"bad payload"}`))
	}))
	defer upstream.Close()

	srv := newGateway(t, map[string]string{"order-service": upstream.URL})

	resp, err := srv.Client().Get(srv.URL + "/api/v1/rest/order-service/orders")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestForward_ServiceRootWithoutSubpath(t *testing.T) {
	var gotPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	srv := newGateway(t, map[string]string{"order-service": upstream.URL + "/api/v1/rest"})

	resp, err := srv.Client().Get(srv.URL + "/api/v1/rest/order-service")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/api/v1/rest", gotPath)
}
