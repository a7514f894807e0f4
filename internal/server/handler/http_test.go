package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brizzai/cms-oauth-bridge/internal/apidoc"
	"github.com/brizzai/cms-oauth-bridge/internal/auth"
	"github.com/brizzai/cms-oauth-bridge/internal/auth/handlers"
	"github.com/brizzai/cms-oauth-bridge/internal/auth/providers"
	"github.com/brizzai/cms-oauth-bridge/internal/config"
	"github.com/brizzai/cms-oauth-bridge/internal/logger"
	"github.com/brizzai/cms-oauth-bridge/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestHandler(t *testing.T, metricsCfg *config.MetricsConfig) (http.Handler, *metrics.Metrics) {
	t.Helper()

	cfg := &config.OAuthConfig{
		ClientID:       "client-1",
		ClientSecret:   "secret-1",
		SiteURL:        "https://x.test",
		AllowedOrigins: []string{"https://cms.test"},
	}
	m := metrics.New()
	provider := providers.NewGitHubProvider(cfg, nil)
	service := auth.NewService(cfg, provider, handlers.NewHandler(cfg, provider, m))

	doc, err := apidoc.New("test")
	require.NoError(t, err)

	return NewHandler(service, m, metricsCfg, doc).CreateHTTPHandler(), m
}

func do(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Origin", "https://cms.test")
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateHTTPHandlerRoutes(t *testing.T) {
	h, _ := newTestHandler(t, &config.MetricsConfig{Enabled: true, Path: "/metrics"})

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodOptions, "/auth", http.StatusOK},
		{http.MethodGet, "/auth", http.StatusFound},
		{http.MethodPost, "/auth", http.StatusBadRequest},
		{http.MethodGet, "/callback?code=xyz", http.StatusOK},
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/openapi.json", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/missing", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := do(h, tt.method, tt.path)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestCreateHTTPHandlerMetricsDisabled(t *testing.T) {
	h, _ := newTestHandler(t, &config.MetricsConfig{Enabled: false, Path: "/metrics"})

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/metrics").Code)
}

func TestCreateHTTPHandlerCountsRequests(t *testing.T) {
	h, m := newTestHandler(t, nil)

	do(h, http.MethodOptions, "/auth")
	do(h, http.MethodOptions, "/auth")
	do(h, http.MethodGet, "/callback")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("/auth", "OPTIONS", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("/callback", "GET", "200")))
}

func TestOpenAPIDocument(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	rec := do(h, http.MethodGet, "/openapi.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Contains(t, doc["paths"], "/auth")
}

func TestHealthz(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	rec := do(h, http.MethodGet, "/healthz")
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRequestLoggerOmitsQuery(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger.SetLogger(zap.New(core))
	t.Cleanup(func() { logger.SetLogger(nil) })

	h, _ := newTestHandler(t, &config.MetricsConfig{Enabled: false})
	rec := do(h, http.MethodGet, "/callback?code=secret-code")
	require.Equal(t, http.StatusOK, rec.Code)

	entries := logs.FilterMessage("Handled request").All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, "/callback", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	for _, v := range fields {
		assert.NotContains(t, fmt.Sprint(v), "secret-code")
	}
}
