// Package handler provides HTTP request handling for the bridge server.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/brizzai/cms-oauth-bridge/internal/auth"
	"github.com/brizzai/cms-oauth-bridge/internal/config"
	"github.com/brizzai/cms-oauth-bridge/internal/logger"
	"github.com/brizzai/cms-oauth-bridge/internal/metrics"
	"github.com/brizzai/cms-oauth-bridge/internal/utils"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Handler manages HTTP request handling and middleware configuration.
type Handler struct {
	auth       *auth.Service
	metrics    *metrics.Metrics
	metricsCfg *config.MetricsConfig
	doc        *openapi3.T
}

// NewHandler creates a new HTTP handler.
func NewHandler(auth *auth.Service, m *metrics.Metrics, metricsCfg *config.MetricsConfig, doc *openapi3.T) *Handler {
	return &Handler{
		auth:       auth,
		metrics:    m,
		metricsCfg: metricsCfg,
		doc:        doc,
	}
}

// CreateHTTPHandler creates the router with the middleware stack and every
// route of the bridge.
func (h *Handler) CreateHTTPHandler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger)
	r.Use(Instrument(h.metrics))
	r.Use(chimiddleware.Recoverer)

	h.auth.RegisterRoutes(r)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if h.doc != nil {
		r.Get("/openapi.json", h.serveOpenAPI)
	}

	if h.metricsCfg != nil && h.metricsCfg.Enabled {
		r.Handle(h.metricsCfg.Path, h.metrics.Handler())
		logger.Info("Enabled metrics endpoint", zap.String("path", h.metricsCfg.Path))
	}

	return r
}

func (h *Handler) serveOpenAPI(w http.ResponseWriter, r *http.Request) {
	body, err := json.Marshal(h.doc)
	if err != nil {
		logger.Error("Failed to encode OpenAPI document", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to encode document")
		return
	}
	utils.WriteRawJSON(w, http.StatusOK, body)
}
