package handlers

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/brizzai/cms-oauth-bridge/internal/auth/constants"
	"github.com/brizzai/cms-oauth-bridge/internal/auth/models"
	"github.com/brizzai/cms-oauth-bridge/internal/auth/providers"
	"github.com/brizzai/cms-oauth-bridge/internal/config"
	"github.com/brizzai/cms-oauth-bridge/internal/logger"
	"github.com/brizzai/cms-oauth-bridge/internal/metrics"
	"github.com/brizzai/cms-oauth-bridge/internal/utils"
	"go.uber.org/zap"
)

//go:embed callback.html
var callbackPage []byte

// CallbackPage returns the HTML served by HandleCallback.
func CallbackPage() []byte {
	return callbackPage
}

// Handler handles the OAuth bridge HTTP requests
type Handler struct {
	config       *config.OAuthConfig
	authProvider providers.Provider
	metrics      *metrics.Metrics
}

// NewHandler creates a new Handler instance
func NewHandler(cfg *config.OAuthConfig, provider providers.Provider, m *metrics.Metrics) *Handler {
	return &Handler{
		config:       cfg,
		authProvider: provider,
		metrics:      m,
	}
}

// HandleAuth is the front door of the flow. GET redirects the browser to the
// GitHub consent screen, POST exchanges a code for a token server-side and
// OPTIONS answers CORS preflight. CORS headers are set by
// middleware.CORSWithOrigins around this handler.
func (h *Handler) HandleAuth(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	// Checked before the method switch so every method fails the same way.
	if missing := h.config.Missing(); len(missing) > 0 {
		logger.Error("Rejecting request", zap.Error(models.ErrNotConfigured), zap.Strings("missing", missing))
		utils.WriteError(w, http.StatusInternalServerError, config.MissingConfigMessage)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleAuthorize(w, r)
	case http.MethodPost:
		h.handleExchange(w, r)
	default:
		utils.WriteText(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}
}

func (h *Handler) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	authURL := h.authProvider.AuthURL(h.config.RedirectURI())
	http.Redirect(w, r, authURL, http.StatusFound)
}

func (h *Handler) handleExchange(w http.ResponseWriter, r *http.Request) {
	code, err := readCode(http.MaxBytesReader(w, r.Body, constants.MaxRequestBodyBytes))
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if code == "" {
		logger.Debug("Rejecting exchange", zap.Error(models.ErrMissingCode))
		utils.WriteError(w, http.StatusBadRequest, constants.MissingCodeMessage)
		return
	}

	start := time.Now()
	token, err := h.authProvider.ExchangeCode(r.Context(), code, h.config.RedirectURI())
	took := time.Since(start)

	var providerErr *models.ProviderError
	switch {
	case errors.As(err, &providerErr):
		h.metrics.ObserveExchange(constants.OutcomeProviderError, took)
		logger.Warn("Provider rejected authorization code",
			zap.String("error", providerErr.Code),
			zap.String("description", providerErr.Description),
		)
		utils.WriteRawJSON(w, http.StatusBadRequest, providerErr.Payload)
	case err != nil:
		h.metrics.ObserveExchange(constants.OutcomeTransportError, took)
		logger.Error("Failed to exchange code", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
	default:
		h.metrics.ObserveExchange(constants.OutcomeSuccess, took)
		logger.Info("Exchanged authorization code", zap.Duration("duration", took))
		utils.WriteJSON(w, http.StatusOK, models.TokenResponse{Token: token})
	}
}

// readCode extracts the code field from a JSON body. An empty body, a JSON
// value that is not an object, and a non-string code all read as no code.
// Only malformed JSON is an error.
func readCode(body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("failed to read request body: %w", err)
	}
	if len(data) == 0 {
		return "", nil
	}

	var payload interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("invalid request body: %w", err)
	}
	if _, ok := payload.(map[string]interface{}); !ok {
		return "", nil
	}

	var req models.CodeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return "", nil
	}
	return req.Code, nil
}

// HandleCallback serves the page GitHub redirects to. The page relays the
// code to the opener window; nothing is read server-side.
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(callbackPage); err != nil {
		logger.Warn("Failed to write callback page", zap.Error(err))
	}
}
