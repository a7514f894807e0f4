package requester

import (
	"net/http"
	"time"

	"github.com/brizzai/cms-oauth-bridge/internal/auth/constants"
	"github.com/brizzai/cms-oauth-bridge/internal/config"
	"github.com/brizzai/cms-oauth-bridge/internal/logger"
	"go.uber.org/zap"
)

// DefaultTimeout applies when no outbound timeout is configured.
const DefaultTimeout = 30 * time.Second

// NewHTTPClient creates the client used for back-channel calls to GitHub.
// GitHub answers the token endpoint with form encoding unless asked for JSON,
// so every request defaults to Accept: application/json.
func NewHTTPClient(cfg *config.OAuthConfig) *http.Client {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &HeaderTransport{
			Base: http.DefaultTransport,
			Headers: map[string]string{
				"Accept":     "application/json",
				"User-Agent": constants.UserAgent,
			},
		},
	}
}

// HeaderTransport sets default headers on outgoing requests and logs each
// round trip. Headers already present on the request are left untouched.
type HeaderTransport struct {
	Base    http.RoundTripper
	Headers map[string]string
}

// RoundTrip implements http.RoundTripper
func (t *HeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	req = req.Clone(req.Context())
	for name, value := range t.Headers {
		if req.Header.Get(name) == "" {
			req.Header.Set(name, value)
		}
	}

	start := time.Now()
	resp, err := base.RoundTrip(req)
	if err != nil {
		logger.Warn("Provider request failed",
			zap.String("method", req.Method),
			zap.String("host", req.URL.Host),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Debug("Provider request",
		zap.String("method", req.Method),
		zap.String("host", req.URL.Host),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	return resp, nil
}
