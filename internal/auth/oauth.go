package auth

import (
	"github.com/brizzai/cms-oauth-bridge/internal/auth/constants"
	"github.com/brizzai/cms-oauth-bridge/internal/auth/handlers"
	"github.com/brizzai/cms-oauth-bridge/internal/auth/middleware"
	"github.com/brizzai/cms-oauth-bridge/internal/auth/providers"
	"github.com/brizzai/cms-oauth-bridge/internal/config"
	"github.com/brizzai/cms-oauth-bridge/internal/logger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Service represents the OAuth bridge
type Service struct {
	config       *config.OAuthConfig
	authProvider providers.Provider
	handler      *handlers.Handler
}

// NewService creates a new OAuth service
func NewService(cfg *config.OAuthConfig, provider providers.Provider, handler *handlers.Handler) *Service {
	if missing := cfg.Missing(); len(missing) > 0 {
		logger.Warn("OAuth bridge is missing settings, /auth will answer 500 until they are set",
			zap.Strings("missing", missing))
	}

	return &Service{
		config:       cfg,
		authProvider: provider,
		handler:      handler,
	}
}

// RegisterRoutes registers the auth and callback routes, including the
// paths of the hosted functions deployment.
func (s *Service) RegisterRoutes(r chi.Router) {
	cors := middleware.CORSWithOrigins(s.config)
	for _, path := range []string{constants.AuthPath, constants.LegacyAuthPath} {
		r.With(cors).HandleFunc(path, s.handler.HandleAuth)
	}
	for _, path := range []string{constants.CallbackPath, constants.LegacyCallbackPath} {
		r.Get(path, s.handler.HandleCallback)
	}

	logger.Info("Registered OAuth routes",
		zap.String("auth", constants.AuthPath),
		zap.String("callback", constants.CallbackPath),
		zap.String("redirect_uri", s.config.RedirectURI()),
		zap.Int("allowed_origins", len(s.config.AllowedOrigins)),
	)
}
