package auth

import (
	"github.com/brizzai/cms-oauth-bridge/internal/auth/handlers"
	"github.com/brizzai/cms-oauth-bridge/internal/auth/providers"
	"go.uber.org/fx"
)

// Module provides the OAuth bridge dependencies
var Module = fx.Module("auth",
	fx.Provide(
		fx.Annotate(
			providers.NewGitHubProvider,
			fx.As(new(providers.Provider)),
		),
		handlers.NewHandler,
		NewService,
	),
)
