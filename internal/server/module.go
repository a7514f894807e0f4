package server

import (
	"context"

	"github.com/brizzai/cms-oauth-bridge/internal/apidoc"
	"github.com/brizzai/cms-oauth-bridge/internal/config"
	"github.com/brizzai/cms-oauth-bridge/internal/logger"
	"github.com/brizzai/cms-oauth-bridge/internal/server/handler"
	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newAPIDoc() (*openapi3.T, error) {
	return apidoc.New(config.Version())
}

// registerLifecycle starts the server with the app and stops the app when
// the server fails after startup.
func registerLifecycle(lc fx.Lifecycle, s *Server, shutdowner fx.Shutdowner) {
	stop := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := s.Listen(); err != nil {
				return err
			}

			go func() {
				select {
				case <-s.Errors():
					if err := shutdowner.Shutdown(fx.ExitCode(1)); err != nil {
						logger.Error("Failed to request shutdown", zap.Error(err))
					}
				case <-stop:
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(stop)

			ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout())
			defer cancel()
			return s.Shutdown(ctx)
		},
	})
}

// Module provides the HTTP server and ties it to the fx lifecycle
var Module = fx.Module("server",
	fx.Provide(
		newAPIDoc,
		handler.NewHandler,
		NewServer,
	),
	fx.Invoke(registerLifecycle),
)
