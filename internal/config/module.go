package config

import "go.uber.org/fx"

// Module exposes the sections of an already loaded *Config.
var Module = fx.Module("config",
	fx.Provide(
		func(cfg *Config) *OAuthConfig { return &cfg.OAuth },
		func(cfg *Config) *ServerConfig { return &cfg.Server },
		func(cfg *Config) *LoggingConfig { return &cfg.Logging },
		func(cfg *Config) *MetricsConfig { return &cfg.Metrics },
	),
)
