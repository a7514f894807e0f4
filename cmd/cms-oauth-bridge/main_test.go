package main

import (
	"bytes"
	"testing"

	"github.com/brizzai/cms-oauth-bridge/internal/config"
	"github.com/brizzai/cms-oauth-bridge/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"gopkg.in/yaml.v3"
)

func TestPrintConfigRedactsSecret(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 8080},
		OAuth: config.OAuthConfig{
			ClientID:       "client-1",
			ClientSecret:   "super-secret-value",
			AllowedOrigins: []string{"https://cms.test"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, printConfig(&buf, cfg))

	assert.NotContains(t, buf.String(), "super-secret-value")

	var decoded config.Config
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "client-1", decoded.OAuth.ClientID)
	assert.Equal(t, []string{"https://cms.test"}, decoded.OAuth.AllowedOrigins)
	assert.Equal(t, 8080, decoded.Server.Port)
}

func TestNewAppResolvesGraph(t *testing.T) {
	cfg := &config.Config{
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 0},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}

	var srv *server.Server
	app := newApp(cfg, fx.Populate(&srv))

	require.NoError(t, app.Err())
	assert.NotNil(t, srv)
}
