package requester

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brizzai/cms-oauth-bridge/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClientTimeout(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		expected time.Duration
	}{
		{name: "configured", timeout: 5 * time.Second, expected: 5 * time.Second},
		{name: "zero falls back", timeout: 0, expected: DefaultTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewHTTPClient(&config.OAuthConfig{HTTPTimeout: tt.timeout})
			assert.Equal(t, tt.expected, client.Timeout)
		})
	}
}

func TestHeaderTransportSetsDefaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "cms-oauth-bridge", r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewHTTPClient(&config.OAuthConfig{})
	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestHeaderTransportKeepsExplicitHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/plain", r.Header.Get("Accept"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(&config.OAuthConfig{})
	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "text/plain")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// the caller's request is not mutated
	assert.Empty(t, req.Header.Get("User-Agent"))
}

func TestHeaderTransportTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(&config.OAuthConfig{HTTPTimeout: 50 * time.Millisecond})
	resp, err := client.Get(server.URL)
	if resp != nil {
		resp.Body.Close()
	}
	assert.Error(t, err)
}
