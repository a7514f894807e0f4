package providers

import (
	"context"
)

// Provider defines the OAuth operations the bridge needs from GitHub
type Provider interface {
	// AuthURL returns the consent URL the browser is redirected to
	AuthURL(redirectURI string) string

	// ExchangeCode trades an authorization code for an access token.
	// Errors reported by the provider are returned as *models.ProviderError,
	// everything else wraps models.ErrTransport.
	ExchangeCode(ctx context.Context, code, redirectURI string) (string, error)
}
