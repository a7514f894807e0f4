package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/brizzai/cms-oauth-bridge/internal/auth/constants"
	"github.com/brizzai/cms-oauth-bridge/internal/auth/models"
	"github.com/brizzai/cms-oauth-bridge/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

type GitHubProvider struct {
	oauth2Config *oauth2.Config
	client       *http.Client
}

// NewGitHubProvider builds a provider for the configured OAuth app. The
// endpoints default to github.com and can point at GitHub Enterprise.
func NewGitHubProvider(cfg *config.OAuthConfig, client *http.Client) *GitHubProvider {
	endpoint := github.Endpoint
	// Credentials travel in the form body, as GitHub documents.
	endpoint.AuthStyle = oauth2.AuthStyleInParams
	if cfg.AuthorizeURL != "" {
		endpoint.AuthURL = cfg.AuthorizeURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &GitHubProvider{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpoint,
			Scopes:       []string{constants.Scope},
		},
		client: client,
	}
}

// AuthURL returns the consent URL. No state parameter is sent: the CMS client
// has no way to echo one back, so the flow carries no CSRF binding.
func (p *GitHubProvider) AuthURL(redirectURI string) string {
	cfg := *p.oauth2Config // copy
	cfg.RedirectURL = redirectURI
	return cfg.AuthCodeURL("")
}

func (p *GitHubProvider) ExchangeCode(ctx context.Context, code, redirectURI string) (string, error) {
	cfg := *p.oauth2Config // copy
	cfg.RedirectURL = redirectURI

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)
	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			if providerErr := toProviderError(retrieveErr); providerErr != nil {
				return "", providerErr
			}
		}
		return "", fmt.Errorf("%w: %w", models.ErrTransport, err)
	}
	return token.AccessToken, nil
}

// toProviderError extracts the provider's error object. A JSON body with an
// error field is kept byte for byte; a form encoded one is re-encoded.
func toProviderError(e *oauth2.RetrieveError) *models.ProviderError {
	body := bytes.TrimSpace(e.Body)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err == nil {
		if _, ok := fields["error"]; ok {
			return &models.ProviderError{
				Code:        e.ErrorCode,
				Description: e.ErrorDescription,
				Payload:     json.RawMessage(body),
			}
		}
	}

	if e.ErrorCode == "" {
		return nil
	}

	payload := map[string]string{"error": e.ErrorCode}
	if e.ErrorDescription != "" {
		payload["error_description"] = e.ErrorDescription
	}
	if e.ErrorURI != "" {
		payload["error_uri"] = e.ErrorURI
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return &models.ProviderError{
		Code:        e.ErrorCode,
		Description: e.ErrorDescription,
		Payload:     raw,
	}
}
