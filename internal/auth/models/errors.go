package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured means a client id, secret or redirect URI is missing.
	ErrNotConfigured = errors.New("oauth bridge is not configured")

	// ErrMissingCode means the POST body carried no authorization code.
	ErrMissingCode = errors.New("missing code")

	// ErrTransport wraps failures talking to the token endpoint.
	ErrTransport = errors.New("token exchange failed")
)

// ProviderError is an error payload returned by the token endpoint, such as
// bad_verification_code. Payload is the provider's JSON object as received.
type ProviderError struct {
	Code        string
	Description string
	Payload     json.RawMessage
}

func (e *ProviderError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("provider error %s: %s", e.Code, e.Description)
	}
	return "provider error " + e.Code
}
