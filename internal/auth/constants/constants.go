package constants

const (
	// Scope grants repository and user email access, as the CMS needs both.
	Scope = "repo,user:email"

	// AuthorizationResponseType is the message type posted to the opener window.
	AuthorizationResponseType = "authorization_response"

	// UserAgent identifies the bridge to GitHub.
	UserAgent = "cms-oauth-bridge"

	// MissingCodeMessage is returned when the POST body has no code.
	MissingCodeMessage = "Missing code"

	// MaxRequestBodyBytes caps the POST body read by the auth endpoint.
	MaxRequestBodyBytes = 1 << 20
)

// Routes served by the bridge.
const (
	AuthPath     = "/auth"
	CallbackPath = "/callback"

	// Paths used by the hosted functions deployment, kept as aliases.
	LegacyAuthPath     = "/.netlify/functions/auth"
	LegacyCallbackPath = "/.netlify/functions/callback"
)

// CORS header values.
const (
	AllowHeaders = "Content-Type, Authorization"
	AllowMethods = "GET, POST, OPTIONS"
)

// Exchange outcomes reported to metrics.
const (
	OutcomeSuccess        = "success"
	OutcomeProviderError  = "provider_error"
	OutcomeTransportError = "transport_error"
)
