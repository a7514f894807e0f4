package models

// CodeRequest is the body the CMS posts to exchange an authorization code.
type CodeRequest struct {
	Code string `json:"code"`
}

// TokenResponse is returned to the CMS after a successful exchange.
type TokenResponse struct {
	Token string `json:"token"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
