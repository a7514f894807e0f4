// Package redirect normalizes the OAuth callback URI registered with GitHub.
package redirect

import "strings"

// CallbackPath is the path GitHub redirects back to after consent.
const CallbackPath = "/callback"

// Normalize strips trailing slashes from base and appends CallbackPath unless
// base already ends with it. An empty base stays empty so callers can detect
// a missing configuration. Normalize is idempotent.
func Normalize(base string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return ""
	}
	if strings.HasSuffix(base, CallbackPath) {
		return base
	}
	return base + CallbackPath
}
