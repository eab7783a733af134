package utils

import (
	"fmt"
	"strings"
)

// callbackPath is the OAuth callback route. The resulting URL must match
// the redirect URI registered with the provider exactly.
const callbackPath = "/api/auth/google"

// ComputeCallbackURL builds the OAuth redirect URI from the request's
// Host header and the X-Forwarded-Proto header. When no forwarded
// protocol is present, localhost hosts get http and everything else
// gets https.
func ComputeCallbackURL(host, forwardedProto string) string {
	scheme := forwardedProto
	if scheme == "" {
		if strings.Contains(host, "localhost") {
			scheme = "http"
		} else {
			scheme = "https"
		}
	}
	return fmt.Sprintf("%s://%s%s", scheme, host, callbackPath)
}
