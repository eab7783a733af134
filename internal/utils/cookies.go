package utils

import (
	"net/url"
	"strings"
)

// ParseCookies splits a Cookie header into a name/value map. Values are
// URL-decoded; segments without an "=" are skipped. A value keeps
// everything after the first "=", so base64 padding and other embedded
// "=" characters survive. An empty header yields an empty map, never
// nil.
func ParseCookies(header string) map[string]string {
	cookies := make(map[string]string)
	if header == "" {
		return cookies
	}

	for _, segment := range strings.Split(header, ";") {
		segment = strings.TrimSpace(segment)
		name, value, ok := strings.Cut(segment, "=")
		if !ok || name == "" || value == "" {
			continue
		}
		if decoded, err := url.QueryUnescape(value); err == nil {
			value = decoded
		}
		cookies[name] = value
	}

	return cookies
}
