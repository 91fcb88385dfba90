package utils

import (
	"net/url"
	"strings"
)

// IsValidPlaylistURL reports whether the string looks like a usable playlist
// URL: non-blank, parseable, http(s) scheme, and a host.
func IsValidPlaylistURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}
