package ws

import (
	"log"
	"net/http"
	"net/url"
	"strings"
)

// originChecker validates the Origin header of upgrade requests against a
// configured allow-list.
func originChecker(allowed []string) func(*http.Request) bool {
	normalized := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		if n, ok := normalizeOrigin(origin); ok {
			normalized[n] = struct{}{}
		} else {
			log.Printf("ignoring invalid origin in configuration: %q", origin)
		}
	}

	return func(r *http.Request) bool {
		header := r.Header.Get("Origin")
		if header == "" {
			// Non-browser clients send no Origin header.
			return true
		}
		n, ok := normalizeOrigin(header)
		if !ok {
			return false
		}
		if _, exists := normalized[n]; exists {
			return true
		}
		log.Printf("blocked websocket connection from disallowed origin: %q", header)
		return false
	}
}

func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(origin))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), true
}
