// Package device summarises the calling client from its User-Agent header so
// request logs show which tool or browser made a change.
package device

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"
)

const unknownClient = "Unknown Client"

// ParseUserAgent renders a short "Name on OS" label. Bots and command-line
// tools without a platform section are reported by name alone.
func ParseUserAgent(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return unknownClient
	}

	ua := useragent.New(raw)
	name, _ := ua.Browser()
	if name == "" {
		return unknownClient
	}
	if ua.Bot() {
		return strings.TrimSpace(name + " (bot)")
	}

	os := ua.OS()
	if os == "" {
		os = ua.Platform()
	}
	if os == "" {
		return name
	}
	return strings.TrimSpace(name + " on " + os)
}

// Middleware stores the parsed client label in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithClient(r.Context(), ParseUserAgent(r.UserAgent()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
