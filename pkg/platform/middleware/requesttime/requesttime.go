// Package requesttime pins a single "now" per HTTP request so timestamps on a
// study and its audit events agree.
package requesttime

import (
	"net/http"
	"time"

	"studycat/pkg/requestcontext"
)

// Middleware captures the current UTC time at the start of the request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
