// Package version tags requests with the API version of their route group and
// keeps curator tokens from being used on older groups than they were minted for.
package version

import (
	"log/slog"
	"net/http"

	id "studycat/pkg/domain"
	dErrors "studycat/pkg/domain-errors"
	"studycat/pkg/platform/httputil"
	"studycat/pkg/requestcontext"
)

// ExtractVersion records the version of the chi route group in the context.
func ExtractVersion(version id.APIVersion) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(requestcontext.WithAPIVersion(r.Context(), version)))
		})
	}
}

// ValidateTokenVersion rejects tokens minted for a newer API version than the
// route. It runs after ExtractVersion and RequireCurator:
//
//	v1.Use(version.ExtractVersion(id.APIVersionV1))
//	v1.With(middleware.RequireCurator(v, log), version.ValidateTokenVersion(log)).Post(...)
func ValidateTokenVersion(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			route := requestcontext.APIVersion(ctx)
			if route.IsNil() {
				logger.ErrorContext(ctx, "route version not set", "request_id", requestcontext.RequestID(ctx))
				httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "route version not configured"))
				return
			}

			// Tokens without a version claim are treated as v1.
			token := requestcontext.TokenAPIVersion(ctx)
			if token.IsNil() {
				token = id.APIVersionV1
			}
			if route.IsAtLeast(token) {
				next.ServeHTTP(w, r)
				return
			}

			logger.WarnContext(ctx, "token version newer than route",
				"token_version", token,
				"route_version", route,
				"curator_id", requestcontext.CuratorID(ctx),
				"request_id", requestcontext.RequestID(ctx),
			)
			httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden,
				"token API version "+token.String()+" cannot be used on "+route.String()+" routes"))
		})
	}
}
