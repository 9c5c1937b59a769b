package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	id "studycat/pkg/domain"
	"studycat/pkg/requestcontext"
)

// TokenValidator validates curator bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*CuratorClaims, error)
}

// CuratorClaims are the claims the middleware needs from a validated token.
type CuratorClaims struct {
	CuratorID  string
	APIVersion string
}

// RequireCurator rejects requests without a valid curator bearer token and
// stores the curator ID and token API version in the context.
func RequireCurator(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				writeUnauthorized(w, logger, r, "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeUnauthorized(w, logger, r, "Invalid or expired token")
				return
			}

			curatorID, err := id.ParseCuratorID(claims.CuratorID)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - bad curator claim",
					"request_id", requestID,
				)
				writeUnauthorized(w, logger, r, "Invalid or expired token")
				return
			}

			ctx = requestcontext.WithCuratorID(ctx, curatorID)
			if claims.APIVersion != "" {
				if v, err := id.ParseAPIVersion(claims.APIVersion); err == nil {
					ctx = requestcontext.WithTokenAPIVersion(ctx, v)
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, logger *slog.Logger, r *http.Request, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, err := w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to write unauthorized response",
			"error", err,
			"request_id", GetRequestID(r.Context()),
		)
	}
}
