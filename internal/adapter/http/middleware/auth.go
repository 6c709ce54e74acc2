package middleware

import (
	"net/http"
	"strings"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/auth"
)

// Headers read by HeaderActor when token authentication is disabled.
const (
	UserIDHeader    = "X-User-ID"
	CompanyIDHeader = "X-Company-ID"
	RoleHeader      = "X-Role"
)

// AuthMiddleware resolves the request actor from a bearer token.
func AuthMiddleware(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeAuthError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			claims, err := jwtManager.Verify(parts[1])
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := domain.ContextWithActor(r.Context(), claims.Actor())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// HeaderActor trusts actor headers set by an upstream gateway. Only mounted
// when AUTH_ENABLED is false.
func HeaderActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := domain.Actor{
			UserID:    r.Header.Get(UserIDHeader),
			CompanyID: r.Header.Get(CompanyIDHeader),
			Role:      domain.Role(strings.ToUpper(r.Header.Get(RoleHeader))),
		}
		if err := actor.Validate(); err != nil {
			writeAuthError(w, http.StatusUnauthorized, "missing or invalid actor headers")
			return
		}

		next.ServeHTTP(w, r.WithContext(domain.ContextWithActor(r.Context(), actor)))
	})
}

// Require rejects requests whose actor role fails allowed.
func Require(allowed func(domain.Role) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := domain.ActorFromContext(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if !allowed(actor.Role) {
				writeAuthError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	code := "UNAUTHORIZED"
	if status == http.StatusForbidden {
		code = "FORBIDDEN"
	}
	_, _ = w.Write([]byte(`{"error":"` + code + `","message":"` + message + `"}`))
}
