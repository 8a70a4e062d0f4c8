package auth

import (
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

// Verifier is the part of Issuer the guard needs.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// Authenticate rejects requests without a bearer token (401) or with one
// that fails verification (403). Verified claims are put on the context.
func Authenticate(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := BearerToken(r)
			if raw == "" {
				deny(w, http.StatusUnauthorized, "Access denied. No token provided.")
				return
			}
			claims, err := v.Verify(raw)
			if err != nil {
				deny(w, http.StatusForbidden, "Invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return requireClaim(func(c Claims) bool { return c.IsAdmin },
		"Access denied. Admin privileges required.")(next)
}

func RequireBotOwner(next http.Handler) http.Handler {
	return requireClaim(func(c Claims) bool { return c.IsBotOwner },
		"Access denied. Bot owner privileges required.")(next)
}

func requireClaim(ok func(Claims) bool, msg string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, found := FromContext(r.Context())
			if !found || !ok(c) {
				deny(w, http.StatusForbidden, msg)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
