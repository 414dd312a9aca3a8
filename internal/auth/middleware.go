package auth

import (
	"context"
	"net/http"
)

// contextKey is package-private so no other package can read or shadow the
// values this middleware stores in the request context.
type contextKey string

const userIDKey contextKey = "userID"

// CookieName is the session cookie holding the JWT. HttpOnly keeps it away
// from page scripts.
const CookieName = "token"

// RequireAuth enforces a valid session on protected routes: it reads the
// JWT cookie, validates it, and stores the user ID in the request context.
// Missing or invalid tokens end the chain with 401.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth extracts the user identity when a valid token is present but
// never blocks the request. Public routes use it so logged-in users get
// ownership attached while anonymous requests still work.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, err := extractUserID(r, tokens); err == nil && userID != "" {
				r = r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext returns the authenticated user's ID, or ("", false) for
// anonymous requests.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", err
	}
	return tokens.Validate(cookie.Value)
}
