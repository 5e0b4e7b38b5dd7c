package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pratik-mahalle/nutriscan/internal/domain/user"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/errors"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/utils"
)

// ContextKey is a custom type for context keys
type ContextKey string

const (
	// UserIDKey is the context key for user ID
	UserIDKey ContextKey = "userID"
	// UserKey is the context key for the signed-in user
	UserKey ContextKey = "user"
	// TokenKey is the context key for the raw session token
	TokenKey ContextKey = "token"
)

// TokenCookie is the cookie the web client stores the session token in
const TokenCookie = "accessToken"

// Authenticator resolves a session token to its user
type Authenticator interface {
	CurrentUser(ctx context.Context, token string) (*user.User, error)
}

// AuthMiddleware returns a middleware that requires a live session
func AuthMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := TokenFromRequest(r)
			if tokenStr == "" {
				utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
				return
			}

			u, err := auth.CurrentUser(r.Context(), tokenStr)
			if err != nil {
				utils.WriteErr(w, err)
				return
			}

			ctx := WithUser(r.Context(), u, tokenStr)

			AddLogField(r, "user_id", u.ID)
			if u.IsGuest {
				AddLogField(r, "guest", true)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenFromRequest reads a bearer token, falling back to the cookie
func TokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := r.Cookie(TokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// WithUser stores the signed-in user on ctx
func WithUser(ctx context.Context, u *user.User, token string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, u.ID)
	ctx = context.WithValue(ctx, UserKey, u)
	return context.WithValue(ctx, TokenKey, token)
}

// GetUserID extracts the user ID from the request context
func GetUserID(r *http.Request) (string, bool) {
	userID, ok := r.Context().Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

// GetUser extracts the signed-in user from the request context
func GetUser(r *http.Request) (*user.User, bool) {
	u, ok := r.Context().Value(UserKey).(*user.User)
	return u, ok
}

// GetToken extracts the session token from the request context
func GetToken(r *http.Request) string {
	token, _ := r.Context().Value(TokenKey).(string)
	return token
}
