package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"

	"github.com/skillshare/backend/internal/models"
)

type contextKey string

const (
	UserIDKey    contextKey = "userID"
	UserEmailKey contextKey = "userEmail"
)

// FirebaseAuth validates the Bearer ID token on every request and stores
// the verified {uid, email} pair in the request context. Identity is never
// derived from client-supplied body fields.
func FirebaseAuth(authClient *fbauth.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				writeAuthError(w, "Access token required")
				return
			}
			if authClient == nil {
				writeAuthError(w, "Authentication is not configured")
				return
			}

			decoded, err := authClient.VerifyIDToken(r.Context(), token)
			if err != nil {
				writeAuthError(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithIdentity(r.Context(), decoded)))
		})
	}
}

// OptionalAuth attaches identity when a valid token is present and
// continues anonymously otherwise. Used on public browse/search endpoints.
func OptionalAuth(authClient *fbauth.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token != "" && authClient != nil {
				if decoded, err := authClient.VerifyIDToken(r.Context(), token); err == nil {
					r = r.WithContext(contextWithIdentity(r.Context(), decoded))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func contextWithIdentity(ctx context.Context, token *fbauth.Token) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, token.UID)
	if email, ok := token.Claims["email"].(string); ok {
		ctx = context.WithValue(ctx, UserEmailKey, email)
	}
	return ctx
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetUserID extracts the verified Firebase UID from context
func GetUserID(ctx context.Context) string {
	userID, ok := ctx.Value(UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}

// GetUserEmail extracts the verified email from context
func GetUserEmail(ctx context.Context) string {
	email, ok := ctx.Value(UserEmailKey).(string)
	if !ok {
		return ""
	}
	return email
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(models.NewErrorResponse(message))
}
