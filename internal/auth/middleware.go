package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/expeditoe/backend/internal/httputil"
)

// Identity is the verified caller identity the middleware injects into the
// request context.
type Identity struct {
	ID    uuid.UUID
	Email string
	Name  string
}

type contextKey string

const identityContextKey contextKey = "identity"

// Middleware guards routes that require a verified bearer token.
type Middleware struct {
	tokens TokenService
}

func NewMiddleware(tokens TokenService) *Middleware {
	return &Middleware{tokens: tokens}
}

// RequireAuth validates the Authorization header and injects the caller
// identity. Every failure mode (missing header, malformed header, bad
// signature, expired token, bad claims) produces the same response so
// nothing about the specific check leaks to the client.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			respondUnauthorized(w)
			return
		}

		claims, err := m.tokens.VerifyToken(parts[1])
		if err != nil {
			respondUnauthorized(w)
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			respondUnauthorized(w)
			return
		}

		identity := Identity{
			ID:    userID,
			Email: claims.Email,
			Name:  claims.Name,
		}

		ctx := context.WithValue(r.Context(), identityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func respondUnauthorized(w http.ResponseWriter) {
	httputil.RespondErrorWithCode(w, "User not authorized", httputil.CodeUnauthorized, http.StatusUnauthorized)
}

// IdentityFromContext extracts the verified caller identity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(Identity)
	return identity, ok
}
