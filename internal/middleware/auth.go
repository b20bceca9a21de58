package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"taskmanager/internal/auth"
	"taskmanager/internal/models"

	"github.com/google/uuid"
)

type AuthenticatedUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

const userKey contextKey = "user"

// UserLoader resolves a token's subject to a live user; soft-deleted
// accounts do not authenticate.
type UserLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type Authenticator struct {
	tokens *auth.Manager
	users  UserLoader
}

func NewAuthenticator(tokens *auth.Manager, users UserLoader) *Authenticator {
	return &Authenticator{
		tokens: tokens,
		users:  users,
	}
}

func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			unauthorized(w, "authorization token is required")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(w, "authorization header format must be Bearer {token}")
			return
		}

		userID, err := a.tokens.Verify(parts[1])
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}

		user, err := a.users.GetByID(r.Context(), userID)
		if err != nil {
			unauthorized(w, "invalid token (user not found)")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, AuthenticatedUser{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func UserFromContext(ctx context.Context) (AuthenticatedUser, bool) {
	user, ok := ctx.Value(userKey).(AuthenticatedUser)
	return user, ok
}

// WithUser is used by tests to place an authenticated user into a
// request context without running the middleware.
func WithUser(ctx context.Context, user AuthenticatedUser) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"error":   "UNAUTHORIZED",
		"message": message,
	})
}
