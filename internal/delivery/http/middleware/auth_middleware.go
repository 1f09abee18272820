package middleware

import (
	"context"
	"net/http"

	"shipquote-backend/internal/domain"
	"shipquote-backend/pkg/utils"
)

// AuthMiddleware validates the admin JWT and attaches the caller to the
// request context. Claims are trusted as-is; there is no user store to
// re-check against in this service.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := utils.ExtractClaims(r)
		if err != nil {
			http.Error(w, "Unauthorized: Invalid or missing token", http.StatusUnauthorized)
			return
		}

		user := &domain.User{
			ID:    claims.UserID,
			Email: claims.Email,
			Role:  claims.Role,
		}

		ctx := context.WithValue(r.Context(), domain.UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
