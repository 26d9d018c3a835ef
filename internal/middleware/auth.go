package middleware

import (
	"context"
	"net/http"

	"byteshop-be/internal/auth"
)

type contextKey string

const (
	CustomerIDKey contextKey = "customer_id"
	RoleKey       contextKey = "role"
)

// AuthMiddleware attaches the customer identity to the request context when a
// valid token is present. Requests without a token pass through anonymous;
// handlers that need an identity reject them individually.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := auth.ExtractAccessToken(r)
		if tokenStr == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), CustomerIDKey, claims.CustomerID)
		ctx = context.WithValue(ctx, RoleKey, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CustomerIDFromContext retrieves the acting customer safely.
func CustomerIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(CustomerIDKey).(uint)
	return id, ok
}

func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(RoleKey).(string)
	return role
}
