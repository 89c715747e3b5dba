package api

import (
	"context"
	"log"
	"net/http"
	"strings"

	"bookstore/internal/auth"
	"bookstore/internal/db"
)

type contextKey string

const UserIDKey contextKey = "userID"

type Middleware struct {
	DB *db.DB
}

// Auth validates the bearer token and puts the caller's user id on the
// request context. The id is re-checked against the users table so a valid
// token does not outlive a wiped database.
func (m *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			JSONError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			JSONError(w, "Invalid authorization header", http.StatusUnauthorized)
			return
		}

		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			JSONError(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		exists, err := m.DB.UserExists(claims.UserID)
		if err != nil {
			log.Printf("auth middleware: db error checking user %d: %v", claims.UserID, err)
			JSONError(w, "Database error", http.StatusInternalServerError)
			return
		}
		if !exists {
			JSONError(w, "User not found", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetUserID(r *http.Request) (int64, bool) {
	userID, ok := r.Context().Value(UserIDKey).(int64)
	return userID, ok
}
