package http

import (
	"context"
	"net"
	"net/http"

	"github.com/vncsmyrnk/clubvote/internal/core/domain"
	"github.com/vncsmyrnk/clubvote/internal/core/services"
)

type contextKey int

const identityKey contextKey = 1

// Authenticate resolves the identity from the access_token cookie, if
// present, and records the client address for audit trails. It never
// rejects; RequireIdentity does that where a route needs a caller.
func Authenticate(auth *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			ctx := domain.ContextWithClientIP(r.Context(), ip)

			if cookie, err := r.Cookie("access_token"); err == nil && cookie.Value != "" {
				if identity, err := auth.ParseIdentity(cookie.Value); err == nil {
					ctx = context.WithValue(ctx, identityKey, identity)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := identityFrom(r); !ok {
			http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func identityFrom(r *http.Request) (domain.Identity, bool) {
	identity, ok := r.Context().Value(identityKey).(domain.Identity)
	return identity, ok
}
