package adapthttp

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gatekeeper/internal/app"
	"gatekeeper/internal/domain"
)

type contextKey string

const identityContextKey contextKey = "identity"

// sessionCookieName is the cookie the login handler sets and the middleware
// falls back to when no bearer header is present.
const sessionCookieName = "access_token"

// authMiddleware resolves the request's credentials to an identity.
// The Authorization bearer token takes precedence; the session cookie is the
// fallback. The specific failure (expired, untrusted, unknown subject) is
// logged but never sent to the client.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := s.auth.Resolve(r.Context(), bearerToken(r), cookieToken(r))
		if errors.Is(err, app.ErrUnauthenticated) {
			s.log.Debug().Err(err).Str("path", r.URL.Path).Msg("request rejected")
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		if err != nil {
			s.log.Error().Err(err).Str("path", r.URL.Path).Msg("authentication failed")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header, or returns "" when the header is absent or uses another scheme.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// cookieToken returns the session cookie value, or "" when absent.
func cookieToken(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// identityFrom returns the identity stored by authMiddleware.
func identityFrom(ctx context.Context) *domain.Identity {
	identity, _ := ctx.Value(identityContextKey).(*domain.Identity)
	return identity
}
