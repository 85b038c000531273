package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/codenameuriel/exo-intel/pkg/domain"
	"github.com/google/uuid"
)

// KeyPrefix is the Authorization scheme for API keys.
const KeyPrefix = "Api-Key"

const (
	msgBadPrefix  = `Invalid API key prefix. Must be "Api-Key".`
	msgBadFormat  = "Invalid Authorization header format."
	msgInvalidKey = "Invalid API Key provided."
)

type userKey struct{}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user domain.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the user set by the authentication middleware.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(userKey{}).(domain.User)
	return user, ok
}

// parseAPIKey extracts the key from "Api-Key <uuid>". The returned string is
// the client-facing message on failure.
func parseAPIKey(header string) (uuid.UUID, string) {
	parts := strings.Fields(header)
	if len(parts) == 0 {
		return uuid.Nil, msgBadFormat
	}
	if !strings.EqualFold(parts[0], KeyPrefix) {
		return uuid.Nil, msgBadPrefix
	}
	if len(parts) != 2 {
		return uuid.Nil, msgBadFormat
	}
	key, err := uuid.Parse(parts[1])
	if err != nil {
		return uuid.Nil, msgInvalidKey
	}
	return key, ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", KeyPrefix)
	writeError(w, http.StatusUnauthorized, CodeAuthentication, message, nil)
}

// authenticate resolves the Authorization header when one is sent. Requests
// without the header pass through anonymously; a header that does not resolve
// to an active user is rejected even on public routes.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		key, msg := parseAPIKey(header)
		if msg != "" {
			unauthorized(w, msg)
			return
		}
		user, err := s.users.Authenticate(r.Context(), key)
		if errors.Is(err, domain.ErrUnauthorized) {
			unauthorized(w, msgInvalidKey)
			return
		}
		if err != nil {
			writeDomainError(w, r, s.logger, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// requireUser rejects anonymous requests.
func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			unauthorized(w, msgNoCredential)
			return
		}
		next.ServeHTTP(w, r)
	})
}
