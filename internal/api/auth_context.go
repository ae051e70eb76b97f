package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
	"github.com/foodgramapp/foodgram-server/internal/service"
)

type ctxKey string

const (
	userKey    ctxKey = "user"
	sessionKey ctxKey = "session"
)

// tokenSchemes are the accepted Authorization prefixes.
var tokenSchemes = []string{"Token ", "Bearer "}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) (string, bool) {
	for _, scheme := range tokenSchemes {
		if len(header) > len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
			return strings.TrimSpace(header[len(scheme):]), true
		}
	}
	return "", false
}

// authMiddleware resolves the request's token to a user and session.
// Requests without a valid token continue anonymously; handlers that need
// a user call requireUser.
func authMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, session, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			ctx = context.WithValue(ctx, sessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// currentUser returns the authenticated user, or nil for anonymous requests.
func currentUser(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userKey).(*domain.User)
	return user
}

// requireUser returns the authenticated user or a 401.
func requireUser(ctx context.Context) (*domain.User, error) {
	user := currentUser(ctx)
	if user == nil {
		return nil, domainerrors.Unauthorized(domainerrors.ErrUnauthorized.Message)
	}
	return user, nil
}

func currentSession(ctx context.Context) *domain.Session {
	session, _ := ctx.Value(sessionKey).(*domain.Session)
	return session
}
