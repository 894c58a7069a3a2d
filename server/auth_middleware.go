package server

import (
	"context"
	"net/http"

	"github.com/inkstream/auth-server/token"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionMiddleware reconstructs the session object from the session cookie
// and attaches it to the request context. Requests without a valid token
// proceed signed out; a stale or tampered cookie is dropped.
func (s *Server) SessionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			next(w, r)
			return
		}

		session, err := s.tokens.Session(cookie.Value)
		if err != nil {
			s.ClearSessionCookie(w, r)
			next(w, r)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), sessionContextKey, session)))
	}
}

// SessionFromContext returns the session attached by SessionMiddleware, if
// any. Rendering branches purely on its presence or absence.
func SessionFromContext(ctx context.Context) (*token.Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(*token.Session)
	return session, ok
}
