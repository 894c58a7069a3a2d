package server

import (
	"encoding/json"
	"net/http"

	"github.com/inkstream/auth-server/auth"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json; charset=utf-8"
)

// CredentialsHandler processes the sign-in/sign-up form submission. On
// success a session cookie is issued and the user lands on the application
// landing surface; every failure aborts the attempt and redirects to the
// error surface with a machine-readable code.
func (s *Server) CredentialsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		creds := auth.Credentials{
			Mode:     auth.Mode(r.FormValue("mode")),
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
			Name:     r.FormValue("name"),
		}

		user, err := s.auth.Authenticate(r.Context(), creds)
		if err != nil {
			log.Err(err).Str("mode", string(creds.Mode)).Msg("credential authentication failed")
			s.redirectAuthError(w, r, auth.CodeFor(err))
			return
		}

		if err := s.issueSession(w, r, user); err != nil {
			log.Err(err).Msg("failed to issue session token")
			s.redirectAuthError(w, r, auth.CodeDefault)
			return
		}

		http.Redirect(w, r, RouteLanding, http.StatusSeeOther)
	}
}

func (s *Server) SignOutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.ClearSessionCookie(w, r)
		http.Redirect(w, r, RouteLanding, http.StatusSeeOther)
	}
}

// SessionJSONHandler exposes the session object to client-side collaborators.
// Signed-out requests get a JSON null, mirroring the page chrome's
// presence/absence branch.
func (s *Server) SessionJSONHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeJSON)

		session, ok := SessionFromContext(r.Context())
		if !ok {
			_, _ = w.Write([]byte("null\n"))
			return
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"user": session.User,
		})
	}
}
