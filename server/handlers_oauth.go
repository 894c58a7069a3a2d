package server

import (
	"net/http"

	"github.com/inkstream/auth-server/auth"
	"github.com/rs/zerolog/log"
)

// ProviderStartHandler begins the delegation flow for an external identity
// provider: a CSRF state is minted, stored in a short-lived cookie, and the
// user is sent to the provider's consent page.
func (s *Server) ProviderStartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		exchanger, ok := s.providers.Lookup(r.PathValue("provider"))
		if !ok {
			s.redirectAuthError(w, r, auth.CodeOAuthSignin)
			return
		}

		state := generateRandomString(32)
		s.SetOAuthStateCookie(w, state, r)

		http.Redirect(w, r, exchanger.AuthCodeURL(state), http.StatusFound)
	}
}

// ProviderCallbackHandler completes the delegation flow: state is validated,
// the code exchanged for a verified identity, the identity linked to a local
// user, and a session issued, the same downstream step as a password
// sign-in.
func (s *Server) ProviderCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		exchanger, ok := s.providers.Lookup(r.PathValue("provider"))
		if !ok {
			s.redirectAuthError(w, r, auth.CodeOAuthSignin)
			return
		}

		if errorParam := r.URL.Query().Get("error"); errorParam != "" {
			log.Warn().Str("provider", exchanger.Name()).Str("error", errorParam).Msg("provider returned an error")
			s.redirectAuthError(w, r, auth.CodeOAuthCallback)
			return
		}

		code := r.URL.Query().Get("code")
		state := r.URL.Query().Get("state")
		if code == "" || state == "" {
			s.redirectAuthError(w, r, auth.CodeOAuthCallback)
			return
		}

		stateCookie, err := r.Cookie(oauthStateCookieName)
		if err != nil || stateCookie.Value == "" || stateCookie.Value != state {
			s.redirectAuthError(w, r, auth.CodeOAuthCallback)
			return
		}
		// State is single use.
		s.ClearOAuthStateCookie(w, r)

		identity, err := exchanger.Exchange(r.Context(), code)
		if err != nil {
			log.Err(err).Str("provider", exchanger.Name()).Msg("code exchange failed")
			s.redirectAuthError(w, r, auth.CodeOAuthCallback)
			return
		}

		user, err := s.auth.LinkExternalIdentity(r.Context(), identity.Email, identity.Name, identity.AvatarURL)
		if err != nil {
			log.Err(err).Str("provider", exchanger.Name()).Msg("account linking failed")
			s.redirectAuthError(w, r, auth.CodeOAuthCreateAccount)
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
