package server

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/url"

	"github.com/inkstream/auth-server/accounts"
)

const (
	// sessionCookieName carries the signed session token.
	sessionCookieName = "session_token"
	// oauthStateCookieName tracks the CSRF state of an in-flight provider flow.
	oauthStateCookieName = "oauth_state"
)

// generateRandomString creates a random base64url string
func generateRandomString(length int) string {
	b := make([]byte, length)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func (s *Server) SetSessionCookie(w http.ResponseWriter, rawToken string, r *http.Request, maxAge int) {
	isSecure := getScheme(r) == "https"

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    rawToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

func (s *Server) ClearSessionCookie(w http.ResponseWriter, r *http.Request) {
	s.SetSessionCookie(w, "", r, -1)
}

func (s *Server) SetOAuthStateCookie(w http.ResponseWriter, state string, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // long enough for the round trip to the provider
	})
}

func (s *Server) ClearOAuthStateCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// issueSession mints a fresh session token for an authenticated user and
// sets the session cookie. Issuance happens on every successful
// authentication, by password or by provider callback alike.
func (s *Server) issueSession(w http.ResponseWriter, r *http.Request, user *accounts.User) error {
	rawToken, err := s.tokens.Issue(user)
	if err != nil {
		return err
	}
	s.SetSessionCookie(w, rawToken, r, int(s.config.GetSessionMaxAge().Seconds()))
	return nil
}

// redirectAuthError routes the user to the error-display surface with a
// machine-readable error code.
func (s *Server) redirectAuthError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, RouteAuthError+"?error="+url.QueryEscape(code), http.StatusSeeOther)
}
