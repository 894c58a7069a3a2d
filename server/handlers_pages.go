package server

import (
	"net/http"
	"sort"

	"github.com/inkstream/auth-server/auth"
	"github.com/inkstream/auth-server/token"
	"github.com/rs/zerolog/log"
)

// errorMessages maps the fixed set of machine-readable error codes to the
// human-readable strings shown on the error page.
var errorMessages = map[string]string{
	auth.CodeOAuthSignin:           "Error starting OAuth sign in",
	auth.CodeOAuthCallback:         "Error during OAuth callback",
	auth.CodeOAuthCreateAccount:    "Error creating OAuth account",
	auth.CodeEmailCreateAccount:    "Error creating email account",
	auth.CodeCallback:              "Error during callback",
	auth.CodeOAuthAccountNotLinked: "Email already used with different provider",
	auth.CodeEmailSignin:           "Error sending email sign in link",
	auth.CodeCredentialsSignin:     "Invalid credentials",
	auth.CodeSessionRequired:       "Please sign in to access this page",
	auth.CodeDefault:               "Unable to sign in",
}

const fallbackErrorMessage = "An error occurred during authentication"

// ErrorMessageFor resolves an error code to its user-facing message.
func ErrorMessageFor(code string) string {
	if message, ok := errorMessages[code]; ok {
		return message
	}
	return fallbackErrorMessage
}

// LandingPageData contains data for rendering the landing page
type LandingPageData struct {
	AppName string
	Session *token.Session
}

// IndexHandler displays the landing page (GET /)
func (s *Server) IndexHandler() http.HandlerFunc {
	landingTmpl, err := ParseTemplate("landing.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse landing template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := SessionFromContext(r.Context())
		data := LandingPageData{
			AppName: s.config.GetAppName(),
			Session: session,
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := landingTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render landing template")
			http.Error(w, "Failed to render landing page", http.StatusInternalServerError)
		}
	}
}

// SignInPageData contains data for rendering the sign-in page
type SignInPageData struct {
	AppName   string
	Error     string
	Email     string // Preserve email on error
	Providers []string
}

// SignInPageHandler displays the combined sign-in / sign-up page
// (GET /auth/signin)
func (s *Server) SignInPageHandler() http.HandlerFunc {
	signInTmpl, err := ParseTemplate("signin.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse signin template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		// Already signed in, nothing to do here
		if _, ok := SessionFromContext(r.Context()); ok {
			http.Redirect(w, r, RouteLanding, http.StatusSeeOther)
			return
		}

		providerNames := make([]string, 0, len(s.providers))
		for name := range s.providers {
			providerNames = append(providerNames, name)
		}
		sort.Strings(providerNames)

		data := SignInPageData{
			AppName:   s.config.GetAppName(),
			Email:     r.URL.Query().Get("email"),
			Providers: providerNames,
		}
		if code := r.URL.Query().Get("error"); code != "" {
			data.Error = ErrorMessageFor(code)
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := signInTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render signin template")
			http.Error(w, "Failed to render sign in page", http.StatusInternalServerError)
		}
	}
}

// ErrorPageData contains data for rendering the error page
type ErrorPageData struct {
	AppName string
	Code    string
	Message string
}

// AuthErrorPageHandler displays the authentication error page
// (GET /auth/error). The machine-readable code arrives on the query string
// and is mapped to one of the fixed human-readable messages.
func (s *Server) AuthErrorPageHandler() http.HandlerFunc {
	errorTmpl, err := ParseTemplate("error.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse error template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("error")
		data := ErrorPageData{
			AppName: s.config.GetAppName(),
			Code:    code,
			Message: ErrorMessageFor(code),
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := errorTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render error template")
			http.Error(w, "Failed to render error page", http.StatusInternalServerError)
		}
	}
}
