package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkstream/auth-server/accounts"
	"github.com/inkstream/auth-server/auth/providers"
	"github.com/inkstream/auth-server/auth/storefake"
	"github.com/inkstream/auth-server/internal/config"
)

const (
	testUserEmail    = "reader@example.com"
	testUserPassword = "Secret123"
	testUserName     = "Reader"
)

type testFixture struct {
	server *Server
	store  *storefake.FakeStore
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	t.Setenv("AUTH_SECRET", "test-signing-secret")
	t.Setenv("ENV", "TEST")

	store := storefake.New()
	srv, err := New(config.New(), store, nil)
	require.NoError(t, err)

	return &testFixture{server: srv, store: store}
}

// postCredentials submits the credentials form and returns the recorded
// response.
func (f *testFixture) postCredentials(mode, email, password, name string) *httptest.ResponseRecorder {
	form := url.Values{}
	form.Set("mode", mode)
	form.Set("email", email)
	form.Set("password", password)
	form.Set("name", name)

	req := httptest.NewRequest(http.MethodPost, RouteCredentials, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	f.server.ServeHTTP(rr, req)
	return rr
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == sessionCookieName {
			return cookie
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestSignUpRedirectsAndSetsSessionCookie(t *testing.T) {
	fixture := setupTestFixture(t)

	rr := fixture.postCredentials("signup", testUserEmail, testUserPassword, testUserName)

	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, RouteLanding, rr.Header().Get("Location"))

	cookie := sessionCookie(t, rr)
	require.NotEmpty(t, cookie.Value)
	require.True(t, cookie.HttpOnly)
}

func TestSessionEndpointReturnsSignedInUser(t *testing.T) {
	fixture := setupTestFixture(t)

	signUp := fixture.postCredentials("signup", testUserEmail, testUserPassword, testUserName)
	cookie := sessionCookie(t, signUp)

	req := httptest.NewRequest(http.MethodGet, RouteSession, nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	fixture.server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var payload struct {
		User struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	require.NotEmpty(t, payload.User.ID)
	require.Equal(t, testUserEmail, payload.User.Email)
	require.Equal(t, testUserName, payload.User.Name)
}

func TestSessionEndpointSignedOut(t *testing.T) {
	fixture := setupTestFixture(t)

	req := httptest.NewRequest(http.MethodGet, RouteSession, nil)
	rr := httptest.NewRecorder()
	fixture.server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "null", strings.TrimSpace(rr.Body.String()))
}

func TestSignInWithCorrectPassword(t *testing.T) {
	fixture := setupTestFixture(t)
	fixture.postCredentials("signup", testUserEmail, testUserPassword, testUserName)

	rr := fixture.postCredentials("signin", testUserEmail, testUserPassword, "")

	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, RouteLanding, rr.Header().Get("Location"))
	require.NotEmpty(t, sessionCookie(t, rr).Value)
}

func TestSignInWrongPasswordRedirectsToErrorPage(t *testing.T) {
	fixture := setupTestFixture(t)
	fixture.postCredentials("signup", testUserEmail, testUserPassword, testUserName)

	rr := fixture.postCredentials("signin", testUserEmail, "wrong-password", "")

	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, RouteAuthError+"?error=CredentialsSignin", rr.Header().Get("Location"))

	for _, cookie := range rr.Result().Cookies() {
		require.NotEqual(t, sessionCookieName, cookie.Name, "no session cookie on failed sign in")
	}
}

func TestSignUpDuplicateEmailRedirectsToErrorPage(t *testing.T) {
	fixture := setupTestFixture(t)
	fixture.postCredentials("signup", testUserEmail, testUserPassword, testUserName)

	rr := fixture.postCredentials("signup", testUserEmail, "OtherSecret", "Somebody Else")

	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, RouteAuthError+"?error=EmailCreateAccount", rr.Header().Get("Location"))
}

func TestSignUpMissingNameRedirectsToErrorPage(t *testing.T) {
	fixture := setupTestFixture(t)

	rr := fixture.postCredentials("signup", testUserEmail, testUserPassword, "")

	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, RouteAuthError+"?error=CredentialsSignin", rr.Header().Get("Location"))
}

func TestErrorPageRendersMessageForCode(t *testing.T) {
	fixture := setupTestFixture(t)

	req := httptest.NewRequest(http.MethodGet, RouteAuthError+"?error=CredentialsSignin", nil)
	rr := httptest.NewRecorder()
	fixture.server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "Invalid credentials")
}

func TestErrorPageFallsBackForUnknownCode(t *testing.T) {
	fixture := setupTestFixture(t)

	req := httptest.NewRequest(http.MethodGet, RouteAuthError+"?error=NoSuchCode", nil)
	rr := httptest.NewRecorder()
	fixture.server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), fallbackErrorMessage)
}

func TestSignOutClearsSessionCookie(t *testing.T) {
	fixture := setupTestFixture(t)
	signUp := fixture.postCredentials("signup", testUserEmail, testUserPassword, testUserName)

	req := httptest.NewRequest(http.MethodGet, RouteSignOut, nil)
	req.AddCookie(sessionCookie(t, signUp))
	rr := httptest.NewRecorder()
	fixture.server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusSeeOther, rr.Code)
	cleared := sessionCookie(t, rr)
	require.Empty(t, cleared.Value)
	require.Negative(t, cleared.MaxAge)
}

func TestLandingPageBranchesOnSession(t *testing.T) {
	fixture := setupTestFixture(t)
	signUp := fixture.postCredentials("signup", testUserEmail, testUserPassword, testUserName)

	signedOut := httptest.NewRecorder()
	fixture.server.ServeHTTP(signedOut, httptest.NewRequest(http.MethodGet, RouteLanding, nil))
	require.Equal(t, http.StatusOK, signedOut.Code)
	require.Contains(t, signedOut.Body.String(), "Sign in")

	req := httptest.NewRequest(http.MethodGet, RouteLanding, nil)
	req.AddCookie(sessionCookie(t, signUp))
	signedIn := httptest.NewRecorder()
	fixture.server.ServeHTTP(signedIn, req)
	require.Equal(t, http.StatusOK, signedIn.Code)
	require.Contains(t, signedIn.Body.String(), testUserEmail)
	require.Contains(t, signedIn.Body.String(), "Sign out")
}

func TestSignInPageRedirectsWhenAlreadySignedIn(t *testing.T) {
	fixture := setupTestFixture(t)
	signUp := fixture.postCredentials("signup", testUserEmail, testUserPassword, testUserName)

	req := httptest.NewRequest(http.MethodGet, RouteSignIn, nil)
	req.AddCookie(sessionCookie(t, signUp))
	rr := httptest.NewRecorder()
	fixture.server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, RouteLanding, rr.Header().Get("Location"))
}

func TestTamperedSessionCookieTreatedAsSignedOut(t *testing.T) {
	fixture := setupTestFixture(t)

	req := httptest.NewRequest(http.MethodGet, RouteSession, nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "not-a-real-token"})
	rr := httptest.NewRecorder()
	fixture.server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "null", strings.TrimSpace(rr.Body.String()))

	cleared := sessionCookie(t, rr)
	require.Negative(t, cleared.MaxAge)
}

func TestUnknownProviderRedirectsToErrorPage(t *testing.T) {
	fixture := setupTestFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/signin/nonexistent", nil)
	rr := httptest.NewRecorder()
	fixture.server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, RouteAuthError+"?error=OAuthSignin", rr.Header().Get("Location"))
}

func TestProviderCallbackUnknownProviderRedirects(t *testing.T) {
	fixture := setupTestFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/callback/nonexistent?code=abc&state=xyz", nil)
	rr := httptest.NewRecorder()
	fixture.server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, RouteAuthError+"?error=OAuthSignin", rr.Header().Get("Location"))
}

// stubExchanger stands in for an external identity provider in handler
// tests.
type stubExchanger struct {
	identity *providers.Identity
	err      error
}

func (s *stubExchanger) Name() string { return "stub" }

func (s *stubExchanger) AuthCodeURL(state string) string {
	return "https://provider.example/authorize?state=" + state
}

func (s *stubExchanger) Exchange(context.Context, string) (*providers.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.identity, nil
}

func setupProviderFixture(t *testing.T, exchanger providers.Exchanger) *testFixture {
	t.Helper()
	t.Setenv("AUTH_SECRET", "test-signing-secret")
	t.Setenv("ENV", "TEST")

	registry := providers.Registry{}
	registry.Register(exchanger)

	store := storefake.New()
	srv, err := New(config.New(), store, registry)
	require.NoError(t, err)

	return &testFixture{server: srv, store: store}
}

func (f *testFixture) getCallback(query string, stateCookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/auth/callback/stub?"+query, nil)
	if stateCookie != "" {
		req.AddCookie(&http.Cookie{Name: oauthStateCookieName, Value: stateCookie})
	}
	rr := httptest.NewRecorder()
	f.server.ServeHTTP(rr, req)
	return rr
}

func TestProviderStartRedirectsToConsentPage(t *testing.T) {
	fixture := setupProviderFixture(t, &stubExchanger{})

	req := httptest.NewRequest(http.MethodGet, "/auth/signin/stub", nil)
	rr := httptest.NewRecorder()
	fixture.server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusFound, rr.Code)

	var state string
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == oauthStateCookieName {
			state = cookie.Value
		}
	}
	require.NotEmpty(t, state)
	require.Equal(t, "https://provider.example/authorize?state="+state, rr.Header().Get("Location"))
}

func TestProviderCallbackCompletesSignIn(t *testing.T) {
	fixture := setupProviderFixture(t, &stubExchanger{identity: &providers.Identity{
		Provider: "stub",
		Subject:  "12345",
		Email:    testUserEmail,
		Name:     testUserName,
	}})

	rr := fixture.getCallback("code=good-code&state=state-abc", "state-abc")

	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, RouteLanding, rr.Header().Get("Location"))
	require.NotEmpty(t, sessionCookie(t, rr).Value)

	user, err := fixture.store.Repos().Users.GetByEmail(context.Background(), testUserEmail)
	require.NoError(t, err)
	require.Equal(t, testUserName, user.Name)
	// Provider-linked accounts get no credential row.
	_, err = fixture.store.Repos().Credentials.GetByUserID(context.Background(), user.ID)
	require.ErrorIs(t, err, accounts.ErrNotFound)

	// The state cookie is single use.
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == oauthStateCookieName {
			require.Negative(t, cookie.MaxAge)
		}
	}
}

func TestProviderCallbackStateMismatchRedirects(t *testing.T) {
	fixture := setupProviderFixture(t, &stubExchanger{identity: &providers.Identity{Email: testUserEmail}})

	rr := fixture.getCallback("code=good-code&state=evil", "state-abc")

	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, RouteAuthError+"?error=OAuthCallback", rr.Header().Get("Location"))
}

func TestProviderCallbackMissingStateCookieRedirects(t *testing.T) {
	fixture := setupProviderFixture(t, &stubExchanger{identity: &providers.Identity{Email: testUserEmail}})

	rr := fixture.getCallback("code=good-code&state=state-abc", "")

	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, RouteAuthError+"?error=OAuthCallback", rr.Header().Get("Location"))
}

func TestProviderCallbackProviderErrorRedirects(t *testing.T) {
	fixture := setupProviderFixture(t, &stubExchanger{})

	rr := fixture.getCallback("error=access_denied", "")

	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, RouteAuthError+"?error=OAuthCallback", rr.Header().Get("Location"))
}

func TestProviderCallbackExchangeFailureRedirects(t *testing.T) {
	fixture := setupProviderFixture(t, &stubExchanger{err: errors.New("provider unavailable")})

	rr := fixture.getCallback("code=bad-code&state=state-abc", "state-abc")

	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, RouteAuthError+"?error=OAuthCallback", rr.Header().Get("Location"))
}

func TestProviderCallbackIdentityWithoutEmailRedirects(t *testing.T) {
	fixture := setupProviderFixture(t, &stubExchanger{identity: &providers.Identity{Subject: "12345"}})

	rr := fixture.getCallback("code=good-code&state=state-abc", "state-abc")

	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, RouteAuthError+"?error=OAuthCreateAccount", rr.Header().Get("Location"))
}
