package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	githubendpoint "golang.org/x/oauth2/github"
)

const githubAPIBaseURL = "https://api.github.com"

// GitHub delegates authentication to GitHub. GitHub is plain OAuth2 (no ID
// token), so the verified identity comes from the user API fetched with the
// exchanged access token.
type GitHub struct {
	oauthConfig *oauth2.Config
	apiBaseURL  string
}

var _ Exchanger = (*GitHub)(nil)

// GitHubOption defines a function type to modify the GitHub instance.
type GitHubOption func(*GitHub)

// WithGitHubAPIBaseURL points the identity fetch at a different API host
// (primarily for testing).
func WithGitHubAPIBaseURL(baseURL string) GitHubOption {
	return func(g *GitHub) {
		g.apiBaseURL = baseURL
	}
}

// WithGitHubEndpoint overrides the OAuth2 endpoint (primarily for testing).
func WithGitHubEndpoint(endpoint oauth2.Endpoint) GitHubOption {
	return func(g *GitHub) {
		g.oauthConfig.Endpoint = endpoint
	}
}

func NewGitHub(clientID, clientSecret, redirectURL string, options ...GitHubOption) *GitHub {
	github := &GitHub{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     githubendpoint.Endpoint,
			RedirectURL:  redirectURL,
			Scopes:       []string{"read:user", "user:email"},
		},
		apiBaseURL: githubAPIBaseURL,
	}

	for _, opt := range options {
		opt(github)
	}

	return github
}

func (g *GitHub) Name() string { return "github" }

func (g *GitHub) AuthCodeURL(state string) string {
	return g.oauthConfig.AuthCodeURL(state)
}

func (g *GitHub) Exchange(ctx context.Context, code string) (*Identity, error) {
	oauth2Token, err := g.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("[GitHub.Exchange] token exchange: %w", err)
	}

	client := g.oauthConfig.Client(ctx, oauth2Token)

	var profile struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := g.getJSON(ctx, client, "/user", &profile); err != nil {
		return nil, fmt.Errorf("[GitHub.Exchange] fetch profile: %w", err)
	}

	email := profile.Email
	if email == "" {
		// The profile email is empty when the user keeps it private; the
		// emails endpoint still lists it for the user:email scope.
		email, err = g.primaryEmail(ctx, client)
		if err != nil {
			return nil, fmt.Errorf("[GitHub.Exchange] fetch emails: %w", err)
		}
	}

	name := profile.Name
	if name == "" {
		name = profile.Login
	}

	return &Identity{
		Provider:  g.Name(),
		Subject:   strconv.FormatInt(profile.ID, 10),
		Email:     email,
		Name:      name,
		AvatarURL: profile.AvatarURL,
	}, nil
}

func (g *GitHub) primaryEmail(ctx context.Context, client *http.Client) (string, error) {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := g.getJSON(ctx, client, "/user/emails", &emails); err != nil {
		return "", err
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	if len(emails) > 0 {
		return emails[0].Email, nil
	}
	return "", nil
}

func (g *GitHub) getJSON(ctx context.Context, client *http.Client, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiBaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
