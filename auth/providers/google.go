package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const googleIssuer = "https://accounts.google.com"

// Google delegates authentication to Google via OIDC: the authorization code
// is exchanged for tokens and the ID token is verified against Google's
// published keys before any claim is trusted.
type Google struct {
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
}

var _ Exchanger = (*Google)(nil)

// GoogleOption defines a function type to modify the Google construction.
type GoogleOption func(*googleSettings)

type googleSettings struct {
	issuer string
}

// WithGoogleIssuer points OIDC discovery at a different issuer (primarily
// for testing).
func WithGoogleIssuer(issuer string) GoogleOption {
	return func(s *googleSettings) {
		s.issuer = issuer
	}
}

// NewGoogle runs OIDC discovery against the Google issuer and configures the
// code-exchange flow.
func NewGoogle(ctx context.Context, clientID, clientSecret, redirectURL string, options ...GoogleOption) (*Google, error) {
	settings := &googleSettings{issuer: googleIssuer}
	for _, opt := range options {
		opt(settings)
	}

	provider, err := oidc.NewProvider(ctx, settings.issuer)
	if err != nil {
		return nil, fmt.Errorf("[NewGoogle] oidc discovery: %w", err)
	}

	return &Google{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  redirectURL,
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

func (g *Google) Name() string { return "google" }

func (g *Google) AuthCodeURL(state string) string {
	return g.oauthConfig.AuthCodeURL(state)
}

func (g *Google) Exchange(ctx context.Context, code string) (*Identity, error) {
	oauth2Token, err := g.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("[Google.Exchange] token exchange: %w", err)
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return nil, errors.New("[Google.Exchange] no ID token in response")
	}

	idToken, err := g.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("[Google.Exchange] ID token verification: %w", err)
	}

	var claims struct {
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("[Google.Exchange] extract claims: %w", err)
	}

	return &Identity{
		Provider:  g.Name(),
		Subject:   claims.Sub,
		Email:     claims.Email,
		Name:      claims.Name,
		AvatarURL: claims.Picture,
	}, nil
}
