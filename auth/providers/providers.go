// Package providers implements the external identity delegation layer: a
// third-party provider authenticates the user and hands back a verified
// identity which the authenticator links to a local account. Provider
// credentials are injected at construction and passed through opaquely.
package providers

import "context"

// Identity is a provider-verified user identity.
type Identity struct {
	Provider  string
	Subject   string
	Email     string
	Name      string
	AvatarURL string
}

// Exchanger swaps an authorization code for a verified identity.
type Exchanger interface {
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Identity, error)
}

// Registry holds the configured providers keyed by name.
type Registry map[string]Exchanger

func (r Registry) Register(e Exchanger) {
	r[e.Name()] = e
}

func (r Registry) Lookup(name string) (Exchanger, bool) {
	e, ok := r[name]
	return e, ok
}
