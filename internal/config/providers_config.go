package config

// ProvidersConfig surfaces the OAuth client credentials for the external
// identity providers. Values are passed through opaquely; a provider with an
// empty client ID is simply not registered.
type ProvidersConfig interface {
	GetGoogleClientID() string
	GetGoogleClientSecret() string
	GetGitHubClientID() string
	GetGitHubClientSecret() string
}

type Providers struct{}

var _ ProvidersConfig = Providers{}

func (Providers) GetGoogleClientID() string {
	return GetEnv("AUTH_GOOGLE_ID", "")
}

func (Providers) GetGoogleClientSecret() string {
	return GetEnv("AUTH_GOOGLE_SECRET", "")
}

func (Providers) GetGitHubClientID() string {
	return GetEnv("AUTH_GITHUB_ID", "")
}

func (Providers) GetGitHubClientSecret() string {
	return GetEnv("AUTH_GITHUB_SECRET", "")
}
