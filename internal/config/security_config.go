package config

import "time"

type SecurityConfig interface {
	GetAuthSecret() string
	GetSessionMaxAge() time.Duration
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetAuthSecret returns the session-token signing secret.
func (Security) GetAuthSecret() string {
	return GetEnv("AUTH_SECRET", "")
}

func (Security) GetSessionMaxAge() time.Duration {
	return 30 * 24 * time.Hour // Sessions expire after 30 days
}
