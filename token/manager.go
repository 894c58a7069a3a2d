package token

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/inkstream/auth-server/accounts"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
)

// Claims carried by a session token. The subject is always the user's
// identifier; the rest are profile claims copied into the reconstructed
// session untouched.
type Claims struct {
	jwtlib.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Image string `json:"image,omitempty"`
}

// Manager issues and verifies HS256-signed session tokens. The signing
// secret is injected at construction and never read from ambient state.
type Manager struct {
	secret  []byte
	expiry  time.Duration
	nowTime func() time.Time // nowTime function (injectable for testing)
}

// Option defines a function type to modify the Manager instance.
type Option func(*Manager)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// NewManager creates a session token manager signing with secret. Tokens
// expire after expiry.
func NewManager(secret []byte, expiry time.Duration, options ...Option) (*Manager, error) {
	if len(secret) == 0 {
		return nil, errors.New("[token.NewManager] signing secret is required")
	}
	if expiry <= 0 {
		return nil, errors.New("[token.NewManager] expiry must be positive")
	}

	manager := &Manager{
		secret:  secret,
		expiry:  expiry,
		nowTime: time.Now,
	}

	for _, opt := range options {
		opt(manager)
	}

	return manager, nil
}

// Issue signs a fresh session token for an authenticated user. A new token
// is minted on every successful authentication, whether by password or by an
// external-provider callback.
func (m *Manager) Issue(user *accounts.User) (string, error) {
	now := m.nowTime()
	claims := Claims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.New().String(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(m.expiry)),
		},
		Name:  user.Name,
		Email: user.Email,
		Image: user.Image,
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("[Manager.Issue] sign token: %w", err)
	}
	return signed, nil
}

// Session verifies rawToken and reconstructs the session object from it: the
// token's subject becomes the session's user identifier, the profile claims
// are copied across untouched.
func (m *Manager) Session(rawToken string) (*Session, error) {
	claims := &Claims{}
	parsed, err := jwtlib.ParseWithClaims(rawToken, claims, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return m.secret, nil
	}, jwtlib.WithTimeFunc(m.nowTime))
	if err != nil {
		return nil, fmt.Errorf("[Manager.Session] %w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	session := &Session{
		User: SessionUser{
			ID:    claims.Subject,
			Name:  claims.Name,
			Email: claims.Email,
			Image: claims.Image,
		},
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}
