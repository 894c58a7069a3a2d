package token_test

import (
	"testing"
	"time"

	"github.com/inkstream/auth-server/accounts"
	"github.com/inkstream/auth-server/token"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var testUser = &accounts.User{
	ID:    "user-1",
	Email: "a@x.com",
	Name:  "A",
	Image: "https://example.com/a.png",
}

func newManager(t *testing.T, now func() time.Time) *token.Manager {
	t.Helper()

	opts := []token.Option{}
	if now != nil {
		opts = append(opts, token.WithNowTime(now))
	}
	m, err := token.NewManager([]byte(testSecret), time.Hour, opts...)
	require.NoError(t, err)
	return m
}

func TestNewManagerRequiresSecret(t *testing.T) {
	_, err := token.NewManager(nil, time.Hour)
	require.Error(t, err)

	_, err = token.NewManager([]byte(testSecret), 0)
	require.Error(t, err)
}

func TestSessionReconstructedFromToken(t *testing.T) {
	m := newManager(t, nil)

	raw, err := m.Issue(testUser)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	session, err := m.Session(raw)
	require.NoError(t, err)
	// The subject claim is copied into the session's user identifier; the
	// profile claims come across untouched.
	require.Equal(t, testUser.ID, session.User.ID)
	require.Equal(t, testUser.Name, session.User.Name)
	require.Equal(t, testUser.Email, session.User.Email)
	require.Equal(t, testUser.Image, session.User.Image)
	require.False(t, session.ExpiresAt.IsZero())
}

func TestSessionRejectsTamperedToken(t *testing.T) {
	m := newManager(t, nil)

	raw, err := m.Issue(testUser)
	require.NoError(t, err)

	_, err = m.Session(raw + "x")
	require.ErrorIs(t, err, token.ErrInvalidToken)

	_, err = m.Session("not-a-token")
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestSessionRejectsWrongSecret(t *testing.T) {
	issuer := newManager(t, nil)
	raw, err := issuer.Issue(testUser)
	require.NoError(t, err)

	verifier, err := token.NewManager([]byte("another-secret-another-secret-xx"), time.Hour)
	require.NoError(t, err)

	_, err = verifier.Session(raw)
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestSessionRejectsExpiredToken(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	issuer := newManager(t, func() time.Time { return issued })
	raw, err := issuer.Issue(testUser)
	require.NoError(t, err)

	verifier := newManager(t, func() time.Time { return issued.Add(2 * time.Hour) })
	_, err = verifier.Session(raw)
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestIssueMintsFreshTokenEachTime(t *testing.T) {
	m := newManager(t, nil)

	first, err := m.Issue(testUser)
	require.NoError(t, err)
	second, err := m.Issue(testUser)
	require.NoError(t, err)

	// jti differs per issuance even when claims are otherwise identical.
	require.NotEqual(t, first, second)
}
