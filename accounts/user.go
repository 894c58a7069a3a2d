package accounts

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor used for new password hashes. bcrypt embeds
// the cost in the hash, so raising it later keeps existing hashes verifiable.
const BcryptCost = 10

// User is an identity record. It is created on sign-up (or on first
// external-provider sign-in) and read on every authentication attempt; the
// authentication flow never mutates it.
type User struct {
	ID        string    `json:"id,omitempty"`
	Email     string    `json:"email,omitempty"` // unique across all users
	Name      string    `json:"name,omitempty"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Credential associates a user with a salted password hash. Accounts created
// through an external identity provider have no Credential row at all, which
// is what blocks them from password sign-in.
type Credential struct {
	UserID       string    `json:"user_id"`
	PasswordHash string    `json:"-"` // never serialize
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	return string(bytes), err
}

// CheckPasswordHash reports whether password matches hash. The comparison is
// delegated to bcrypt; stored hashes are never compared as raw strings.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
