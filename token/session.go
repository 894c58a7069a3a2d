package token

import "time"

// SessionUser is the user block of the externally-visible session object.
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Image string `json:"image,omitempty"`
}

// Session is what rendering collaborators (navbar, sidebar, pages) see.
// There is no persisted session entity: a Session is reconstructed from the
// signed token on every request, and page chrome branches purely on its
// presence or absence.
type Session struct {
	User      SessionUser
	ExpiresAt time.Time
}
