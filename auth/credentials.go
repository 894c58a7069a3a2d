package auth

// Mode selects which branch of the credential flow a submission takes.
type Mode string

const (
	ModeSignUp Mode = "signup"
	ModeSignIn Mode = "signin"
)

// Credentials is a credential-submission request as posted by the
// sign-in/sign-up form. Name is only meaningful when Mode is ModeSignUp.
type Credentials struct {
	Mode     Mode
	Email    string
	Password string
	Name     string
}
