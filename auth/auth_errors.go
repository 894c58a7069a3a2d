package auth

import "errors"

// Kind classifies an authentication failure. The taxonomy is flat: every
// failure aborts the current attempt and none are retried.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindConflict       Kind = "conflict"
	KindNotFound       Kind = "not_found"
	KindConfiguration  Kind = "configuration"
	KindAuthentication Kind = "authentication"
	KindProvider       Kind = "provider"
)

// Machine-readable error codes carried on the error-redirect surface. The
// set is fixed; the error page maps each code to a human-readable message.
const (
	CodeOAuthSignin           = "OAuthSignin"
	CodeOAuthCallback         = "OAuthCallback"
	CodeOAuthCreateAccount    = "OAuthCreateAccount"
	CodeEmailCreateAccount    = "EmailCreateAccount"
	CodeCallback              = "Callback"
	CodeOAuthAccountNotLinked = "OAuthAccountNotLinked"
	CodeEmailSignin           = "EmailSignin"
	CodeCredentialsSignin     = "CredentialsSignin"
	CodeSessionRequired       = "SessionRequired"
	CodeDefault               = "Default"
)

// Error is a classified authentication failure. Code is the machine-readable
// value the caller puts on the error redirect; Message is user-facing.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches classified errors by kind and code so the sentinels below work
// with errors.Is regardless of wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

var (
	ErrMissingCredentials = &Error{Kind: KindValidation, Code: CodeCredentialsSignin, Message: "email and password required"}
	ErrUnknownMode        = &Error{Kind: KindValidation, Code: CodeDefault, Message: "unknown authentication mode"}
	ErrNameRequired       = &Error{Kind: KindValidation, Code: CodeCredentialsSignin, Message: "name is required for signup"}
	ErrEmailInUse         = &Error{Kind: KindConflict, Code: CodeEmailCreateAccount, Message: "email already in use"}
	ErrNoUser             = &Error{Kind: KindNotFound, Code: CodeCredentialsSignin, Message: "no user found with this email"}
	ErrNoLocalCredential  = &Error{Kind: KindConfiguration, Code: CodeOAuthAccountNotLinked, Message: "please sign in with the provider you used to register"}
	ErrIncorrectPassword  = &Error{Kind: KindAuthentication, Code: CodeCredentialsSignin, Message: "incorrect password"}
	ErrProviderExchange   = &Error{Kind: KindProvider, Code: CodeOAuthCallback, Message: "error during oauth callback"}
)

// CodeFor extracts the redirect code for err, falling back to Default for
// anything the taxonomy does not classify (storage faults and the like).
func CodeFor(err error) string {
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr.Code
	}
	return CodeDefault
}
