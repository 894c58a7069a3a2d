package server

const (
	RouteLanding          = "/"
	RouteSignIn           = "/auth/signin"
	RouteCredentials      = "/auth/credentials"
	RouteSignOut          = "/auth/signout"
	RouteAuthError        = "/auth/error"
	RouteSession          = "/auth/session"
	RouteProviderStart    = "/auth/signin/{provider}"
	RouteProviderCallback = "/auth/callback/{provider}"
)
