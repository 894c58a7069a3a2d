package server

func (s *Server) initRoutes() {
	// PAGES
	s.RegisterRouteHandler("GET "+RouteLanding, ChainMiddleware(s.IndexHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteSignIn, ChainMiddleware(s.SignInPageHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAuthError, ChainMiddleware(s.AuthErrorPageHandler(), s.HTMLMiddleware()...))

	// CREDENTIALS
	s.RegisterRouteHandler("POST "+RouteCredentials, ChainMiddleware(s.CredentialsHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteSignOut, ChainMiddleware(s.SignOutHandler(), s.HTMLMiddleware()...))

	// EXTERNAL PROVIDERS
	s.RegisterRouteHandler("GET "+RouteProviderStart, ChainMiddleware(s.ProviderStartHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteProviderCallback, ChainMiddleware(s.ProviderCallbackHandler(), s.HTMLMiddleware()...))

	// API
	s.RegisterRouteHandler("GET "+RouteSession, ChainMiddleware(s.SessionJSONHandler(), s.APIMiddleware()...))
}
