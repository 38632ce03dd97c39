package server

import "net/http"

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteHealth = "/api/v1/health"

	// Password flows
	RouteRegister    = "/api/v1/auth/register"
	RouteLogin       = "/api/v1/auth/login"
	RouteVerifyEmail = "/api/v1/auth/verify-email"

	// Token lifecycle
	RouteRefresh = "/api/v1/auth/refresh"

	// Passwordless flows
	RoutePasswordless       = "/api/v1/auth/passwordless"
	RoutePasswordlessVerify = "/api/v1/auth/passwordless/verify"

	// Federated login
	RouteGoogleLogin    = "/api/v1/auth/google"
	RouteGoogleCallback = "/api/v1/auth/google/callback"
)

func (s *Server) initRoutes() {
	api := s.apiMiddleware()

	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())

	s.RegisterRouteFunc("POST "+RouteRegister, ChainMiddleware(s.RegisterHandler(), api...))
	s.RegisterRouteFunc("POST "+RouteLogin, ChainMiddleware(s.LoginHandler(), api...))
	s.RegisterRouteFunc("POST "+RouteVerifyEmail, ChainMiddleware(s.VerifyEmailHandler(), api...))
	s.RegisterRouteFunc("POST "+RouteRefresh, ChainMiddleware(s.RefreshHandler(), api...))
	s.RegisterRouteFunc("POST "+RoutePasswordless, ChainMiddleware(s.PasswordlessLoginHandler(), api...))
	s.RegisterRouteFunc("POST "+RoutePasswordlessVerify, ChainMiddleware(s.VerifyOTPHandler(), api...))

	if s.googleOidc != nil {
		s.RegisterRouteFunc("GET "+RouteGoogleLogin, ChainMiddleware(s.GoogleLoginHandler(), api...))
		s.RegisterRouteFunc("GET "+RouteGoogleCallback, ChainMiddleware(s.GoogleCallbackHandler(), api...))
	}
}

func (s *Server) apiMiddleware() []func(http.HandlerFunc) http.HandlerFunc {
	return []func(http.HandlerFunc) http.HandlerFunc{
		s.LoggingMiddleware,
		s.RecoverMiddleware,
	}
}
