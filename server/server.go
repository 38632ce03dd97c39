package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-playground/validator/v10"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/tunebase/auth-service/auth"
	"github.com/tunebase/auth-service/internal/config"
	"github.com/tunebase/auth-service/server/authstate"
)

const googleIssuer = "https://accounts.google.com"

// OidcConfig bundles the provider handles for a federated login provider.
type OidcConfig struct {
	OidcProvider *oidc.Provider
	OAuth2Config *oauth2.Config
	OidcVerifier *oidc.IDTokenVerifier
}

type Server struct {
	env       string // Environment (e.g., "DEV", "PROD")
	mux       *http.ServeMux
	routes    []string
	config    config.Config
	auth      *auth.Service
	validate  *validator.Validate
	authState authstate.Repo

	googleOidc *OidcConfig // nil when federated login is not configured
}

func New(cfg config.Config, authService *auth.Service) (*Server, error) {
	if authService == nil {
		return nil, fmt.Errorf("[Server New] auth service is required")
	}

	s := &Server{
		env:       cfg.GetEnv(),
		mux:       http.NewServeMux(),
		config:    cfg,
		auth:      authService,
		validate:  validator.New(),
		authState: authstate.NewInMemoryRepo(),
	}

	if cfg.GetGoogleClientID() != "" {
		if err := s.initGoogleOidc(context.Background(), cfg); err != nil {
			return nil, fmt.Errorf("[Server New] failed to initialise Google OIDC: %w", err)
		}
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) initGoogleOidc(ctx context.Context, cfg config.Config) error {
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return err
	}

	oauth2Config := &oauth2.Config{
		ClientID:     cfg.GetGoogleClientID(),
		ClientSecret: cfg.GetGoogleClientSecret(),
		RedirectURL:  cfg.GetBaseURL() + RouteGoogleCallback,
		Endpoint:     endpoints.Google,
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}

	s.googleOidc = &OidcConfig{
		OidcProvider: provider,
		OAuth2Config: oauth2Config,
		OidcVerifier: provider.Verifier(&oidc.Config{ClientID: oauth2Config.ClientID}),
	}
	return nil
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
