package server

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tunebase/auth-service/auth"
	"github.com/tunebase/auth-service/server/authstate"
)

const stateLength = 32

// GoogleLoginHandler starts the federated login round trip by redirecting
// to Google's consent screen with a fresh single-use state value.
func (s *Server) GoogleLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stateBytes := make([]byte, stateLength)
		if _, err := rand.Read(stateBytes); err != nil {
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		state := base64.URLEncoding.EncodeToString(stateBytes)

		if err := s.authState.Put(&authstate.State{Value: state, CreatedAt: time.Now()}); err != nil {
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		http.Redirect(w, r, s.googleOidc.OAuth2Config.AuthCodeURL(state), http.StatusFound)
	}
}

// GoogleCallbackHandler completes the round trip: it exchanges the
// authorization code, verifies the ID token, maps the identity onto a local
// account, and redirects to the mobile app deep link carrying the issued
// token pair.
func (s *Server) GoogleCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := r.FormValue("state")
		code := r.FormValue("code")

		if errorParam := r.FormValue("error"); errorParam != "" {
			s.redirectWithError(w, r, "Authentication failed")
			return
		}
		if code == "" || state == "" {
			s.redirectWithError(w, r, "Missing code or state parameter")
			return
		}

		if _, err := s.authState.Consume(state); err != nil {
			s.redirectWithError(w, r, "Invalid state parameter")
			return
		}

		oauth2Token, err := s.googleOidc.OAuth2Config.Exchange(r.Context(), code)
		if err != nil {
			log.Err(err).Msg("Google callback: token exchange failed")
			s.redirectWithError(w, r, "Authentication failed")
			return
		}

		rawIDToken, ok := oauth2Token.Extra("id_token").(string)
		if !ok {
			s.redirectWithError(w, r, "Authentication failed")
			return
		}

		idToken, err := s.googleOidc.OidcVerifier.Verify(r.Context(), rawIDToken)
		if err != nil {
			log.Err(err).Msg("Google callback: ID token verification failed")
			s.redirectWithError(w, r, "Authentication failed")
			return
		}

		var claims struct {
			Email         string `json:"email"`
			EmailVerified bool   `json:"email_verified"`
			Name          string `json:"name"`
			Picture       string `json:"picture"`
		}
		if err := idToken.Claims(&claims); err != nil || claims.Email == "" || !claims.EmailVerified {
			s.redirectWithError(w, r, "Authentication failed")
			return
		}

		result, err := s.auth.FederatedLogin(r.Context(), auth.FederatedIdentity{
			Email: claims.Email,
			Name:  claims.Name,
			Image: claims.Picture,
		})
		if err != nil {
			log.Err(err).Msg("Google callback: federated login failed")
			s.redirectWithError(w, r, "Authentication failed")
			return
		}

		redirect := s.config.GetMobileSuccessLink() + "?" + url.Values{
			"accessToken":  {result.Tokens.AccessToken},
			"refreshToken": {result.Tokens.RefreshToken},
		}.Encode()
		http.Redirect(w, r, redirect, http.StatusFound)
	}
}

func (s *Server) redirectWithError(w http.ResponseWriter, r *http.Request, message string) {
	redirect := s.config.GetMobileErrorLink() + "?" + url.Values{"message": {message}}.Encode()
	http.Redirect(w, r, redirect, http.StatusFound)
}
