package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/tunebase/auth-service/internal/apperrors"
	"github.com/tunebase/auth-service/token"
	"github.com/tunebase/auth-service/users"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type verifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

// loginData is the payload returned by every flow ending in an
// authenticated user.
type loginData struct {
	Tokens *token.AuthTokens `json:"tokens"`
	User   *users.User       `json:"user"`
}

func (s *Server) decode(r *http.Request, into any) error {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return err
	}
	return s.validate.Struct(into)
}

func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := s.decode(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "Bad Request")
			return
		}

		user, err := s.auth.Register(r.Context(), req.Email, req.Name, req.Password)
		switch {
		case apperrors.Is(err, apperrors.ErrUserExists):
			respondError(w, http.StatusUnauthorized, "Account already exists")
			return
		case err != nil && user == nil:
			log.Err(err).Msg("Register failed")
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		case err != nil:
			// account persisted, only mail dispatch failed
			log.Err(err).Str("email", req.Email).Msg("Register: verification email not delivered")
			respondError(w, http.StatusInternalServerError, "Failed to send verification email")
			return
		}

		respond(w, http.StatusCreated,
			"User registered successfully. Please check your email to verify your account.",
			map[string]any{"user": user})
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := s.decode(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid credentials!")
			return
		}

		result, err := s.auth.Login(r.Context(), req.Email, req.Password)
		switch {
		case apperrors.Is(err, apperrors.ErrUserNotFound):
			respondError(w, http.StatusNotFound, "Account does not exist!")
			return
		case apperrors.Is(err, apperrors.ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, "Invalid credentials!")
			return
		case apperrors.Is(err, apperrors.ErrUserNotVerified):
			respondError(w, http.StatusForbidden, "Verification email has been sent")
			return
		case err != nil:
			log.Err(err).Msg("Login failed")
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		respond(w, http.StatusOK, "Login successful", loginData{Tokens: result.Tokens, User: result.User})
	}
}

func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if err := s.decode(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "Refresh token is required")
			return
		}

		accessToken, err := s.auth.Refresh(req.RefreshToken)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
			return
		}

		respond(w, http.StatusOK, "Token refreshed successfully", map[string]any{"accessToken": accessToken})
	}
}

func (s *Server) VerifyEmailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyEmailRequest
		if err := s.decode(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "Verification token is required")
			return
		}

		user, err := s.auth.VerifyEmail(r.Context(), req.Token)
		switch {
		case apperrors.Is(err, apperrors.ErrTokenExpired),
			apperrors.Is(err, apperrors.ErrInvalidToken),
			apperrors.Is(err, apperrors.ErrNotFound):
			respondError(w, http.StatusBadRequest, "Invalid or expired verification token")
			return
		case err != nil:
			log.Err(err).Msg("Email verification failed")
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		respond(w, http.StatusOK, "Email verified successfully", map[string]any{"user": user})
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, s.config.GetAppName()+" is running", map[string]any{"status": "UP"})
	}
}
