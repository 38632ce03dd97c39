package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/tunebase/auth-service/internal/apperrors"
)

type passwordlessRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type verifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,numeric"`
}

func (s *Server) PasswordlessLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req passwordlessRequest
		if err := s.decode(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid email address!")
			return
		}

		err := s.auth.PasswordlessStart(r.Context(), req.Email)
		switch {
		case apperrors.Is(err, apperrors.ErrUserNotFound):
			respondError(w, http.StatusNotFound, "Account does not exist!")
			return
		case err != nil:
			log.Err(err).Msg("Passwordless login failed")
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		respond(w, http.StatusOK, "OTP has been sent to your email!", nil)
	}
}

func (s *Server) VerifyOTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyOTPRequest
		if err := s.decode(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid data provided!")
			return
		}

		result, err := s.auth.PasswordlessVerify(r.Context(), req.Email, req.OTP)
		switch {
		// the failure reads the same whether the code was wrong, expired,
		// or never issued
		case apperrors.Is(err, apperrors.ErrInvalidCredentials),
			apperrors.Is(err, apperrors.ErrUserNotFound):
			respondError(w, http.StatusBadRequest, "Invalid or expired OTP!")
			return
		case err != nil:
			log.Err(err).Msg("OTP verification failed")
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		respond(w, http.StatusOK, "Login successful", loginData{Tokens: result.Tokens, User: result.User})
	}
}
