package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tunebase/auth-service/credentials"
	"github.com/tunebase/auth-service/internal/apperrors"
	"github.com/tunebase/auth-service/internal/utils"
	"github.com/tunebase/auth-service/mail"
	"github.com/tunebase/auth-service/sessions"
	"github.com/tunebase/auth-service/token"
	"github.com/tunebase/auth-service/users"
)

// Repos holds the repository dependencies for the Service
type Repos struct {
	Users    users.UserRepo
	Sessions sessions.Repo
}

// Service orchestrates the authentication flows: password login,
// registration with email verification, passwordless OTP login, federated
// login, and access-token refresh. Credential mechanics live in the token
// and credentials managers; the Service wires them to user and session
// state and to mail delivery.
type Service struct {
	repos   Repos
	tokens  *token.Manager
	onetime *credentials.Manager
	mailer  mail.Sender
	nowFunc func() time.Time
}

// LoginResult is returned by every flow that ends in an authenticated user.
type LoginResult struct {
	Tokens *token.AuthTokens
	User   *users.User
}

// FederatedIdentity is an email identity already verified by an external
// provider. The protocol exchange that produced it happens at the HTTP
// layer; the Service only maps it onto a local account.
type FederatedIdentity struct {
	Email string
	Name  string
	Image string
}

type ServiceOption func(*Service)

// WithNowFunc sets the clock (primarily for testing)
func WithNowFunc(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowFunc = now
	}
}

func NewService(repos Repos, tokens *token.Manager, onetime *credentials.Manager, mailer mail.Sender, options ...ServiceOption) (*Service, error) {
	if repos.Users == nil {
		return nil, errors.New("[NewService] Users repo is required")
	}
	if repos.Sessions == nil {
		return nil, errors.New("[NewService] Sessions repo is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewService] token manager is required")
	}
	if onetime == nil {
		return nil, errors.New("[NewService] credentials manager is required")
	}
	if mailer == nil {
		return nil, errors.New("[NewService] mail sender is required")
	}

	s := &Service{
		repos:   repos,
		tokens:  tokens,
		onetime: onetime,
		mailer:  mailer,
		nowFunc: time.Now,
	}

	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Register creates an unverified account and dispatches a verification
// email. When the account is persisted but mail dispatch fails, the created
// user is returned together with the delivery error: the credential state
// stands, only delivery needs retrying.
func (s *Service) Register(ctx context.Context, email, name, password string) (*users.User, error) {
	if _, err := s.repos.Users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrUserExists
	}

	passwordHash, err := users.HashPassword(password)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Register] HashPassword")
	}

	user := &users.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    s.nowFunc(),
	}
	if err := s.repos.Users.Create(ctx, user); err != nil {
		return nil, errors.Wrap(err, "[Service.Register] Create")
	}

	if err := s.sendVerification(ctx, user); err != nil {
		return user, err
	}
	return user, nil
}

// Login authenticates an email/password pair. Failures stay coarse: a
// missing account and a password-less account report identically, and a
// wrong password reveals nothing further. An unverified account receives a
// fresh verification email instead of tokens.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repos.Users.GetByEmail(ctx, email)
	if err != nil || !user.HasPassword() {
		return nil, apperrors.ErrUserNotFound
	}

	if !users.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.Verified {
		if err := s.sendVerification(ctx, user); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrUserNotVerified
	}

	return s.issueTokens(ctx, user)
}

// VerifyEmail consumes an emailed verification token and marks the account
// verified.
func (s *Service) VerifyEmail(ctx context.Context, signedToken string) (*users.User, error) {
	email, err := s.onetime.ConsumeVerificationToken(ctx, signedToken)
	if err != nil {
		return nil, err
	}

	if err := s.repos.Users.SetVerified(ctx, email, true); err != nil {
		return nil, errors.Wrap(err, "[Service.VerifyEmail] SetVerified")
	}

	user, err := s.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.VerifyEmail] GetByEmail")
	}
	return user, nil
}

// PasswordlessStart issues an OTP for an existing account and mails it.
func (s *Service) PasswordlessStart(ctx context.Context, email string) error {
	user, err := s.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		return apperrors.ErrUserNotFound
	}

	code, err := s.onetime.IssueOTP(ctx, email)
	if err != nil {
		return errors.Wrap(err, "[Service.PasswordlessStart] IssueOTP")
	}

	if err := s.mailer.SendOTPEmail(ctx, user.Email, code); err != nil {
		return errors.Wrap(err, "[Service.PasswordlessStart] SendOTPEmail")
	}
	return nil
}

// PasswordlessVerify spends a submitted OTP and, on success, authenticates
// the account. The failure is uniform whether the code was wrong, expired,
// or never issued.
func (s *Service) PasswordlessVerify(ctx context.Context, email, code string) (*LoginResult, error) {
	ok, err := s.onetime.VerifyOTP(ctx, email, code)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.PasswordlessVerify] VerifyOTP")
	}
	if !ok {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	return s.issueTokens(ctx, user)
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token is trusted on its signature alone and stays valid until its
// own expiry; the Session row recorded at issuance is audit data and is not
// consulted here.
func (s *Service) Refresh(refreshToken string) (string, error) {
	return s.tokens.RefreshAccessToken(refreshToken)
}

// FederatedLogin maps a provider-verified identity onto a local account,
// creating it on first login, and mints an auth token pair. Federated
// accounts are verified by construction.
func (s *Service) FederatedLogin(ctx context.Context, identity FederatedIdentity) (*LoginResult, error) {
	user, err := s.repos.Users.GetByEmail(ctx, identity.Email)
	if err != nil {
		now := s.nowFunc()
		user = &users.User{
			ID:         uuid.New().String(),
			Email:      identity.Email,
			Name:       identity.Name,
			Image:      identity.Image,
			Verified:   true,
			VerifiedAt: utils.Ptr(now),
			CreatedAt:  now,
		}
		if err := s.repos.Users.Create(ctx, user); err != nil {
			return nil, errors.Wrap(err, "[Service.FederatedLogin] Create")
		}
		return s.issueTokens(ctx, user)
	}

	// refresh the profile from the provider on every login
	if identity.Name != "" {
		user.Name = identity.Name
	}
	if identity.Image != "" {
		user.Image = identity.Image
	}
	if !user.Verified {
		user.Verified = true
		user.VerifiedAt = utils.Ptr(s.nowFunc())
	}
	if err := s.repos.Users.Upsert(ctx, user); err != nil {
		return nil, errors.Wrap(err, "[Service.FederatedLogin] Upsert")
	}

	return s.issueTokens(ctx, user)
}

// issueTokens mints the access/refresh pair and records the Session row for
// the refresh token. Issuance is pure; persistence is the separate step
// that can fail on its own.
func (s *Service) issueTokens(ctx context.Context, user *users.User) (*LoginResult, error) {
	pair, err := s.tokens.IssueAuthTokens(token.Claims{UserID: user.ID, Email: user.Email})
	if err != nil {
		return nil, errors.Wrap(err, "[Service.issueTokens] IssueAuthTokens")
	}

	if err := s.repos.Sessions.Create(ctx, &sessions.Session{
		UserID:       user.ID,
		SessionToken: pair.RefreshToken,
		Expires:      s.nowFunc().Add(s.tokens.RefreshTokenExpiry()),
	}); err != nil {
		return nil, errors.Wrapf(apperrors.ErrStore, "[Service.issueTokens] Sessions.Create: %v", err)
	}

	return &LoginResult{Tokens: pair, User: user}, nil
}

func (s *Service) sendVerification(ctx context.Context, user *users.User) error {
	signed, err := s.onetime.IssueVerificationToken(ctx, user.Email)
	if err != nil {
		return errors.Wrap(err, "[Service.sendVerification] IssueVerificationToken")
	}

	name := user.Name
	if name == "" {
		name = "User"
	}
	if err := s.mailer.SendVerificationEmail(ctx, user.Email, name, signed); err != nil {
		return errors.Wrap(err, "[Service.sendVerification] SendVerificationEmail")
	}
	return nil
}
