package auth_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/tunebase/auth-service/auth"
	"github.com/tunebase/auth-service/credentials"
	credentialrepofake "github.com/tunebase/auth-service/credentials/repofake"
	"github.com/tunebase/auth-service/internal/apperrors"
	"github.com/tunebase/auth-service/mail/sendfake"
	sessionrepofake "github.com/tunebase/auth-service/sessions/repofake"
	"github.com/tunebase/auth-service/token"
	"github.com/tunebase/auth-service/users"
	userrepofake "github.com/tunebase/auth-service/users/repofake"
)

const (
	accessSecret       = "access-secret"
	refreshSecret      = "refresh-secret"
	verificationSecret = "verification-secret"
	testEmail          = "john.doe@example.com"
	testName           = "John Doe"
	testPassword       = "password123"
)

type testFixture struct {
	userRepo    *userrepofake.FakeUserRepo
	sessionRepo *sessionrepofake.FakeSessionRepo
	sender      *sendfake.FakeSender
	tokens      *token.Manager
	service     *auth.Service
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	ur := userrepofake.NewFakeUserRepo()
	sr := sessionrepofake.NewFakeSessionRepo()
	sender := sendfake.NewFakeSender()

	tm, err := token.NewManager(accessSecret, refreshSecret)
	require.NoError(t, err)

	cm, err := credentials.NewManager(
		credentialrepofake.NewFakeVerificationTokenRepo(),
		credentialrepofake.NewFakeOTPRepo(),
		verificationSecret,
	)
	require.NoError(t, err)

	service, err := auth.NewService(auth.Repos{Users: ur, Sessions: sr}, tm, cm, sender)
	require.NoError(t, err)

	return &testFixture{
		userRepo:    ur,
		sessionRepo: sr,
		sender:      sender,
		tokens:      tm,
		service:     service,
	}
}

func (f *testFixture) register(t *testing.T) *users.User {
	t.Helper()
	user, err := f.service.Register(context.Background(), testEmail, testName, testPassword)
	require.NoError(t, err)
	return user
}

func (f *testFixture) registerVerified(t *testing.T) *users.User {
	t.Helper()
	f.register(t)
	signed := f.sender.VerificationEmails[len(f.sender.VerificationEmails)-1].Token
	user, err := f.service.VerifyEmail(context.Background(), signed)
	require.NoError(t, err)
	return user
}

func TestService_Register(t *testing.T) {
	f := setupTestFixture(t)

	user := f.register(t)
	require.NotEmpty(t, user.ID)
	require.Equal(t, testEmail, user.Email)
	require.False(t, user.Verified)

	require.Len(t, f.sender.VerificationEmails, 1)
	require.Equal(t, testEmail, f.sender.VerificationEmails[0].Email)
	require.NotEmpty(t, f.sender.VerificationEmails[0].Token)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := f.service.Register(context.Background(), testEmail, testName, testPassword)
		require.ErrorIs(t, err, apperrors.ErrUserExists)
	})
}

func TestService_RegisterDeliveryFailure(t *testing.T) {
	f := setupTestFixture(t)
	f.sender.Err = errors.New("relay down")

	user, err := f.service.Register(context.Background(), testEmail, testName, testPassword)
	require.Error(t, err)
	require.NotNil(t, user) // the account was still created

	stored, err := f.userRepo.GetByEmail(context.Background(), testEmail)
	require.NoError(t, err)
	require.Equal(t, user.ID, stored.ID)
}

func TestService_Login(t *testing.T) {
	t.Run("unknown account", func(t *testing.T) {
		f := setupTestFixture(t)
		_, err := f.service.Login(context.Background(), testEmail, testPassword)
		require.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := setupTestFixture(t)
		f.registerVerified(t)
		_, err := f.service.Login(context.Background(), testEmail, "wrong-password")
		require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unverified account receives a fresh verification email", func(t *testing.T) {
		f := setupTestFixture(t)
		f.register(t)

		_, err := f.service.Login(context.Background(), testEmail, testPassword)
		require.ErrorIs(t, err, apperrors.ErrUserNotVerified)
		require.Len(t, f.sender.VerificationEmails, 2) // register + login attempt
	})

	t.Run("verified account gets a token pair and a session row", func(t *testing.T) {
		f := setupTestFixture(t)
		user := f.registerVerified(t)

		result, err := f.service.Login(context.Background(), testEmail, testPassword)
		require.NoError(t, err)

		claims, err := f.tokens.VerifyAccessToken(result.Tokens.AccessToken)
		require.NoError(t, err)
		require.Equal(t, user.ID, claims.UserID)
		require.Equal(t, testEmail, claims.Email)

		_, err = f.tokens.VerifyRefreshToken(result.Tokens.RefreshToken)
		require.NoError(t, err)

		rows, err := f.sessionRepo.ListByUserID(context.Background(), user.ID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		require.Equal(t, result.Tokens.RefreshToken, rows[0].SessionToken)
	})
}

func TestService_VerifyEmail(t *testing.T) {
	f := setupTestFixture(t)
	f.register(t)

	signed := f.sender.VerificationEmails[0].Token
	user, err := f.service.VerifyEmail(context.Background(), signed)
	require.NoError(t, err)
	require.True(t, user.Verified)
	require.NotNil(t, user.VerifiedAt)

	t.Run("token is single use", func(t *testing.T) {
		_, err := f.service.VerifyEmail(context.Background(), signed)
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestService_Passwordless(t *testing.T) {
	t.Run("start for unknown account", func(t *testing.T) {
		f := setupTestFixture(t)
		err := f.service.PasswordlessStart(context.Background(), testEmail)
		require.ErrorIs(t, err, apperrors.ErrUserNotFound)
		require.Empty(t, f.sender.OTPEmails)
	})

	t.Run("round trip", func(t *testing.T) {
		f := setupTestFixture(t)
		user := f.registerVerified(t)

		require.NoError(t, f.service.PasswordlessStart(context.Background(), testEmail))
		require.Len(t, f.sender.OTPEmails, 1)
		code := f.sender.OTPEmails[0].Code

		result, err := f.service.PasswordlessVerify(context.Background(), testEmail, code)
		require.NoError(t, err)
		require.Equal(t, user.ID, result.User.ID)

		claims, err := f.tokens.VerifyAccessToken(result.Tokens.AccessToken)
		require.NoError(t, err)
		require.Equal(t, user.ID, claims.UserID)

		// a spent code cannot authenticate again
		_, err = f.service.PasswordlessVerify(context.Background(), testEmail, code)
		require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("verification failure is uniform", func(t *testing.T) {
		f := setupTestFixture(t)
		f.registerVerified(t)

		_, err := f.service.PasswordlessVerify(context.Background(), testEmail, "000000")
		require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestService_Refresh(t *testing.T) {
	f := setupTestFixture(t)
	f.registerVerified(t)

	result, err := f.service.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)

	accessToken, err := f.service.Refresh(result.Tokens.RefreshToken)
	require.NoError(t, err)

	claims, err := f.tokens.VerifyAccessToken(accessToken)
	require.NoError(t, err)
	require.Equal(t, testEmail, claims.Email)

	t.Run("junk refresh token", func(t *testing.T) {
		_, err := f.service.Refresh("junk")
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}

func TestService_FederatedLogin(t *testing.T) {
	f := setupTestFixture(t)
	identity := auth.FederatedIdentity{Email: testEmail, Name: testName, Image: "https://img.example/u.png"}

	result, err := f.service.FederatedLogin(context.Background(), identity)
	require.NoError(t, err)
	require.True(t, result.User.Verified)
	require.Equal(t, testEmail, result.User.Email)

	t.Run("second login reuses the account", func(t *testing.T) {
		again, err := f.service.FederatedLogin(context.Background(), identity)
		require.NoError(t, err)
		require.Equal(t, result.User.ID, again.User.ID)
	})

	t.Run("links to an existing password account", func(t *testing.T) {
		f := setupTestFixture(t)
		user := f.register(t) // unverified password account

		result, err := f.service.FederatedLogin(context.Background(), auth.FederatedIdentity{Email: testEmail, Name: testName})
		require.NoError(t, err)
		require.Equal(t, user.ID, result.User.ID)
		require.True(t, result.User.Verified)
	})
}
