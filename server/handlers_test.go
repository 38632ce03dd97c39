package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tunebase/auth-service/auth"
	"github.com/tunebase/auth-service/credentials"
	credentialrepofake "github.com/tunebase/auth-service/credentials/repofake"
	"github.com/tunebase/auth-service/internal/config"
	"github.com/tunebase/auth-service/mail/sendfake"
	"github.com/tunebase/auth-service/server"
	sessionrepofake "github.com/tunebase/auth-service/sessions/repofake"
	"github.com/tunebase/auth-service/token"
	userrepofake "github.com/tunebase/auth-service/users/repofake"
)

const (
	testEmail    = "john.doe@example.com"
	testName     = "John Doe"
	testPassword = "password123"
)

type testFixture struct {
	server *server.Server
	sender *sendfake.FakeSender
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	tokens, err := token.NewManager("access-secret", "refresh-secret")
	require.NoError(t, err)

	onetime, err := credentials.NewManager(
		credentialrepofake.NewFakeVerificationTokenRepo(),
		credentialrepofake.NewFakeOTPRepo(),
		"verification-secret",
	)
	require.NoError(t, err)

	sender := sendfake.NewFakeSender()
	service, err := auth.NewService(auth.Repos{
		Users:    userrepofake.NewFakeUserRepo(),
		Sessions: sessionrepofake.NewFakeSessionRepo(),
	}, tokens, onetime, sender)
	require.NoError(t, err)

	t.Setenv("ENV", "TEST")
	srv, err := server.New(config.New(), service)
	require.NoError(t, err)

	return &testFixture{server: srv, sender: sender}
}

type response struct {
	Status  bool           `json:"status"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func (f *testFixture) post(t *testing.T, path string, body any) (int, response) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)

	var resp response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec.Code, resp
}

func (f *testFixture) register(t *testing.T) {
	t.Helper()

	code, _ := f.post(t, server.RouteRegister, map[string]string{
		"email":    testEmail,
		"name":     testName,
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, code)
}

// registerVerified registers a user and completes email verification using
// the token captured by the fake sender.
func (f *testFixture) registerVerified(t *testing.T) {
	t.Helper()

	f.register(t)
	require.Len(t, f.sender.VerificationEmails, 1)

	code, _ := f.post(t, server.RouteVerifyEmail, map[string]string{
		"token": f.sender.VerificationEmails[0].Token,
	})
	require.Equal(t, http.StatusOK, code)
}

func TestHealthEndpoint(t *testing.T) {
	fixture := setupTestFixture(t)

	req := httptest.NewRequest(http.MethodGet, server.RouteHealth, nil)
	rec := httptest.NewRecorder()
	fixture.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.True(t, resp.Status)
	require.Equal(t, "UP", resp.Data["status"])
}

func TestRegisterEndpoint(t *testing.T) {
	fixture := setupTestFixture(t)

	code, resp := fixture.post(t, server.RouteRegister, map[string]string{
		"email":    testEmail,
		"name":     testName,
		"password": testPassword,
	})

	require.Equal(t, http.StatusCreated, code)
	require.True(t, resp.Status)
	require.Contains(t, resp.Data, "user")
	require.Len(t, fixture.sender.VerificationEmails, 1)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	fixture := setupTestFixture(t)
	fixture.register(t)

	code, resp := fixture.post(t, server.RouteRegister, map[string]string{
		"email":    testEmail,
		"name":     testName,
		"password": testPassword,
	})

	require.Equal(t, http.StatusUnauthorized, code)
	require.False(t, resp.Status)
	require.Equal(t, "Account already exists", resp.Message)
}

func TestRegisterRejectsInvalidPayload(t *testing.T) {
	fixture := setupTestFixture(t)

	code, _ := fixture.post(t, server.RouteRegister, map[string]string{
		"email":    "not-an-email",
		"name":     testName,
		"password": testPassword,
	})
	require.Equal(t, http.StatusBadRequest, code)

	code, _ = fixture.post(t, server.RouteRegister, map[string]string{
		"email":    testEmail,
		"name":     testName,
		"password": "short",
	})
	require.Equal(t, http.StatusBadRequest, code)
}

func TestLoginEndpoint(t *testing.T) {
	fixture := setupTestFixture(t)
	fixture.registerVerified(t)

	code, resp := fixture.post(t, server.RouteLogin, map[string]string{
		"email":    testEmail,
		"password": testPassword,
	})

	require.Equal(t, http.StatusOK, code)
	require.True(t, resp.Status)

	tokens, ok := resp.Data["tokens"].(map[string]any)
	require.True(t, ok)
	require.NotEmpty(t, tokens["accessToken"])
	require.NotEmpty(t, tokens["refreshToken"])
	require.Contains(t, resp.Data, "user")
}

func TestLoginUnknownAccount(t *testing.T) {
	fixture := setupTestFixture(t)

	code, resp := fixture.post(t, server.RouteLogin, map[string]string{
		"email":    "nobody@example.com",
		"password": testPassword,
	})

	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "Account does not exist!", resp.Message)
}

func TestLoginWrongPassword(t *testing.T) {
	fixture := setupTestFixture(t)
	fixture.registerVerified(t)

	code, resp := fixture.post(t, server.RouteLogin, map[string]string{
		"email":    testEmail,
		"password": "wrong-password",
	})

	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "Invalid credentials!", resp.Message)
}

func TestLoginUnverifiedAccountResendsEmail(t *testing.T) {
	fixture := setupTestFixture(t)
	fixture.register(t)

	code, resp := fixture.post(t, server.RouteLogin, map[string]string{
		"email":    testEmail,
		"password": testPassword,
	})

	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "Verification email has been sent", resp.Message)
	require.Len(t, fixture.sender.VerificationEmails, 2)
}

func TestVerifyEmailRejectsReplay(t *testing.T) {
	fixture := setupTestFixture(t)
	fixture.register(t)
	require.Len(t, fixture.sender.VerificationEmails, 1)
	verificationToken := fixture.sender.VerificationEmails[0].Token

	code, _ := fixture.post(t, server.RouteVerifyEmail, map[string]string{"token": verificationToken})
	require.Equal(t, http.StatusOK, code)

	code, resp := fixture.post(t, server.RouteVerifyEmail, map[string]string{"token": verificationToken})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Invalid or expired verification token", resp.Message)
}

func TestRefreshEndpoint(t *testing.T) {
	fixture := setupTestFixture(t)
	fixture.registerVerified(t)

	_, loginResp := fixture.post(t, server.RouteLogin, map[string]string{
		"email":    testEmail,
		"password": testPassword,
	})
	tokens := loginResp.Data["tokens"].(map[string]any)

	code, resp := fixture.post(t, server.RouteRefresh, map[string]string{
		"refreshToken": tokens["refreshToken"].(string),
	})

	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, resp.Data["accessToken"])
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	fixture := setupTestFixture(t)
	fixture.registerVerified(t)

	_, loginResp := fixture.post(t, server.RouteLogin, map[string]string{
		"email":    testEmail,
		"password": testPassword,
	})
	tokens := loginResp.Data["tokens"].(map[string]any)

	code, resp := fixture.post(t, server.RouteRefresh, map[string]string{
		"refreshToken": tokens["accessToken"].(string),
	})

	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "Invalid or expired refresh token", resp.Message)
}

func TestPasswordlessFlow(t *testing.T) {
	fixture := setupTestFixture(t)
	fixture.registerVerified(t)

	code, resp := fixture.post(t, server.RoutePasswordless, map[string]string{"email": testEmail})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "OTP has been sent to your email!", resp.Message)
	require.Len(t, fixture.sender.OTPEmails, 1)

	code, resp = fixture.post(t, server.RoutePasswordlessVerify, map[string]string{
		"email": testEmail,
		"otp":   fixture.sender.OTPEmails[0].Code,
	})
	require.Equal(t, http.StatusOK, code)

	tokens, ok := resp.Data["tokens"].(map[string]any)
	require.True(t, ok)
	require.NotEmpty(t, tokens["accessToken"])
}

func TestPasswordlessUnknownAccount(t *testing.T) {
	fixture := setupTestFixture(t)

	code, resp := fixture.post(t, server.RoutePasswordless, map[string]string{"email": "nobody@example.com"})
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "Account does not exist!", resp.Message)
}

func TestPasswordlessVerifyFailuresLookIdentical(t *testing.T) {
	fixture := setupTestFixture(t)
	fixture.registerVerified(t)

	_, _ = fixture.post(t, server.RoutePasswordless, map[string]string{"email": testEmail})

	// wrong code for a known account
	code, resp := fixture.post(t, server.RoutePasswordlessVerify, map[string]string{
		"email": testEmail,
		"otp":   "000000",
	})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Invalid or expired OTP!", resp.Message)

	// no OTP ever issued for this account
	code, resp = fixture.post(t, server.RoutePasswordlessVerify, map[string]string{
		"email": "nobody@example.com",
		"otp":   "123456",
	})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Invalid or expired OTP!", resp.Message)
}

func TestOTPIsSingleUse(t *testing.T) {
	fixture := setupTestFixture(t)
	fixture.registerVerified(t)

	_, _ = fixture.post(t, server.RoutePasswordless, map[string]string{"email": testEmail})
	otpCode := fixture.sender.OTPEmails[0].Code

	code, _ := fixture.post(t, server.RoutePasswordlessVerify, map[string]string{
		"email": testEmail,
		"otp":   otpCode,
	})
	require.Equal(t, http.StatusOK, code)

	code, resp := fixture.post(t, server.RoutePasswordlessVerify, map[string]string{
		"email": testEmail,
		"otp":   otpCode,
	})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Invalid or expired OTP!", resp.Message)
}

func TestGoogleRoutesAbsentWithoutConfiguration(t *testing.T) {
	fixture := setupTestFixture(t)

	req := httptest.NewRequest(http.MethodGet, server.RouteGoogleLogin, nil)
	rec := httptest.NewRecorder()
	fixture.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
