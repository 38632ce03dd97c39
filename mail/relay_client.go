package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/tunebase/auth-service/internal/apperrors"
)

const (
	verificationPath = "/verification"
	otpPath          = "/otp"
)

var _ Sender = (*RelayClient)(nil)

// RelayClient sends credential emails through an external mail relay
// service. The relay renders the templates; this client only posts the
// recipient and the credential, authenticated by a shared key.
type RelayClient struct {
	baseURL string
	key     string
	client  *http.Client
}

type RelayOption func(*RelayClient)

// WithHTTPClient overrides the HTTP client (primarily for testing)
func WithHTTPClient(client *http.Client) RelayOption {
	return func(r *RelayClient) {
		r.client = client
	}
}

func NewRelayClient(baseURL, key string, options ...RelayOption) *RelayClient {
	r := &RelayClient{
		baseURL: baseURL,
		key:     key,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

type relayRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
	Key   string `json:"key"`
}

func (r *RelayClient) SendVerificationEmail(ctx context.Context, email, name, token string) error {
	if err := r.post(ctx, verificationPath, relayRequest{Email: email, Token: token, Key: r.key}); err != nil {
		log.Err(err).Str("email", email).Msg("Failed to send verification email")
		return err
	}
	return nil
}

func (r *RelayClient) SendOTPEmail(ctx context.Context, email, code string) error {
	if err := r.post(ctx, otpPath, relayRequest{Email: email, Token: code, Key: r.key}); err != nil {
		log.Err(err).Str("email", email).Msg("Failed to send OTP email")
		return err
	}
	return nil
}

func (r *RelayClient) post(ctx context.Context, path string, payload relayRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "[RelayClient.post] marshal")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "[RelayClient.post] new request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return errors.Wrapf(apperrors.ErrDelivery, "[RelayClient.post] %s: %v", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Wrapf(apperrors.ErrDelivery, "[RelayClient.post] %s: relay returned %d", path, resp.StatusCode)
	}
	return nil
}
