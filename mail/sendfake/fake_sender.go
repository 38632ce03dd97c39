package sendfake

import (
	"context"
	"sync"

	"github.com/tunebase/auth-service/mail"
)

var _ mail.Sender = (*FakeSender)(nil)

// FakeSender records sent emails for assertions in tests.
type FakeSender struct {
	VerificationEmails []SentVerification
	OTPEmails          []SentOTP
	Err                error // returned from every send when set
	lock               sync.Mutex
}

type SentVerification struct {
	Email string
	Name  string
	Token string
}

type SentOTP struct {
	Email string
	Code  string
}

func NewFakeSender() *FakeSender {
	return &FakeSender{}
}

func (s *FakeSender) SendVerificationEmail(ctx context.Context, email, name, token string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.Err != nil {
		return s.Err
	}
	s.VerificationEmails = append(s.VerificationEmails, SentVerification{Email: email, Name: name, Token: token})
	return nil
}

func (s *FakeSender) SendOTPEmail(ctx context.Context, email, code string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.Err != nil {
		return s.Err
	}
	s.OTPEmails = append(s.OTPEmails, SentOTP{Email: email, Code: code})
	return nil
}
