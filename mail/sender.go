package mail

import "context"

// Sender delivers credential emails. Delivery is fire-and-forget from the
// credential core's perspective: a failure surfaces as an error but never
// rolls back credential state already persisted.
type Sender interface {
	SendVerificationEmail(ctx context.Context, email, name, token string) error
	SendOTPEmail(ctx context.Context, email, code string) error
}
