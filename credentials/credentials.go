package credentials

import "time"

// VerificationToken is the persisted half of an email-verification
// credential. The token string itself is random and opaque; what the user
// receives by mail is a signed wrapper around it. At most one live row
// exists per email.
type VerificationToken struct {
	Email   string    // Address being verified, unique lookup key
	Token   string    // Random opaque credential
	Expires time.Time // Hard expiry, checked against the store copy at consumption
}

// OTP is a single-use numeric login code. At most one live row exists per
// email; a successful verification deletes the row so the code cannot be
// replayed.
type OTP struct {
	Email   string
	Code    string
	Expires time.Time
}
