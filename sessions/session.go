package sessions

import "time"

// Session links a user to an issued refresh token and its expiry. A row is
// written for every refresh token at issuance time. Rows are an audit
// record: refresh verification trusts the token signature and does not read
// them back, and rows retire by natural expiry rather than explicit
// revocation.
type Session struct {
	UserID       string    // Owner of the refresh token
	SessionToken string    // The signed refresh token string
	Expires      time.Time // Mirrors the refresh token's embedded expiry
}
