package config

import "time"

// SecretsConfig supplies the three independent signing secrets and the
// default lifetime of every credential the service issues. Access and
// refresh secrets must be distinct keys so that compromise of one never
// allows forging tokens of the other kind.
type SecretsConfig interface {
	GetAccessSecret() string
	GetRefreshSecret() string
	GetVerificationSecret() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetVerificationTokenExpiry() time.Duration
	GetOTPExpiry() time.Duration
	GetOTPLength() int
}

type Secrets struct{}

var _ SecretsConfig = Secrets{}

func (Secrets) GetAccessSecret() string {
	return GetEnv("JWT_ACCESS_SECRET", "")
}

func (Secrets) GetRefreshSecret() string {
	return GetEnv("JWT_REFRESH_SECRET", "")
}

func (Secrets) GetVerificationSecret() string {
	return GetEnv("VERIFICATION_SECRET", "")
}

func (Secrets) GetAccessTokenExpiry() time.Duration {
	return durationEnv("ACCESS_TOKEN_EXPIRY", 3*24*time.Hour)
}

func (Secrets) GetRefreshTokenExpiry() time.Duration {
	return durationEnv("REFRESH_TOKEN_EXPIRY", 30*24*time.Hour)
}

func (Secrets) GetVerificationTokenExpiry() time.Duration {
	return durationEnv("VERIFICATION_TOKEN_EXPIRY", 10*time.Minute)
}

func (Secrets) GetOTPExpiry() time.Duration {
	return durationEnv("OTP_EXPIRY", 5*time.Minute)
}

func (Secrets) GetOTPLength() int {
	return 6
}

func durationEnv(envVar string, defaultValue time.Duration) time.Duration {
	value := GetEnv(envVar, "")
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
