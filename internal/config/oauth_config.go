package config

// OAuthConfig supplies the federated (Google) login client credentials and
// the deep links the mobile app is redirected to after the callback.
type OAuthConfig interface {
	GetGoogleClientID() string
	GetGoogleClientSecret() string
	GetMobileSuccessLink() string
	GetMobileErrorLink() string
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

func (OAuth) GetGoogleClientID() string {
	return GetEnv("GOOGLE_CLIENT_ID", "")
}

func (OAuth) GetGoogleClientSecret() string {
	return GetEnv("GOOGLE_CLIENT_SECRET", "")
}

func (OAuth) GetMobileSuccessLink() string {
	return GetEnv("MOBILE_SUCCESS_LINK", "app://auth/success")
}

func (OAuth) GetMobileErrorLink() string {
	return GetEnv("MOBILE_ERROR_LINK", "app://auth/error")
}
