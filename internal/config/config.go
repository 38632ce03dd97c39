package config

type Config interface {
	EnvConfig
	SecretsConfig
	MailConfig
	OAuthConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetDatabaseURL() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Secrets
	Mail
	OAuth
}

func New() Config {
	return mainConfig{}
}
