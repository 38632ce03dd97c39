package config

type MailConfig interface {
	GetMailRelayURL() string
	GetMailRelayKey() string
}

type Mail struct{}

var _ MailConfig = Mail{}

func (Mail) GetMailRelayURL() string {
	return GetEnv("MAIL_RELAY_URL", "")
}

func (Mail) GetMailRelayKey() string {
	return GetEnv("MAIL_RELAY_KEY", "")
}
