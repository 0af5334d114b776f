package email

import "time"

// Provider names accepted by MAIL_PROVIDER.
const (
	ProviderSMTP     = "smtp"
	ProviderPostmark = "postmark"
	ProviderSES      = "ses"
	ProviderDev      = "dev"
)

// Config selects and configures the outbound mail provider.
//
// User is the sender identity and Password the provider credential: the SMTP
// password, the Postmark server token or the SES secret access key.
type Config struct {
	Provider  string        `env:"MAIL_PROVIDER" envDefault:"smtp"`
	Service   string        `env:"EMAIL_SERVICE" envDefault:"gmail"`
	User      string        `env:"EMAIL_USER"`
	Password  string        `env:"EMAIL_PASS"`
	Recipient string        `env:"RECIPIENT_EMAIL"`
	FromName  string        `env:"EMAIL_FROM_NAME" envDefault:"Form Relay"`
	SMTPHost  string        `env:"SMTP_HOST"`
	SMTPPort  int           `env:"SMTP_PORT"`
	Timeout   time.Duration `env:"MAIL_TIMEOUT" envDefault:"30s"`

	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`

	SESRegion      string `env:"SES_REGION" envDefault:"us-east-1"`
	SESAccessKeyID string `env:"SES_ACCESS_KEY_ID"`

	DevDir string `env:"MAIL_DEV_DIR" envDefault:"tmp/mail"`
}

// HasSender reports whether both sender identity and recipient are set.
func (c Config) HasSender() bool {
	return c.User != "" && c.Recipient != ""
}

// HasCredential reports whether the provider credential is set.
func (c Config) HasCredential() bool {
	return c.Password != ""
}
