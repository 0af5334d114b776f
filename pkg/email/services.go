package email

import (
	"fmt"
	"strings"
)

// SMTPEndpoint is a host/port pair. Implicit TLS is used on port 465,
// STARTTLS otherwise.
type SMTPEndpoint struct {
	Host string
	Port int
}

// ImplicitTLS reports whether the endpoint expects TLS from the first byte.
func (e SMTPEndpoint) ImplicitTLS() bool {
	return e.Port == 465
}

// wellKnownServices maps EMAIL_SERVICE names to their submission endpoints.
var wellKnownServices = map[string]SMTPEndpoint{
	"gmail":     {"smtp.gmail.com", 465},
	"outlook":   {"smtp-mail.outlook.com", 587},
	"hotmail":   {"smtp-mail.outlook.com", 587},
	"office365": {"smtp.office365.com", 587},
	"yahoo":     {"smtp.mail.yahoo.com", 465},
	"zoho":      {"smtp.zoho.com", 465},
	"icloud":    {"smtp.mail.me.com", 587},
	"sendgrid":  {"smtp.sendgrid.net", 587},
	"mailgun":   {"smtp.mailgun.org", 465},
	"postmark":  {"smtp.postmarkapp.com", 587},
	"ses":       {"email-smtp.us-east-1.amazonaws.com", 465},
	"fastmail":  {"smtp.fastmail.com", 465},
	"mailjet":   {"in-v3.mailjet.com", 587},
}

// ResolveSMTP returns the endpoint for cfg. SMTP_HOST and SMTP_PORT override
// the well-known service; a host without a port defaults to 587.
func ResolveSMTP(cfg Config) (SMTPEndpoint, error) {
	if cfg.SMTPHost != "" {
		ep := SMTPEndpoint{Host: cfg.SMTPHost, Port: cfg.SMTPPort}
		if ep.Port == 0 {
			ep.Port = 587
		}
		return ep, nil
	}

	ep, ok := wellKnownServices[strings.ToLower(strings.TrimSpace(cfg.Service))]
	if !ok {
		return SMTPEndpoint{}, fmt.Errorf("%w: %q", ErrUnknownService, cfg.Service)
	}
	if cfg.SMTPPort != 0 {
		ep.Port = cfg.SMTPPort
	}
	return ep, nil
}
