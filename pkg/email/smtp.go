package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"
)

// SMTPClient is the part of the go-mail client used by SMTPSender.
type SMTPClient interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// SMTPSender delivers messages over authenticated SMTP.
type SMTPSender struct {
	client   SMTPClient
	fromName string
}

// NewSMTPSender builds a sender for the endpoint resolved from cfg.
func NewSMTPSender(cfg Config) (*SMTPSender, error) {
	if !cfg.HasCredential() {
		return nil, fmt.Errorf("%w: smtp password is required", ErrInvalidConfig)
	}
	ep, err := ResolveSMTP(cfg)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	opts := []mail.Option{
		mail.WithPort(ep.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.User),
		mail.WithPassword(cfg.Password),
	}
	if ep.ImplicitTLS() {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}

	client, err := mail.NewClient(ep.Host, opts...)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	return NewSMTPSenderWithClient(client, cfg.FromName), nil
}

// NewSMTPSenderWithClient wraps an existing client.
func NewSMTPSenderWithClient(client SMTPClient, fromName string) *SMTPSender {
	return &SMTPSender{client: client, fromName: fromName}
}

// Send implements Sender.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	m, err := BuildMIME(msg, s.fromName)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	return nil
}

// Name implements Sender.
func (s *SMTPSender) Name() string { return ProviderSMTP }
