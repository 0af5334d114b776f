package email

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"
)

// PostmarkAPI is the part of the Postmark client used by PostmarkSender.
type PostmarkAPI interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
}

// PostmarkSender delivers messages through the Postmark API.
type PostmarkSender struct {
	client   PostmarkAPI
	fromName string
}

// NewPostmarkSender builds a sender using cfg.Password as the server token.
func NewPostmarkSender(cfg Config) (*PostmarkSender, error) {
	if !cfg.HasCredential() {
		return nil, fmt.Errorf("%w: postmark server token is required", ErrInvalidConfig)
	}
	client := postmark.NewClient(cfg.Password, cfg.PostmarkAccountToken)
	return NewPostmarkSenderWithClient(client, cfg.FromName), nil
}

// NewPostmarkSenderWithClient wraps an existing client.
func NewPostmarkSenderWithClient(client PostmarkAPI, fromName string) *PostmarkSender {
	return &PostmarkSender{client: client, fromName: fromName}
}

// Send implements Sender.
func (s *PostmarkSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	from := msg.From
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, msg.From)
	}

	e := postmark.Email{
		From:       from,
		To:         msg.To,
		ReplyTo:    msg.ReplyTo,
		Subject:    msg.Subject,
		Tag:        msg.Tag,
		TextBody:   msg.Text,
		HTMLBody:   msg.HTML,
		TrackOpens: false,
	}
	if a := msg.Attachment; a != nil {
		e.Attachments = []postmark.Attachment{{
			Name:        a.Filename,
			Content:     base64.StdEncoding.EncodeToString(a.Content),
			ContentType: a.ContentType,
		}}
	}

	resp, err := s.client.SendEmail(ctx, e)
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	if resp.ErrorCode != 0 {
		return errors.Join(ErrFailedToSendEmail,
			fmt.Errorf("postmark error %d: %s", resp.ErrorCode, resp.Message))
	}
	return nil
}

// Name implements Sender.
func (s *PostmarkSender) Name() string { return ProviderPostmark }
