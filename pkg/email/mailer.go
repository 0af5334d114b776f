package email

import (
	"context"
	"fmt"
	"net/mail"
)

// Sender delivers one message through a provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	// Name identifies the provider in logs and metrics.
	Name() string
}

// Message is a notification with a plain-text body, an optional HTML
// alternative and at most one attachment.
type Message struct {
	From       string
	To         string
	ReplyTo    string
	Subject    string
	Text       string
	HTML       string
	Tag        string
	Attachment *Attachment
}

// Attachment is an in-memory file attached to a Message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Validate checks the addresses and that there is something to send.
func (m Message) Validate() error {
	if m.From == "" {
		return fmt.Errorf("%w: sender is required", ErrInvalidMessage)
	}
	if _, err := mail.ParseAddress(m.From); err != nil {
		return fmt.Errorf("%w: invalid sender %q", ErrInvalidMessage, m.From)
	}
	if m.To == "" {
		return fmt.Errorf("%w: recipient is required", ErrInvalidMessage)
	}
	if _, err := mail.ParseAddress(m.To); err != nil {
		return fmt.Errorf("%w: invalid recipient %q", ErrInvalidMessage, m.To)
	}
	if m.ReplyTo != "" {
		if _, err := mail.ParseAddress(m.ReplyTo); err != nil {
			return fmt.Errorf("%w: invalid reply-to %q", ErrInvalidMessage, m.ReplyTo)
		}
	}
	if m.Subject == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidMessage)
	}
	if m.Text == "" && m.HTML == "" {
		return fmt.Errorf("%w: body is required", ErrInvalidMessage)
	}
	if m.Attachment != nil && m.Attachment.Filename == "" {
		return fmt.Errorf("%w: attachment filename is required", ErrInvalidMessage)
	}
	return nil
}
