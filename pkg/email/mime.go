package email

import (
	"bytes"
	"fmt"

	"github.com/wneessen/go-mail"
)

// TagHeader carries Message.Tag on transports without native tagging.
const TagHeader = "X-Mail-Tag"

// BuildMIME converts msg into a go-mail message. The display name is applied
// to the sender address when set.
func BuildMIME(msg Message, fromName string) (*mail.Msg, error) {
	m := mail.NewMsg()

	var err error
	if fromName != "" {
		err = m.FromFormat(fromName, msg.From)
	} else {
		err = m.From(msg.From)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: sender: %w", ErrInvalidMessage, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("%w: recipient: %w", ErrInvalidMessage, err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("%w: reply-to: %w", ErrInvalidMessage, err)
		}
	}

	m.Subject(msg.Subject)
	m.SetMessageID()
	m.SetDate()
	if msg.Tag != "" {
		m.SetGenHeader(mail.Header(TagHeader), msg.Tag)
	}

	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBodyString(mail.TypeTextPlain, msg.Text)
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	case msg.HTML != "":
		m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	default:
		m.SetBodyString(mail.TypeTextPlain, msg.Text)
	}

	if a := msg.Attachment; a != nil {
		var opts []mail.FileOption
		if a.ContentType != "" {
			opts = append(opts, mail.WithFileContentType(mail.ContentType(a.ContentType)))
		}
		m.AttachReadSeeker(a.Filename, bytes.NewReader(a.Content), opts...)
	}

	return m, nil
}

// RawMIME renders msg as RFC 5322 bytes.
func RawMIME(msg Message, fromName string) ([]byte, error) {
	m, err := BuildMIME(msg, fromName)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("email: write mime: %w", err)
	}
	return buf.Bytes(), nil
}
