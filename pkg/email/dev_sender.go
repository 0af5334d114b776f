package email

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DevSender writes messages to a directory instead of delivering them.
// Each message produces a .json metadata file plus .txt, .html and the
// attachment when present.
type DevSender struct {
	dir string
	now func() time.Time
}

// NewDevSender creates a development sender rooted at dir.
// The directory is created on first send.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir, now: time.Now}
}

type messageMetadata struct {
	Timestamp  string `json:"timestamp"`
	From       string `json:"from"`
	To         string `json:"to"`
	ReplyTo    string `json:"reply_to,omitempty"`
	Subject    string `json:"subject"`
	Tag        string `json:"tag,omitempty"`
	Attachment string `json:"attachment,omitempty"`
}

// Send implements Sender.
func (d *DevSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %v", ErrFailedToSendEmail, err)
	}

	now := d.now()
	identifier := msg.Tag
	if identifier == "" {
		identifier = msg.Subject
	}
	base := fmt.Sprintf("%s_%s", now.Format("2006_01_02_150405.000000000"), sanitizeFilename(identifier))

	files := map[string][]byte{}
	if msg.Text != "" {
		files[base+".txt"] = []byte(msg.Text)
	}
	if msg.HTML != "" {
		files[base+".html"] = []byte(msg.HTML)
	}

	meta := messageMetadata{
		Timestamp: now.Format(time.RFC3339),
		From:      msg.From,
		To:        msg.To,
		ReplyTo:   msg.ReplyTo,
		Subject:   msg.Subject,
		Tag:       msg.Tag,
	}
	if a := msg.Attachment; a != nil {
		meta.Attachment = base + "_" + sanitizeFilename(a.Filename)
		files[meta.Attachment] = a.Content
	}

	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal metadata: %v", ErrFailedToSendEmail, err)
	}
	files[base+".json"] = metaJSON

	for name, data := range files {
		if err := os.WriteFile(filepath.Join(d.dir, name), data, 0o644); err != nil {
			return fmt.Errorf("%w: failed to write %s: %v", ErrFailedToSendEmail, name, err)
		}
	}
	return nil
}

// Name implements Sender.
func (d *DevSender) Name() string { return ProviderDev }

var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizeFilename converts s into a short, lowercase, filesystem-safe name.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = sanitizeRegex.ReplaceAllString(s, "")

	const maxLength = 100
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}
