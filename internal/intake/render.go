package intake

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/formrelay/pkg/email/templates"
	"github.com/dmitrymomot/formrelay/pkg/sanitizer"
)

// Notification is the rendered content of one submission email.
type Notification struct {
	Subject string
	Text    string
	HTML    string
}

// Renderer turns a submission into notification content. It is safe for
// concurrent use.
type Renderer struct {
	loc    *time.Location
	layout string
	brand  string
	tag    string
}

// NewRenderer resolves the time zone once.
func NewRenderer(cfg Config) (*Renderer, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	layout := cfg.TimeLayout
	if layout == "" {
		layout = time.RFC1123
	}
	return &Renderer{loc: loc, layout: layout, brand: cfg.Brand, tag: cfg.Tag}, nil
}

// Tag is the provider tag attached to every notification.
func (r *Renderer) Tag() string {
	return r.tag
}

// Subject builds the notification subject for source. Line breaks are
// stripped so a crafted source cannot add headers.
func Subject(source string) string {
	return "New Form Submission from " + sanitizer.Apply(source,
		sanitizer.PreventHeaderInjection,
		sanitizer.Trim,
		sanitizer.MaxLength(200),
	)
}

// FormatTime renders ts in the configured zone and layout.
func (r *Renderer) FormatTime(ts time.Time) string {
	return ts.In(r.loc).Format(r.layout)
}

// Render builds the subject, plain-text and markup bodies. Reserved fields
// are skipped; the rest appear in insertion order.
func (r *Renderer) Render(ctx context.Context, fields *Fields, source string, ts time.Time) (Notification, error) {
	when := r.FormatTime(ts)
	payload := fields.Payload()

	html, err := templates.Render(ctx, r.markup(payload, source, when))
	if err != nil {
		return Notification{}, fmt.Errorf("%w: %w", ErrRender, err)
	}

	return Notification{
		Subject: Subject(source),
		Text:    plainText(payload, source, when),
		HTML:    html,
	}, nil
}

func plainText(payload []Field, source, when string) string {
	var b strings.Builder
	b.WriteString("New Form Submission\n")
	b.WriteString("Source: " + source + "\n")
	b.WriteString("Time: " + when + "\n\n")
	for _, f := range payload {
		b.WriteString(f.Name + ": " + f.Value + "\n")
	}
	return b.String()
}

func (r *Renderer) markup(payload []Field, source, when string) templ.Component {
	fields := make([]Field, len(payload))
	for i, f := range payload {
		fields[i] = Field{Name: Escape(f.Name), Value: Escape(f.Value)}
	}
	return notificationEmail(notificationView{
		Brand:  Escape(r.brand),
		Source: Escape(source),
		Time:   Escape(when),
		Fields: fields,
	})
}
