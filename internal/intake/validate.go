package intake

import "github.com/dmitrymomot/formrelay/pkg/sanitizer"

// Validate rejects bot-flagged and empty submissions. The honeypot check runs
// first so a bot posting only the trap field is reported as spam.
func Validate(fields *Fields) error {
	if v, ok := fields.Get(FieldHoneypot); ok && v != "" {
		return ErrSpamDetected
	}
	if len(fields.Payload()) == 0 {
		return ErrEmptyPayload
	}
	return nil
}

// Escape makes user text safe to embed in the markup body.
func Escape(s string) string {
	return sanitizer.EscapeHTML(s)
}
