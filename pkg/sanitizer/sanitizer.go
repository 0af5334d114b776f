// Package sanitizer holds small string transforms applied to untrusted
// submission content before it reaches mail headers, markup or file names.
package sanitizer

import (
	"html"
	"path"
	"regexp"
	"strings"
	"unicode"
)

var unsafeFilename = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// maxFilenameBytes is the common filesystem limit for one path component.
const maxFilenameBytes = 255

// Apply runs transforms over value in order.
func Apply[T any](value T, transforms ...func(T) T) T {
	for _, transform := range transforms {
		value = transform(value)
	}
	return value
}

// Compose returns a reusable pipeline of transforms.
func Compose[T any](transforms ...func(T) T) func(T) T {
	return func(value T) T {
		return Apply(value, transforms...)
	}
}

// EscapeHTML maps & < > " ' to entities. Text without those characters is
// returned unchanged, so escaping safe text is idempotent.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

// PreventHeaderInjection drops CR, LF and NUL so s cannot start a new header.
func PreventHeaderInjection(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\r', '\n', 0:
			return -1
		}
		return r
	}, s)
}

// RemoveControlChars drops control characters except tab, CR and LF.
func RemoveControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// Trim removes surrounding whitespace.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// MaxLength returns a transform that truncates to n runes.
func MaxLength(n int) func(string) string {
	return func(s string) string {
		if n <= 0 {
			return ""
		}
		runes := []rune(s)
		if len(runes) <= n {
			return s
		}
		return string(runes[:n])
	}
}

// SanitizeFilename keeps the last path component of name, replaces characters
// that are unsafe on common filesystems with "_", trims spaces and dots, and
// caps the result at 255 bytes. It never returns an empty name.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(name)
	if name == "/" || name == "." {
		name = ""
	}

	safe := unsafeFilename.ReplaceAllString(name, "_")
	safe = strings.Trim(safe, " .")

	if len(safe) > maxFilenameBytes {
		ext := path.Ext(safe)
		if len(ext) >= maxFilenameBytes {
			ext = ""
		}
		safe = strings.ToValidUTF8(safe[:maxFilenameBytes-len(ext)], "") + ext
	}
	if safe == "" {
		return "file"
	}
	return safe
}
