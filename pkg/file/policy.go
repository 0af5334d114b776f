// Package file enforces the attachment policy for uploaded documents and
// optionally archives accepted attachments to local disk or S3.
package file

import (
	"mime"
	"net/http"
	"path"
	"slices"
	"strings"
)

// Default policy values.
const (
	DefaultMaxSize = 10 << 20
)

// DefaultAllowedExtensions are accepted when no allow-list is configured.
var DefaultAllowedExtensions = []string{"jpeg", "jpg", "png", "pdf"}

// Policy bounds attachment size and extension.
type Policy struct {
	MaxSize           int64
	AllowedExtensions []string
}

// NewPolicy normalizes the allow-list (lowercase, no dots, no blanks) and
// applies defaults for zero values.
func NewPolicy(maxSize int64, allowed []string) Policy {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	exts := make([]string, 0, len(allowed))
	for _, e := range allowed {
		e = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(e)), ".")
		if e != "" && !slices.Contains(exts, e) {
			exts = append(exts, e)
		}
	}
	if len(exts) == 0 {
		exts = slices.Clone(DefaultAllowedExtensions)
	}
	return Policy{MaxSize: maxSize, AllowedExtensions: exts}
}

// CheckName returns a *TypeError when the extension of name is not allowed.
func (p Policy) CheckName(name string) error {
	ext := Extension(name)
	if !slices.Contains(p.AllowedExtensions, ext) {
		return &TypeError{Ext: ext}
	}
	return nil
}

// CheckSize returns ErrFileTooLarge when size exceeds MaxSize.
func (p Policy) CheckSize(size int64) error {
	if size > p.MaxSize {
		return ErrFileTooLarge
	}
	return nil
}

// Extension returns the lowercased extension of name without the dot.
func Extension(name string) string {
	return strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
}

// DetectContentType sniffs data and falls back to the extension of name
// when sniffing only yields a generic type.
func DetectContentType(name string, data []byte) string {
	ct := http.DetectContentType(data)
	if ct != "application/octet-stream" && !strings.HasPrefix(ct, "text/plain") {
		return ct
	}
	if byExt := mime.TypeByExtension(path.Ext(name)); byExt != "" {
		return byExt
	}
	return ct
}
