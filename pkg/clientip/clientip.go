// Package clientip resolves the submitter address of an HTTP request and
// stores it in the request context for rate limiting and persistence.
package clientip

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// DefaultHeaders lists the proxy headers consulted, in priority order, before
// falling back to RemoteAddr.
var DefaultHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// Resolver extracts client addresses from requests.
type Resolver struct {
	headers []string
}

// New returns a Resolver trusting the given headers. Without arguments it
// trusts DefaultHeaders.
func New(headers ...string) *Resolver {
	if len(headers) == 0 {
		headers = DefaultHeaders
	}
	return &Resolver{headers: headers}
}

// NewDirect returns a Resolver that ignores every proxy header.
func NewDirect() *Resolver {
	return &Resolver{}
}

// IP returns the normalized client address or "" when none is valid.
// X-Forwarded-For may hold a chain; the first valid entry wins.
func (r *Resolver) IP(req *http.Request) string {
	for _, h := range r.headers {
		value := req.Header.Get(h)
		if value == "" {
			continue
		}
		for candidate := range strings.SplitSeq(value, ",") {
			if ip := normalize(candidate); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return normalize(req.RemoteAddr)
	}
	return normalize(host)
}

// Middleware stores the resolved address in the request context.
func (r *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		next.ServeHTTP(w, req.WithContext(WithContext(req.Context(), r.IP(req))))
	})
}

type contextKey struct{}

// WithContext stores ip in ctx.
func WithContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKey{}, ip)
}

// FromContext returns the address stored by Middleware, or "".
func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(contextKey{}).(string)
	return ip
}

func normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return ""
	}
	return ip.String()
}
