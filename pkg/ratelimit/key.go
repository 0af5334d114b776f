package ratelimit

import (
	"net/http"

	"github.com/dmitrymomot/formrelay/pkg/clientip"
)

// KeyFunc extracts the rate limit key from a request. An empty key skips
// limiting for that request.
type KeyFunc func(*http.Request) string

// ByClientIP keys requests by the address stored by the clientip middleware.
func ByClientIP(r *http.Request) string {
	return clientip.FromContext(r.Context())
}

// Prefixed namespaces the keys of fn so several limiters can share a store.
func Prefixed(prefix string, fn KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		key := fn(r)
		if key == "" {
			return ""
		}
		return prefix + key
	}
}
