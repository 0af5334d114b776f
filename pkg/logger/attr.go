package logger

import (
	"log/slog"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RequestID records the request identifier under the key "request_id".
// If id is nil or empty, it returns an empty Attr.
func RequestID(id any) slog.Attr {
	if id == nil || id == "" {
		return slog.Attr{}
	}
	return slog.Any("request_id", id)
}

// Duration records a duration in milliseconds under the key "duration_ms".
func Duration(d time.Duration) slog.Attr {
	return slog.Int64("duration_ms", d.Milliseconds())
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records the event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Outcome records the terminal outcome of a submission under the key "outcome".
func Outcome(name string) slog.Attr {
	return slog.String("outcome", name)
}

// Source records the submission source label under the key "source".
func Source(source string) slog.Attr {
	return slog.String("source", source)
}

// ClientIP records the submitter address under the key "client_ip".
// Empty addresses are dropped.
func ClientIP(ip string) slog.Attr {
	if ip == "" {
		return slog.Attr{}
	}
	return slog.String("client_ip", ip)
}

// Provider records the mail provider name under the key "provider".
func Provider(name string) slog.Attr {
	return slog.String("provider", name)
}

// Fields records how many fields a submission carried under the key "fields".
func Fields(n int) slog.Attr {
	return slog.Int("fields", n)
}
