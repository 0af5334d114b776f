package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formrelay/pkg/logger"
)

func TestGroup(t *testing.T) {
	t.Parallel()

	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	attr := logger.RequestID("abc")
	require.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "abc", attr.Value.Any())

	assert.True(t, logger.RequestID(nil).Equal(slog.Attr{}))
	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
}

func TestDuration(t *testing.T) {
	t.Parallel()

	attr := logger.Duration(1500 * time.Millisecond)
	require.Equal(t, "duration_ms", attr.Key)
	assert.Equal(t, int64(1500), attr.Value.Int64())
}

func TestDomainAttrs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		attr slog.Attr
		key  string
		want any
	}{
		{"component", logger.Component("intake"), "component", "intake"},
		{"event", logger.Event("dispatch"), "event", "dispatch"},
		{"outcome", logger.Outcome("delivered"), "outcome", "delivered"},
		{"source", logger.Source("contact"), "source", "contact"},
		{"client ip", logger.ClientIP("10.0.0.1"), "client_ip", "10.0.0.1"},
		{"provider", logger.Provider("smtp"), "provider", "smtp"},
		{"fields", logger.Fields(3), "fields", int64(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.key, tt.attr.Key)
			assert.Equal(t, tt.want, tt.attr.Value.Any())
		})
	}

	assert.True(t, logger.ClientIP("").Equal(slog.Attr{}))
}
