package intake_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formrelay/internal/intake"
	"github.com/dmitrymomot/formrelay/pkg/email"
)

type funcSender struct {
	name string
	fn   func(ctx context.Context, msg email.Message) error
}

func (s funcSender) Send(ctx context.Context, msg email.Message) error { return s.fn(ctx, msg) }
func (s funcSender) Name() string { return s.name }

func testMessage() email.Message {
	return email.Message{
		From:    "relay@example.com",
		To:      "owner@example.com",
		Subject: "New Form Submission from test",
		Text:    "name: Ada\n",
	}
}

func TestDispatcher_Dispatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		var got email.Message
		d := intake.NewDispatcher(funcSender{name: "smtp", fn: func(_ context.Context, msg email.Message) error {
			got = msg
			return nil
		}}, time.Second, nil)

		require.NoError(t, d.Dispatch(ctx, testMessage()))
		assert.Equal(t, testMessage(), got)
		assert.Equal(t, "smtp", d.Provider())
	})

	t.Run("transport error", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("554 rejected")
		d := intake.NewDispatcher(funcSender{name: "smtp", fn: func(context.Context, email.Message) error {
			return cause
		}}, time.Second, nil)

		err := d.Dispatch(ctx, testMessage())
		var de *intake.DeliveryError
		require.ErrorAs(t, err, &de)
		assert.False(t, de.Timeout)
		assert.Equal(t, "smtp", de.Provider)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("sender honoring deadline", func(t *testing.T) {
		t.Parallel()

		d := intake.NewDispatcher(funcSender{name: "smtp", fn: func(ctx context.Context, _ email.Message) error {
			<-ctx.Done()
			return ctx.Err()
		}}, 20*time.Millisecond, nil)

		var de *intake.DeliveryError
		require.ErrorAs(t, d.Dispatch(ctx, testMessage()), &de)
		assert.True(t, de.Timeout)
	})

	t.Run("sender ignoring deadline", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		t.Cleanup(func() { close(release) })
		d := intake.NewDispatcher(funcSender{name: "smtp", fn: func(context.Context, email.Message) error {
			<-release
			return nil
		}}, 20*time.Millisecond, nil)

		start := time.Now()
		var de *intake.DeliveryError
		require.ErrorAs(t, d.Dispatch(ctx, testMessage()), &de)
		assert.True(t, de.Timeout)
		assert.Less(t, time.Since(start), 2*time.Second)
	})

	t.Run("panic", func(t *testing.T) {
		t.Parallel()

		d := intake.NewDispatcher(funcSender{name: "dev", fn: func(context.Context, email.Message) error {
			panic("boom")
		}}, time.Second, nil)

		err := d.Dispatch(ctx, testMessage())
		var de *intake.DeliveryError
		require.ErrorAs(t, err, &de)
		assert.ErrorIs(t, err, intake.ErrInternal)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("records latency", func(t *testing.T) {
		t.Parallel()

		reg := prometheus.NewRegistry()
		m := intake.NewMetrics(reg)
		d := intake.NewDispatcher(funcSender{name: "postmark", fn: func(context.Context, email.Message) error {
			return nil
		}}, time.Second, m)

		require.NoError(t, d.Dispatch(ctx, testMessage()))
		n, err := testutil.GatherAndCount(reg, "formrelay_dispatch_duration_seconds")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestDeliveryError_Message(t *testing.T) {
	t.Parallel()

	e := &intake.DeliveryError{Provider: "smtp", Cause: context.DeadlineExceeded, Timeout: true}
	assert.True(t, strings.Contains(e.Error(), "timed out"))
	assert.ErrorIs(t, e, context.DeadlineExceeded)
}
