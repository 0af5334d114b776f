package intake

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/formrelay/pkg/email"
)

// DefaultMailTimeout bounds a dispatch when none is configured.
const DefaultMailTimeout = 30 * time.Second

// DeliveryError reports a failed dispatch. It never aborts the request.
type DeliveryError struct {
	Provider string
	Cause    error
	Timeout  bool
}

func (e *DeliveryError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("email delivery via %s timed out: %v", e.Provider, e.Cause)
	}
	return fmt.Sprintf("email delivery via %s failed: %v", e.Provider, e.Cause)
}

func (e *DeliveryError) Unwrap() error { return e.Cause }

// Dispatcher sends one notification and reports the result as a value.
type Dispatcher struct {
	sender  email.Sender
	timeout time.Duration
	metrics *Metrics
}

// NewDispatcher wraps sender with a per-dispatch timeout.
func NewDispatcher(sender email.Sender, timeout time.Duration, metrics *Metrics) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultMailTimeout
	}
	return &Dispatcher{sender: sender, timeout: timeout, metrics: metrics}
}

// Provider names the underlying sender.
func (d *Dispatcher) Provider() string {
	return d.sender.Name()
}

type sendResult struct {
	err error
}

// Dispatch sends msg and returns nil or a *DeliveryError. Sender panics and
// senders that ignore cancellation are both contained: the call returns once
// the timeout elapses even if the sender is still blocked.
func (d *Dispatcher) Dispatch(ctx context.Context, msg email.Message) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan sendResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- sendResult{err: fmt.Errorf("%w: sender panic: %v", ErrInternal, r)}
			}
		}()
		done <- sendResult{err: d.sender.Send(ctx, msg)}
	}()

	var err error
	select {
	case res := <-done:
		err = res.err
	case <-ctx.Done():
		err = ctx.Err()
	}
	d.metrics.observeDispatch(d.Provider(), err == nil, time.Since(start))

	if err == nil {
		return nil
	}
	return &DeliveryError{
		Provider: d.Provider(),
		Cause:    err,
		Timeout:  errors.Is(err, context.DeadlineExceeded),
	}
}
