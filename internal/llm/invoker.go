package llm

import (
	"context"
	"errors"
	"time"
)

const (
	defaultMaxRetries = 2
	defaultBackoff    = 500 * time.Millisecond
)

// Invoker wraps a Client with bounded retry of transient failures.
// Fatal failures surface immediately; transient failures are retried up
// to maxRetries times with doubling backoff before surfacing. An in-flight
// call is always allowed to complete: cancellation is only observed
// between attempts, so billable work is never orphaned mid-call.
type Invoker struct {
	client     Client
	maxRetries int
	backoff    time.Duration
}

// NewInvoker wraps a client with the default retry policy
func NewInvoker(client Client) *Invoker {
	return &Invoker{
		client:     client,
		maxRetries: defaultMaxRetries,
		backoff:    defaultBackoff,
	}
}

// WithRetryPolicy overrides the retry count and initial backoff
func (inv *Invoker) WithRetryPolicy(maxRetries int, backoff time.Duration) *Invoker {
	inv.maxRetries = maxRetries
	inv.backoff = backoff
	return inv
}

// Invoke executes one generation request, retrying transient failures
func (inv *Invoker) Invoke(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	backoff := inv.backoff

	for attempt := 0; attempt <= inv.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, &TransientBackendError{Message: "retry abandoned", Cause: ctx.Err()}
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		resp, err := inv.client.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		var transient *TransientBackendError
		if !errors.As(err, &transient) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

// Close releases the underlying client
func (inv *Invoker) Close() error {
	return inv.client.Close()
}
