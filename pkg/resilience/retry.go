package resilience

import (
	"context"
	"time"

	"github.com/perchvoice/perch/pkg/adapters/stt"
	"github.com/perchvoice/perch/pkg/frames"
)

// RetryPolicy defines retry behavior for transient failures.
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

func NewRetryPolicy(maxRetries int, backoff time.Duration) RetryPolicy {
	if maxRetries <= 0 {
		maxRetries = 2
	}
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	return RetryPolicy{MaxRetries: maxRetries, Backoff: backoff}
}

// RetryRecognizer wraps a zero-retry recognizer with bounded retries.
// Recognizers themselves fail fast; resilience is the caller's layer.
// Only connection errors are retried.
type RetryRecognizer struct {
	inner  stt.Recognizer
	policy RetryPolicy
}

func NewRetryRecognizer(inner stt.Recognizer, policy RetryPolicy) *RetryRecognizer {
	return &RetryRecognizer{inner: inner, policy: policy}
}

func (r *RetryRecognizer) Name() string { return r.inner.Name() + "_retry" }

func (r *RetryRecognizer) Capabilities() stt.Capabilities { return r.inner.Capabilities() }

func (r *RetryRecognizer) Recognize(ctx context.Context, buf frames.Buffer, params stt.RecognizeParams) (stt.Result, error) {
	var res stt.Result
	var err error
	for attempt := 0; attempt <= r.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(r.policy.Backoff):
			case <-ctx.Done():
				return stt.Result{}, stt.NewConnectionError(ctx.Err())
			}
		}
		res, err = r.inner.Recognize(ctx, buf, params)
		if err == nil {
			return res, nil
		}
		if !stt.IsConnectionError(err) {
			return res, err
		}
	}
	return res, err
}

func (r *RetryRecognizer) Close() error { return r.inner.Close() }

var _ stt.Recognizer = (*RetryRecognizer)(nil)
