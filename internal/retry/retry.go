// Package retry wraps external API calls in bounded exponential backoff.
// Both remote services rate-limit; transient failures are the norm for
// long runs, so every adapter call goes through Do.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// maxAttempts bounds the total tries per call (initial + retries).
const maxAttempts = 4

// permanentError marks an error that must not be retried.
type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent wraps err so Do stops immediately instead of retrying.
// Adapters use it for 4xx responses other than 429.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do runs op with exponential backoff and jitter, up to maxAttempts
// tries. Context cancellation stops the retries. The returned error is
// the last attempt's error, unwrapped from any Permanent marker.
func Do(ctx context.Context, op func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxInterval = 8 * time.Second

	wrapped := func() error {
		err := op()
		if err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return backoff.Permanent(perm.err)
		}
		return err
	}

	err := backoff.Retry(wrapped, backoff.WithContext(
		backoff.WithMaxRetries(policy, maxAttempts-1), ctx))
	return err
}
