package transport

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryableRequest issues req up to maxRetries times. Only transient network
// failures are retried; a failure that carries an HTTP response is returned
// after the first attempt. Attempts are strictly sequential, separated by an
// exponential wait of 1s, 2s, 4s, ... The resolved message of the final
// failure is published to the notifier once.
func (c *Client) RetryableRequest(ctx context.Context, req Request, out any, maxRetries int) error {
	if maxRetries < 1 {
		maxRetries = 1
	}

	policy := newRetryBackoff()

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		lastErr = c.execute(ctx, req, out)
		if lastErr == nil {
			return nil
		}

		c.logger.Info("request attempt failed",
			"method", req.Method,
			"path", req.Path,
			"attempt", attempt+1,
			"max_attempts", maxRetries,
			"error", lastErr,
		)

		if attempt == maxRetries-1 || !IsTransient(lastErr) {
			break
		}

		wait := policy.NextBackOff()
		retriesTotal.WithLabelValues(req.Method).Inc()
		if err := c.sleep(ctx, wait); err != nil {
			c.logger.Debug("retry wait interrupted", "error", err)
			break
		}
	}

	return c.fail(ctx, lastErr)
}

// newRetryBackoff yields 1s, 2s, 4s, ... without jitter and without an
// elapsed-time cutoff; the attempt budget bounds the loop instead.
func newRetryBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = 24 * time.Hour
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}
