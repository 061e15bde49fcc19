package drivers

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/arbiterfs/arbiter/httppool"
)

const (
	// s3Attempts and httpAttempts bound the retry loops of the S3 and
	// plain HTTP drivers respectively.
	s3Attempts   = 200
	httpAttempts = 8

	baseSleep = time.Millisecond
	maxSleep  = 4096 * time.Millisecond

	// After this many consecutive failures the executor logs a
	// connection-quality warning. Observability only.
	qualityWarnThreshold = 5
)

// requestFunc produces one HTTP attempt. A nil error with any status code
// means the exchange completed; a non-nil error means no response arrived.
type requestFunc func() (*httppool.Response, error)

// retryExecutor retries a fallible HTTP operation with exponential backoff.
// Only server-side (5xx) statuses and transport-level failures are
// considered transient; any other status terminates immediately, success or
// not. The caller inspects the terminal response's status.
type retryExecutor struct {
	attempts int
	log      *slog.Logger

	// sleep is swappable for tests. Defaults to a context-aware sleep.
	sleep func(ctx context.Context, d time.Duration) error
}

func newRetryExecutor(attempts int, log *slog.Logger) *retryExecutor {
	if log == nil {
		log = slog.Default()
	}
	return &retryExecutor{
		attempts: attempts,
		log:      log,
		sleep:    sleepCtx,
	}
}

// newBackoff builds the deterministic doubling policy: 1ms, 2ms, 4ms, ...
// capped at 4096ms. No jitter and no elapsed-time cutoff; the attempt count
// is the only bound.
func newBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = baseSleep
	b.RandomizationFactor = 0
	b.Multiplier = 2
	b.MaxInterval = maxSleep
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// Do runs f until it returns a non-5xx response or the attempt limit is
// reached, sleeping between attempts. The last response (or transport error)
// is returned as-is after exhaustion; retries are never surfaced as a
// distinct failure.
func (e *retryExecutor) Do(ctx context.Context, f requestFunc) (*httppool.Response, error) {
	var (
		res   *httppool.Response
		err   error
		fails int
	)

	policy := newBackoff()

	for attempt := 0; attempt < e.attempts; attempt++ {
		res, err = f()

		retryable := err != nil || res.ServerError()
		if !retryable {
			return res, nil
		}

		fails++
		if fails == qualityWarnThreshold {
			e.log.Warn("degraded connection quality detected",
				slog.Int("consecutive_failures", fails))
		}

		if attempt == e.attempts-1 {
			break
		}
		if serr := e.sleep(ctx, policy.NextBackOff()); serr != nil {
			break
		}
	}

	return res, err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
