// Package jitter spreads retry delays so that clients failing together do
// not retry together.
package jitter

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// DefaultJitter adds up to 50% to a delay.
const DefaultJitter = 0.5

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// Duration returns a value in [d, d*(1+factor)].
func Duration(d time.Duration, factor float64) time.Duration {
	rngMu.Lock()
	extra := rng.Float64() * factor * float64(d)
	rngMu.Unlock()
	return d + time.Duration(extra)
}

// DurationWithSeed is Duration with a caller supplied source.
func DurationWithSeed(d time.Duration, factor float64, r *rand.Rand) time.Duration {
	return d + time.Duration(r.Float64()*factor*float64(d))
}

// ExponentialBackoff doubles base once per attempt (attempt 0 is base),
// caps the result at max and adds jitter.
func ExponentialBackoff(base, max time.Duration, attempt int, factor float64) time.Duration {
	backoff := base
	for i := 0; i < attempt; i++ {
		backoff *= 2
		if backoff >= max {
			backoff = max
			break
		}
	}
	return Duration(backoff, factor)
}

// Sleep waits for d or until ctx ends, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
