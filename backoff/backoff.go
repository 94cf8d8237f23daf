// Package backoff computes delays between readiness probe attempts.
// Dispatch calls themselves are never retried.
package backoff

import (
	"math/rand/v2"
	"time"
)

// MaxDelay caps DefaultStrategy.
const MaxDelay = 5 * time.Second

// Strategy computes the delay before the next attempt.
type Strategy interface {
	// Delay returns how long to wait after failed attempt n (1-indexed).
	Delay(attempt int) time.Duration
}

// Constant waits the same interval after every attempt.
type Constant time.Duration

// Delay returns the fixed interval.
func (c Constant) Delay(int) time.Duration { return time.Duration(c) }

// Exponential doubles the delay each attempt, starting at Initial and
// capped at Max when Max is positive. With Jitter set, each delay is drawn
// uniformly from [d/2, d] so that replicas probing one service drift apart.
type Exponential struct {
	Initial time.Duration
	Max     time.Duration
	Jitter  bool
}

// Delay returns Initial * 2^(attempt-1), capped at Max.
func (e Exponential) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := e.Initial
	for i := 1; i < attempt; i++ {
		if e.Max > 0 && d >= e.Max {
			break
		}
		if d > time.Duration(1<<62) {
			break
		}
		d *= 2
	}
	if e.Max > 0 && d > e.Max {
		d = e.Max
	}
	if e.Jitter && d > 1 {
		half := d / 2
		d = half + rand.N(d-half+1) //nolint:gosec // jitter does not need crypto rand
	}

	return d
}

// DefaultStrategy is a jittered exponential starting at 500ms and capped at
// MaxDelay.
func DefaultStrategy() Strategy {
	return Exponential{Initial: 500 * time.Millisecond, Max: MaxDelay, Jitter: true}
}
