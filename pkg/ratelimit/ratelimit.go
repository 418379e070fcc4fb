// Package ratelimit provides a per-source throttle used before any outbound
// request to a named search or directory source. Each source gets its own
// minimum-interval token bucket; failure feedback widens the interval and
// success feedback narrows it back toward the configured minimum.
//
// WaitForSlot never blocks indefinitely: after the configured maximum wait
// the caller proceeds anyway, taking the over-rate risk instead of
// deadlocking a discovery run.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Options configure a Limiter.
type Options struct {
	// MinInterval is the baseline minimum time between requests to one source.
	MinInterval time.Duration
	// MaxInterval caps how far failure feedback can widen the interval.
	MaxInterval time.Duration
	// MaxWait bounds how long WaitForSlot may block before letting the caller
	// proceed over-rate.
	MaxWait time.Duration
	// FailureStreak is the number of consecutive failures after which the
	// interval doubles.
	FailureStreak int
}

// withDefaults fills zero fields with usable values.
func (o Options) withDefaults() Options {
	if o.MinInterval <= 0 {
		o.MinInterval = time.Second
	}
	if o.MaxInterval < o.MinInterval {
		o.MaxInterval = 16 * o.MinInterval
	}
	if o.MaxWait <= 0 {
		o.MaxWait = 30 * time.Second
	}
	if o.FailureStreak <= 0 {
		o.FailureStreak = 2
	}

	return o
}

// source holds the per-source bucket and adaptive state. Guarded by the
// owning Limiter's mutex.
type source struct {
	limiter  *rate.Limiter
	interval time.Duration
	failures int
}

// Limiter throttles requests per named source. It is shared, process-wide
// state across concurrent discovery runs and safe for concurrent use.
type Limiter struct {
	opts Options

	mu      sync.Mutex
	sources map[string]*source
}

// New returns a Limiter with the given options.
func New(opts Options) *Limiter {
	return &Limiter{
		opts:    opts.withDefaults(),
		sources: make(map[string]*source),
	}
}

// get returns the state for a source, creating it at the minimum interval.
func (l *Limiter) get(name string) *source {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.sources[name]
	if !ok {
		s = &source{
			limiter:  rate.NewLimiter(rate.Every(l.opts.MinInterval), 1),
			interval: l.opts.MinInterval,
		}
		l.sources[name] = s
	}

	return s
}

// WaitForSlot blocks until the source's bucket grants a slot, the bounded
// wait elapses (the caller then proceeds over-rate), or ctx is canceled.
// Only ctx cancellation produces an error.
func (l *Limiter) WaitForSlot(ctx context.Context, name string) error {
	s := l.get(name)

	waitCtx, cancel := context.WithTimeout(ctx, l.opts.MaxWait)
	defer cancel()

	if err := s.limiter.Wait(waitCtx); err != nil {
		// The caller's context takes priority; our own deadline just bounds
		// the wait.
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return nil
}

// ReportSuccess records a successful request against the source, resetting
// the failure streak and narrowing the interval halfway back toward the
// minimum.
func (l *Limiter) ReportSuccess(name string) {
	s := l.get(name)

	l.mu.Lock()
	defer l.mu.Unlock()

	s.failures = 0
	if s.interval > l.opts.MinInterval {
		s.interval = s.interval / 2
		if s.interval < l.opts.MinInterval {
			s.interval = l.opts.MinInterval
		}
		s.limiter.SetLimit(rate.Every(s.interval))
	}
}

// ReportFailure records a failed request against the source. Once the streak
// reaches FailureStreak the interval doubles, up to MaxInterval.
func (l *Limiter) ReportFailure(name string) {
	s := l.get(name)

	l.mu.Lock()
	defer l.mu.Unlock()

	s.failures++
	if s.failures < l.opts.FailureStreak {
		return
	}

	s.failures = 0
	s.interval = s.interval * 2
	if s.interval > l.opts.MaxInterval {
		s.interval = l.opts.MaxInterval
	}
	s.limiter.SetLimit(rate.Every(s.interval))
}

// Interval reports the source's current minimum interval. Used by logs and
// metrics.
func (l *Limiter) Interval(name string) time.Duration {
	s := l.get(name)

	l.mu.Lock()
	defer l.mu.Unlock()

	return s.interval
}
