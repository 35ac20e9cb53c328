// Package ratelimit provides the TTL counter store behind the public
// contact form's abuse guard. The store is injected so a deployment with
// several instances can point them at the shared database implementation
// instead of per-process state.
package ratelimit

import (
	"context"
	"time"
)

// Store counts hits per key inside a rolling window. Incr returns the count
// including the current hit; the counter resets once the window elapses.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (int, error)
}

// Limiter applies a max-hits-per-window policy on top of a Store.
type Limiter struct {
	Store  Store
	Max    int
	Window time.Duration
}

// Allow records a hit for key and reports whether it stays under the limit.
// A store error fails open: blocking legitimate leads over a counter glitch
// is worse than letting one extra request through.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	n, err := l.Store.Incr(ctx, key, l.Window)
	if err != nil {
		return true
	}
	return n <= l.Max
}
