package verify

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"countersign.org/internal/roles"
)

// RateLimited wraps a Verifier with a per-role token bucket. The engine core
// allows unlimited credential retries until expiry; hosts that want lockout
// behavior opt in by wrapping their verifier here. A throttled attempt is
// reported as a plain rejection.
type RateLimited struct {
	next  Verifier
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[roles.Role]*rate.Limiter
}

// NewRateLimited wraps next with a limit of r attempts per second and the
// given burst, tracked per role.
func NewRateLimited(next Verifier, r rate.Limit, burst int) *RateLimited {
	return &RateLimited{
		next:     next,
		limit:    r,
		burst:    burst,
		limiters: make(map[roles.Role]*rate.Limiter),
	}
}

func (rl *RateLimited) limiter(role roles.Role) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	l, ok := rl.limiters[role]
	if !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[role] = l
	}
	return l
}

// Verify implements Verifier.
func (rl *RateLimited) Verify(ctx context.Context, role roles.Role, credential string) bool {
	if !rl.limiter(role).Allow() {
		return false
	}
	return rl.next.Verify(ctx, role, credential)
}
