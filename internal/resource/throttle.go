package resource

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateThrottle limits invocations with a token bucket. A single limiter is
// shared across all callers of the handler that declares it, matching the
// scope of a per-handler throttle class.
type RateThrottle struct {
	limiter *rate.Limiter
	scope   string
}

// NewRateThrottle builds a throttle allowing r events per second with the
// given burst. The scope names the throttle in denial messages.
func NewRateThrottle(r rate.Limit, burst int, scope string) *RateThrottle {
	if scope == "" {
		scope = "default"
	}
	return &RateThrottle{limiter: rate.NewLimiter(r, burst), scope: scope}
}

// Allow implements Throttle.
func (t *RateThrottle) Allow(ctx context.Context, req *Request) error {
	if !t.limiter.Allow() {
		return Throttled(fmt.Sprintf("request was throttled (scope %q)", t.scope))
	}
	return nil
}
