package email

import (
	"context"

	"golang.org/x/time/rate"
)

// Throttled caps the outbound request rate to the provider across all
// concurrent dispatchers.
type Throttled struct {
	inner   Provider
	limiter *rate.Limiter
}

func Throttle(p Provider, rps int) *Throttled {
	return &Throttled{
		inner:   p,
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
	}
}

func (t *Throttled) Send(ctx context.Context, msg Message) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return t.inner.Send(ctx, msg)
}
