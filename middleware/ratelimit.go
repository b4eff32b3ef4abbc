package middleware

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"gitwire/message"
)

// RateLimit paces invocations with a token bucket. Calls block until a
// token is available, which is what a scripted check run against a shared
// daemon wants: spacing, not rejection.
func RateLimit(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next CallFunc) CallFunc {
		return func(ctx context.Context, req *message.Request) (message.Response, error) {
			if err := limiter.Wait(ctx); err != nil {
				return message.Response{}, fmt.Errorf("middleware: rate limit wait: %w", err)
			}
			return next(ctx, req)
		}
	}
}
