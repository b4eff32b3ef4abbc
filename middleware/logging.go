package middleware

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"gitwire/message"
)

// Logging records each invocation's command, duration, and outcome.
func Logging(logger zerolog.Logger) Middleware {
	return func(next CallFunc) CallFunc {
		return func(ctx context.Context, req *message.Request) (message.Response, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			var evt *zerolog.Event
			if err != nil {
				evt = logger.Error().Err(err)
			} else {
				evt = logger.Info()
			}
			evt.Str("command", req.Command).
				Dur("duration", time.Since(start)).
				Msg("command round trip")
			return resp, err
		}
	}
}
