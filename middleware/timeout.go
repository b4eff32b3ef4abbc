package middleware

import (
	"context"
	"fmt"
	"time"

	"gitwire/message"
)

// Timeout bounds the whole invocation, including dial and both frame
// transfers. The round trip keeps running in its goroutine until its own
// I/O deadline fires; the caller just stops waiting for it.
func Timeout(timeout time.Duration) Middleware {
	return func(next CallFunc) CallFunc {
		return func(ctx context.Context, req *message.Request) (message.Response, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			type result struct {
				resp message.Response
				err  error
			}
			done := make(chan result, 1)
			go func() {
				resp, err := next(ctx, req)
				done <- result{resp, err}
			}()

			select {
			case r := <-done:
				return r.resp, r.err
			case <-ctx.Done():
				return message.Response{}, fmt.Errorf("middleware: %q timed out after %s", req.Command, timeout)
			}
		}
	}
}
