// Package middleware wraps the client's call path.
//
// A CallFunc performs one command round trip; middlewares compose around it
// in an onion: Chain(A, B)(call) runs A before B before the round trip.
package middleware

import (
	"context"

	"gitwire/message"
)

// CallFunc performs one command invocation against a daemon.
type CallFunc func(ctx context.Context, req *message.Request) (message.Response, error)

// Middleware wraps a CallFunc with extra behavior.
type Middleware func(next CallFunc) CallFunc

// Chain combines multiple middlewares into one. Middlewares are applied in
// the order given, outermost first.
func Chain(middlewares ...Middleware) Middleware {
	return func(next CallFunc) CallFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
