// Package client implements the one-shot gitwire command client.
//
// Every invocation owns its own connection: resolve an address, dial, send
// one request frame, read one response frame, close. The daemon never sees
// a second request on the same connection, and the socket is released on
// every exit path.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"

	"gitwire/codec"
	"gitwire/loadbalance"
	"gitwire/message"
	"gitwire/middleware"
	"gitwire/registry"
	"gitwire/transport"
)

// ErrConnect reports a dial that was refused or found the host unreachable.
// The CLI maps it to the dedicated "could not connect" message.
var ErrConnect = errors.New("could not connect to the server")

// DefaultTimeout bounds dial plus both frame transfers when Options.Timeout
// is zero. The reference behavior had no timeout at all; unbounded blocking
// on a dead peer is the one thing we refuse to reproduce.
const DefaultTimeout = 10 * time.Second

// Options configures a Client.
type Options struct {
	// Addr is the daemon address (host:port). Ignored when Registry is set.
	Addr string

	// Timeout bounds the whole round trip. Zero means DefaultTimeout.
	Timeout time.Duration

	// Codec encodes frame payloads. Nil means codec.Default (JSON).
	Codec codec.Codec

	// Registry, when non-nil, resolves daemon endpoints by Service name
	// instead of the static Addr.
	Registry registry.Registry

	// Balancer picks among discovered endpoints. Nil means round robin.
	Balancer loadbalance.Balancer

	// Service is the registry lookup name. Empty means "gitwire".
	Service string
}

// Client sends commands to a gitwire daemon.
type Client struct {
	opts Options
	call middleware.CallFunc
}

// New builds a client. Zero-value options fall back to sane defaults.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}
	if opts.Balancer == nil {
		opts.Balancer = &loadbalance.RoundRobinBalancer{}
	}
	if opts.Service == "" {
		opts.Service = "gitwire"
	}

	c := &Client{opts: opts}
	c.call = c.roundTrip
	return c
}

// Use wraps the call path with middlewares, outermost first. Must be called
// before Do; not safe to call concurrently with in-flight invocations.
func (c *Client) Use(mws ...middleware.Middleware) {
	c.call = middleware.Chain(mws...)(c.call)
}

// Do sends one command and returns the daemon's reply.
func (c *Client) Do(ctx context.Context, command string, params map[string]any) (message.Response, error) {
	return c.call(ctx, message.NewRequest(command, params))
}

// roundTrip is the innermost call: resolve, connect, send, receive.
func (c *Client) roundTrip(ctx context.Context, req *message.Request) (message.Response, error) {
	addr, err := c.resolve(ctx, req.Command)
	if err != nil {
		return message.Response{}, err
	}

	dialer := net.Dialer{Timeout: c.opts.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		if isConnectionRefused(err) {
			return message.Response{}, fmt.Errorf("%w: %s", ErrConnect, addr)
		}
		return message.Response{}, fmt.Errorf("client: dial %s: %w", addr, err)
	}

	ch := transport.NewChannel(conn, c.opts.Codec)
	defer ch.Close()

	deadline := time.Now().Add(c.opts.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := ch.SetDeadline(deadline); err != nil {
		return message.Response{}, fmt.Errorf("client: set deadline: %w", err)
	}

	if err := ch.Send(req); err != nil {
		return message.Response{}, err
	}

	var raw json.RawMessage
	if err := ch.Receive(&raw); err != nil {
		return message.Response{}, err
	}

	return message.Response{Raw: raw}, nil
}

// resolve returns the address for this invocation: the static Addr, or one
// endpoint picked from discovery when a registry is configured.
func (c *Client) resolve(ctx context.Context, command string) (string, error) {
	if c.opts.Registry == nil {
		return c.opts.Addr, nil
	}

	endpoints, err := c.opts.Registry.Discover(ctx, c.opts.Service)
	if err != nil {
		return "", fmt.Errorf("client: discover %s: %w", c.opts.Service, err)
	}

	ep, err := c.opts.Balancer.Pick(command, endpoints)
	if err != nil {
		return "", fmt.Errorf("client: pick endpoint for %s: %w", c.opts.Service, err)
	}
	return ep.Addr, nil
}

// isConnectionRefused reports no-listener and unreachable-host failures.
func isConnectionRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EHOSTUNREACH)
}
