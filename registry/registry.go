package registry

import "context"

// Endpoint describes one reachable gitwire daemon.
type Endpoint struct {
	Addr    string
	Weight  int // Weight for load balancing
	Version string
}

// Registry is the discovery surface the client resolves daemon addresses
// through when no static address is configured.
type Registry interface {
	Register(ctx context.Context, service string, ep Endpoint, ttlSeconds int64) error
	Deregister(ctx context.Context, service string, addr string) error
	Discover(ctx context.Context, service string) ([]Endpoint, error)
	Watch(ctx context.Context, service string) <-chan []Endpoint
}
