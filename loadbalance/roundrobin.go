package loadbalance

import (
	"fmt"
	"sync/atomic"

	"gitwire/registry"
)

// RoundRobinBalancer distributes invocations evenly across all endpoints in
// order. Uses an atomic counter for lock-free, goroutine-safe operation.
type RoundRobinBalancer struct {
	counter int64 // Atomic counter, incremented on each Pick
}

// Pick selects the next endpoint in round-robin order, ignoring the key.
func (b *RoundRobinBalancer) Pick(_ string, endpoints []registry.Endpoint) (*registry.Endpoint, error) {
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("no endpoints available")
	}
	index := atomic.AddInt64(&b.counter, 1) % int64(len(endpoints))
	return &endpoints[index], nil
}

func (b *RoundRobinBalancer) Name() string {
	return "RoundRobin"
}
