// Package loadbalance provides strategies for choosing one gitwire daemon
// among the endpoints discovery returns.
//
// Three strategies are implemented:
//   - RoundRobin:      equal-capacity daemons, spread invocations evenly
//   - WeightedRandom:  heterogeneous daemons (different CPU/memory)
//   - ConsistentHash:  route the same command to the same daemon (cache affinity)
package loadbalance

import "gitwire/registry"

// Balancer selects a target endpoint for one invocation.
// key is the command being sent; strategies without affinity ignore it.
type Balancer interface {
	// Pick selects one endpoint from the available list.
	// May be called from multiple goroutines and must be goroutine-safe.
	Pick(key string, endpoints []registry.Endpoint) (*registry.Endpoint, error)

	// Name returns the strategy name (for logging/debugging).
	Name() string
}
