package loadbalance

import (
	"fmt"
	"hash/crc32"
	"sort"
	"strings"
	"sync"

	"gitwire/registry"
)

// ConsistentHashBalancer maps the command name to an endpoint using a hash
// ring, so repeated invocations of the same command land on the same daemon
// until the endpoint set changes.
//
// Each real endpoint is mapped to 100 virtual nodes on the ring to spread
// load evenly. ring holds the sorted virtual-node hashes, nodes maps each
// hash back to its endpoint, and built fingerprints the endpoint set the
// ring was built from.
type ConsistentHashBalancer struct {
	mu       sync.Mutex
	replicas int
	ring     []uint32
	nodes    map[uint32]registry.Endpoint
	built    string
}

// NewConsistentHashBalancer creates a hash ring with 100 virtual nodes per endpoint.
func NewConsistentHashBalancer() *ConsistentHashBalancer {
	return &ConsistentHashBalancer{
		replicas: 100,
		nodes:    make(map[uint32]registry.Endpoint),
	}
}

// Pick finds the endpoint responsible for the given command key.
// It rebuilds the ring when the endpoint set has changed since the last
// call, then binary-searches for the first node >= the key's hash. If the
// hash is larger than all nodes it wraps around to the first (ring property).
func (b *ConsistentHashBalancer) Pick(key string, endpoints []registry.Endpoint) (*registry.Endpoint, error) {
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("no endpoints available")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.rebuild(endpoints)

	hash := crc32.ChecksumIEEE([]byte(key))
	idx := sort.Search(len(b.ring), func(i int) bool {
		return b.ring[i] >= hash
	})
	if idx == len(b.ring) {
		idx = 0
	}

	ep := b.nodes[b.ring[idx]]
	return &ep, nil
}

// rebuild repopulates the ring when the endpoint set differs from the one
// the current ring was built from. Each virtual node is hashed from
// "{addr}#{i}" to spread evenly across the ring.
func (b *ConsistentHashBalancer) rebuild(endpoints []registry.Endpoint) {
	addrs := make([]string, len(endpoints))
	for i, ep := range endpoints {
		addrs[i] = ep.Addr
	}
	sort.Strings(addrs)
	fingerprint := strings.Join(addrs, ",")
	if fingerprint == b.built {
		return
	}

	b.ring = b.ring[:0]
	clear(b.nodes)
	for _, ep := range endpoints {
		for i := 0; i < b.replicas; i++ {
			hash := crc32.ChecksumIEEE([]byte(fmt.Sprintf("%s#%d", ep.Addr, i)))
			b.ring = append(b.ring, hash)
			b.nodes[hash] = ep
		}
	}
	// Keep the ring sorted for binary search in Pick
	sort.Slice(b.ring, func(i, j int) bool {
		return b.ring[i] < b.ring[j]
	})
	b.built = fingerprint
}

func (b *ConsistentHashBalancer) Name() string {
	return "ConsistentHash"
}
