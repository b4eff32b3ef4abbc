package loadbalance

import (
	"fmt"
	"testing"

	"gitwire/registry"
)

var testEndpoints = []registry.Endpoint{
	{Addr: ":9001", Weight: 10, Version: "1.0"},
	{Addr: ":9002", Weight: 5, Version: "1.0"},
	{Addr: ":9003", Weight: 10, Version: "1.0"},
}

func TestRoundRobin(t *testing.T) {
	b := &RoundRobinBalancer{}

	// Pick 3 times, should cycle through all endpoints
	results := make([]string, 3)
	for i := 0; i < 3; i++ {
		ep, err := b.Pick("status", testEndpoints)
		if err != nil {
			t.Fatal(err)
		}
		results[i] = ep.Addr
	}

	// Pick again, should wrap around to first
	ep, _ := b.Pick("status", testEndpoints)
	if ep.Addr != results[0] {
		t.Fatalf("expect wrap around to %s, got %s", results[0], ep.Addr)
	}
}

func TestRoundRobinEmpty(t *testing.T) {
	b := &RoundRobinBalancer{}
	_, err := b.Pick("status", nil)
	if err == nil {
		t.Fatal("expect error for empty endpoint list")
	}
}

func TestWeightedRandom(t *testing.T) {
	b := &WeightedRandomBalancer{}

	counts := map[string]int{}
	n := 10000
	for i := 0; i < n; i++ {
		ep, err := b.Pick("log", testEndpoints)
		if err != nil {
			t.Fatal(err)
		}
		counts[ep.Addr]++
	}

	// Weight ratio is 10:5:10, so :9001 and :9003 should be ~2x of :9002
	ratio := float64(counts[":9001"]) / float64(counts[":9002"])
	if ratio < 1.5 || ratio > 2.5 {
		t.Fatalf("weight ratio :9001/:9002 = %.2f, expect ~2.0", ratio)
	}
}

func TestWeightedRandomAllZeroWeights(t *testing.T) {
	b := &WeightedRandomBalancer{}
	zero := []registry.Endpoint{{Addr: ":9001"}, {Addr: ":9002"}}

	for i := 0; i < 100; i++ {
		if _, err := b.Pick("log", zero); err != nil {
			t.Fatal(err)
		}
	}
}

func TestConsistentHash(t *testing.T) {
	b := NewConsistentHashBalancer()

	// Same command should always map to the same endpoint
	ep1, _ := b.Pick("log", testEndpoints)
	ep2, _ := b.Pick("log", testEndpoints)
	if ep1.Addr != ep2.Addr {
		t.Fatalf("same command mapped to different endpoints: %s vs %s", ep1.Addr, ep2.Addr)
	}

	// Different commands should (likely) map to different endpoints
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		ep, err := b.Pick(fmt.Sprintf("cmd-%d", i), testEndpoints)
		if err != nil {
			t.Fatal(err)
		}
		seen[ep.Addr] = true
	}

	// With 100 different keys and 3 nodes, we should hit at least 2
	if len(seen) < 2 {
		t.Fatalf("expect at least 2 different endpoints, got %d", len(seen))
	}
}

func TestConsistentHashRebuildOnChange(t *testing.T) {
	b := NewConsistentHashBalancer()

	before, _ := b.Pick("branch", testEndpoints)

	// Shrinking the set to one endpoint must not strand the key
	only := []registry.Endpoint{{Addr: ":9002", Weight: 5}}
	after, err := b.Pick("branch", only)
	if err != nil {
		t.Fatal(err)
	}
	if after.Addr != ":9002" {
		t.Fatalf("expect :9002 after rebuild, got %s", after.Addr)
	}
	_ = before
}
