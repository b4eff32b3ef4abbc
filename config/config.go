// Package config loads gitwire client settings from a TOML file, overlaid
// on built-in defaults. Only keys present in the file override defaults.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Balancer strategy names accepted in config and flags.
const (
	BalancerRoundRobin     = "round_robin"
	BalancerWeightedRandom = "weighted_random"
	BalancerConsistentHash = "consistent_hash"
)

// Config is the resolved client configuration.
type Config struct {
	Host          string
	Port          int
	Timeout       time.Duration
	EtcdEndpoints []string
	Service       string
	Balancer      string
}

// fileConfig is the raw TOML key mapping.
type fileConfig struct {
	Host          string   `toml:"host"`
	Port          int      `toml:"port"`
	TimeoutMS     int      `toml:"timeout_ms"`
	EtcdEndpoints []string `toml:"etcd_endpoints"`
	Service       string   `toml:"service"`
	Balancer      string   `toml:"balancer"`
}

// Default returns the built-in configuration: a local daemon on the
// protocol's default port, 10s round-trip budget, no discovery.
func Default() Config {
	return Config{
		Host:     "localhost",
		Port:     9876,
		Timeout:  10 * time.Second,
		Service:  "gitwire",
		Balancer: BalancerRoundRobin,
	}
}

// Load reads path and overlays its keys on Default.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("host") {
		cfg.Host = raw.Host
	}
	if meta.IsDefined("port") {
		cfg.Port = raw.Port
	}
	if meta.IsDefined("timeout_ms") {
		cfg.Timeout = time.Duration(raw.TimeoutMS) * time.Millisecond
	}
	if meta.IsDefined("etcd_endpoints") {
		cfg.EtcdEndpoints = raw.EtcdEndpoints
	}
	if meta.IsDefined("service") {
		cfg.Service = raw.Service
	}
	if meta.IsDefined("balancer") {
		cfg.Balancer = raw.Balancer
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Validate rejects values the client cannot act on.
func (c Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host must not be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	switch c.Balancer {
	case BalancerRoundRobin, BalancerWeightedRandom, BalancerConsistentHash:
	default:
		return fmt.Errorf("unknown balancer %q", c.Balancer)
	}
	return nil
}

// Addr returns the static daemon address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
