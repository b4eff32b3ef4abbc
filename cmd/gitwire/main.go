// gitwire sends framed JSON commands to a gitwire daemon.
//
// One-shot usage:
//
//	gitwire status
//	gitwire log '{"count": 5}'
//
// With --mode interactive it prompts for commands; with --mode check it
// runs the scripted daemon checks.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"gitwire/client"
	"gitwire/config"
	"gitwire/internal/logging"
	"gitwire/loadbalance"
	"gitwire/middleware"
	"gitwire/registry"
	"gitwire/suite"
)

const usageText = `Usage: gitwire [flags] <command> [<json-params>]

Sends one length-prefixed JSON command to a gitwire daemon and prints the
pretty-printed reply.

Modes (--mode):
  command      send <command> with optional <json-params> (default)
  interactive  prompt for commands until "exit"
  check        run the scripted checks against a live daemon

Flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("gitwire", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usageText)
		fs.PrintDefaults()
	}

	host := fs.String("host", "", "daemon host (overrides config)")
	port := fs.Int("port", 0, "daemon port (overrides config)")
	mode := fs.String("mode", "command", "command, interactive, or check")
	configPath := fs.String("config", "", "path to TOML config file")
	discover := fs.String("discover", "", "comma-separated etcd endpoints for endpoint discovery")
	timeout := fs.Duration("timeout", 0, "round-trip timeout (overrides config)")
	verbose := fs.Bool("verbose", false, "enable debug logging")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "gitwire: %v\n", err)
			return 1
		}
		cfg = loaded
	}
	if *host != "" {
		cfg.Host = *host
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *timeout > 0 {
		cfg.Timeout = *timeout
	}
	if *discover != "" {
		cfg.EtcdEndpoints = strings.Split(*discover, ",")
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "gitwire: %v\n", err)
		return 1
	}

	logger := logging.New(stderr, "gitwire", *verbose)

	cli, err := buildClient(cfg, logger, *verbose)
	if err != nil {
		fmt.Fprintf(stderr, "gitwire: %v\n", err)
		return 1
	}

	switch *mode {
	case "command":
		return runCommand(cli, fs.Args(), stdout, stderr, fs.Usage)
	case "interactive":
		return runInteractive(cli, stdin, stdout, stderr)
	case "check":
		return runChecks(cli, cfg.Timeout, stdout)
	default:
		fmt.Fprintf(stderr, "gitwire: unknown mode %q\n", *mode)
		return 1
	}
}

func buildClient(cfg config.Config, logger zerolog.Logger, verbose bool) (*client.Client, error) {
	opts := client.Options{
		Addr:     cfg.Addr(),
		Timeout:  cfg.Timeout,
		Service:  cfg.Service,
		Balancer: newBalancer(cfg.Balancer),
	}

	if len(cfg.EtcdEndpoints) > 0 {
		reg, err := registry.NewEtcdRegistry(cfg.EtcdEndpoints)
		if err != nil {
			return nil, fmt.Errorf("connect etcd: %w", err)
		}
		opts.Registry = reg
		logger.Debug().Strs("endpoints", cfg.EtcdEndpoints).Msg("endpoint discovery enabled")
	}

	cli := client.New(opts)
	if verbose {
		cli.Use(middleware.Logging(logger))
	}
	return cli, nil
}

func newBalancer(name string) loadbalance.Balancer {
	switch name {
	case config.BalancerWeightedRandom:
		return &loadbalance.WeightedRandomBalancer{}
	case config.BalancerConsistentHash:
		return loadbalance.NewConsistentHashBalancer()
	default:
		return &loadbalance.RoundRobinBalancer{}
	}
}

// runCommand handles the default one-shot mode. Argument problems are
// reported before any network activity happens.
func runCommand(cli *client.Client, args []string, stdout, stderr io.Writer, usage func()) int {
	if len(args) == 0 {
		usage()
		return 1
	}

	params, err := parseParams(args[1:])
	if err != nil {
		fmt.Fprintf(stderr, "gitwire: invalid JSON parameters: %v\n", err)
		return 1
	}

	resp, err := cli.Do(context.Background(), args[0], params)
	if err != nil {
		// client.ErrConnect carries the dedicated "could not connect"
		// wording; everything else surfaces as a single line too.
		fmt.Fprintf(stderr, "gitwire: %v\n", err)
		return 1
	}

	out, err := resp.Pretty()
	if err != nil {
		fmt.Fprintf(stderr, "gitwire: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, out)
	return 0
}

// parseParams decodes the optional <json-params> argument. Absent params
// stay nil; the request layer turns that into an empty mapping.
func parseParams(rest []string) (map[string]any, error) {
	if len(rest) == 0 {
		return nil, nil
	}
	var params map[string]any
	if err := json.Unmarshal([]byte(rest[0]), &params); err != nil {
		return nil, err
	}
	return params, nil
}

func runChecks(cli *client.Client, timeout time.Duration, stdout io.Writer) int {
	checks := suite.DefaultChecks()

	// Pace the probes so a shared daemon is not hammered
	cli.Use(middleware.RateLimit(5, 1))

	// Budget the whole run: per-check timeout plus pacing slack
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(len(checks))*timeout+time.Minute)
	defer cancel()

	passed, ran := suite.New(cli, stdout).Run(ctx, checks)
	if passed != ran {
		return 1
	}
	return 0
}
