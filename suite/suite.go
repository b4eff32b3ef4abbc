// Package suite runs scripted checks against a live gitwire daemon.
//
// Each check sends one command, expects a status field in the reply, and
// optionally validates the reply body. Pacing against a shared daemon is
// the caller's business; the CLI attaches a rate-limit middleware to the
// client it hands in.
package suite

import (
	"context"
	"fmt"
	"io"

	"gitwire/message"
)

// Caller is the client surface the suite drives.
type Caller interface {
	Do(ctx context.Context, command string, params map[string]any) (message.Response, error)
}

// Check is one scripted probe.
type Check struct {
	Name    string
	Command string
	Params  map[string]any

	// WantStatus is the expected "status" field, usually "success" or "error".
	WantStatus string

	// Validate optionally asserts on the reply body after the status matched.
	Validate func(body map[string]any) error
}

// Suite drives a sequence of checks and reports results.
type Suite struct {
	caller Caller
	out    io.Writer
}

// New builds a suite writing its report to out.
func New(caller Caller, out io.Writer) *Suite {
	return &Suite{caller: caller, out: out}
}

// Run executes the checks in order and returns (passed, run) totals.
// A failing check does not stop the run; a cancelled context does.
func (s *Suite) Run(ctx context.Context, checks []Check) (int, int) {
	passed, run := 0, 0

	for _, check := range checks {
		if err := ctx.Err(); err != nil {
			fmt.Fprintf(s.out, "aborted: %v\n", err)
			break
		}

		run++
		fmt.Fprintf(s.out, "check %d: %s\n", run, check.Name)

		if err := s.runOne(ctx, check); err != nil {
			fmt.Fprintf(s.out, "  FAIL: %v\n", err)
			continue
		}
		fmt.Fprintln(s.out, "  ok")
		passed++
	}

	fmt.Fprintf(s.out, "%d/%d checks passed\n", passed, run)
	return passed, run
}

func (s *Suite) runOne(ctx context.Context, check Check) error {
	resp, err := s.caller.Do(ctx, check.Command, check.Params)
	if err != nil {
		return err
	}

	var body map[string]any
	if err := resp.Decode(&body); err != nil {
		return err
	}

	if status, _ := body["status"].(string); status != check.WantStatus {
		return fmt.Errorf("status %q, want %q", status, check.WantStatus)
	}

	if check.Validate != nil {
		return check.Validate(body)
	}
	return nil
}

// DefaultChecks probes the daemon surface the reference test suite covered:
// connectivity, unknown-command rejection, and the log/branch/remote listings.
func DefaultChecks() []Check {
	return []Check{
		{
			Name:       "basic connectivity",
			Command:    "status",
			WantStatus: "success",
		},
		{
			Name:       "unknown command is rejected",
			Command:    "definitely_not_a_command",
			WantStatus: "error",
		},
		{
			Name:       "commit log",
			Command:    "log",
			WantStatus: "success",
			Validate: func(body map[string]any) error {
				_, err := dataList(body, "commits")
				return err
			},
		},
		{
			Name:       "commit log honors count",
			Command:    "log",
			Params:     map[string]any{"count": 5},
			WantStatus: "success",
			Validate: func(body map[string]any) error {
				commits, err := dataList(body, "commits")
				if err != nil {
					return err
				}
				if len(commits) > 5 {
					return fmt.Errorf("got %d commits, want at most 5", len(commits))
				}
				return nil
			},
		},
		{
			Name:       "branch list",
			Command:    "branch",
			WantStatus: "success",
			Validate: func(body map[string]any) error {
				_, err := dataList(body, "branches")
				return err
			},
		},
		{
			Name:       "remote list",
			Command:    "remote",
			WantStatus: "success",
			Validate: func(body map[string]any) error {
				_, err := dataList(body, "remotes")
				return err
			},
		},
	}
}

// dataList extracts data.<field> as a list from a reply body.
func dataList(body map[string]any, field string) ([]any, error) {
	data, ok := body["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("reply has no data object")
	}
	list, ok := data[field].([]any)
	if !ok {
		return nil, fmt.Errorf("data.%s is not a list", field)
	}
	return list, nil
}
