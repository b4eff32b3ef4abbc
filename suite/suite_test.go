package suite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"gitwire/message"
)

// scriptedCaller answers commands from a canned table.
type scriptedCaller struct {
	replies map[string]string
	calls   []string
}

func (c *scriptedCaller) Do(_ context.Context, command string, params map[string]any) (message.Response, error) {
	c.calls = append(c.calls, command)
	reply, ok := c.replies[command]
	if !ok {
		return message.Response{}, errors.New("no scripted reply")
	}
	if command == "log" {
		// Honor the count param like the daemon would
		if n, ok := params["count"].(int); ok {
			commits := make([]string, n)
			for i := range commits {
				commits[i] = fmt.Sprintf("c%d", i)
			}
			raw, _ := json.Marshal(map[string]any{
				"status": "success",
				"data":   map[string]any{"commits": commits},
			})
			return message.Response{Raw: raw}, nil
		}
	}
	return message.Response{Raw: json.RawMessage(reply)}, nil
}

func healthyCaller() *scriptedCaller {
	return &scriptedCaller{replies: map[string]string{
		"status":                   `{"status":"success"}`,
		"definitely_not_a_command": `{"status":"error","message":"unknown command"}`,
		"log":                      `{"status":"success","data":{"commits":["a","b","c"]}}`,
		"branch":                   `{"status":"success","data":{"branches":["main"]}}`,
		"remote":                   `{"status":"success","data":{"remotes":[]}}`,
	}}
}

func TestRunAllPass(t *testing.T) {
	var out bytes.Buffer
	s := New(healthyCaller(), &out)

	passed, run := s.Run(context.Background(), DefaultChecks())
	require.Equal(t, 6, run)
	require.Equal(t, 6, passed, out.String())
	require.Contains(t, out.String(), "6/6 checks passed")
}

func TestRunStatusMismatch(t *testing.T) {
	caller := healthyCaller()
	// The daemon accepts the bogus command: that check must fail
	caller.replies["definitely_not_a_command"] = `{"status":"success"}`

	var out bytes.Buffer
	passed, run := New(caller, &out).Run(context.Background(), DefaultChecks())
	require.Equal(t, 6, run)
	require.Equal(t, 5, passed)
	require.Contains(t, out.String(), `status "success", want "error"`)
}

func TestRunValidationFailure(t *testing.T) {
	caller := healthyCaller()
	caller.replies["branch"] = `{"status":"success","data":{"branches":"not-a-list"}}`

	var out bytes.Buffer
	passed, _ := New(caller, &out).Run(context.Background(), DefaultChecks())
	require.Equal(t, 5, passed)
	require.Contains(t, out.String(), "data.branches is not a list")
}

func TestRunCallerError(t *testing.T) {
	caller := &scriptedCaller{replies: map[string]string{}}

	var out bytes.Buffer
	passed, run := New(caller, &out).Run(context.Background(), DefaultChecks()[:1])
	require.Equal(t, 1, run)
	require.Equal(t, 0, passed)
	require.Contains(t, out.String(), "FAIL")
}

func TestRunCountCheckUsesParam(t *testing.T) {
	caller := healthyCaller()

	var out bytes.Buffer
	// Only the count check; the scripted caller builds exactly n commits
	checks := DefaultChecks()[3:4]
	passed, _ := New(caller, &out).Run(context.Background(), checks)
	require.Equal(t, 1, passed, out.String())
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	passed, run := New(healthyCaller(), &out).Run(ctx, DefaultChecks())
	require.Equal(t, 0, run)
	require.Equal(t, 0, passed)
	require.Contains(t, out.String(), "aborted")
}
