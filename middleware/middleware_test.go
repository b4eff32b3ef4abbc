package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"gitwire/message"
)

func echoCall(_ context.Context, req *message.Request) (message.Response, error) {
	return message.Response{Raw: json.RawMessage(`{"ok":true}`)}, nil
}

func slowCall(ctx context.Context, req *message.Request) (message.Response, error) {
	select {
	case <-time.After(200 * time.Millisecond):
		return message.Response{Raw: json.RawMessage(`{"ok":true}`)}, nil
	case <-ctx.Done():
		return message.Response{}, ctx.Err()
	}
}

func TestLogging(t *testing.T) {
	call := Logging(zerolog.Nop())(echoCall)

	resp, err := call(context.Background(), message.NewRequest("status", nil))
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}
	if string(resp.Raw) != `{"ok":true}` {
		t.Fatalf("unexpected response: %s", resp.Raw)
	}
}

func TestLoggingPassesErrorThrough(t *testing.T) {
	boom := errors.New("boom")
	call := Logging(zerolog.Nop())(func(context.Context, *message.Request) (message.Response, error) {
		return message.Response{}, boom
	})

	_, err := call(context.Background(), message.NewRequest("status", nil))
	if !errors.Is(err, boom) {
		t.Fatalf("expect boom, got %v", err)
	}
}

func TestTimeoutPass(t *testing.T) {
	call := Timeout(500 * time.Millisecond)(echoCall)

	if _, err := call(context.Background(), message.NewRequest("status", nil)); err != nil {
		t.Fatalf("expect no error, got %v", err)
	}
}

func TestTimeoutExceeded(t *testing.T) {
	call := Timeout(50 * time.Millisecond)(slowCall)

	_, err := call(context.Background(), message.NewRequest("status", nil))
	if err == nil {
		t.Fatal("expect timeout error")
	}
}

func TestRateLimitPaces(t *testing.T) {
	// 100/s with burst 1: three calls need ~20ms of spacing in total
	call := RateLimit(100, 1)(echoCall)
	req := message.NewRequest("status", nil)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := call(context.Background(), req); err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Fatalf("calls were not paced, took %s", elapsed)
	}
}

func TestRateLimitCancelled(t *testing.T) {
	call := RateLimit(0.1, 1)(echoCall)
	req := message.NewRequest("status", nil)

	// First call consumes the burst token
	if _, err := call(context.Background(), req); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := call(ctx, req); err == nil {
		t.Fatal("expect error when context expires while waiting for a token")
	}
}

func TestChain(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next CallFunc) CallFunc {
			return func(ctx context.Context, req *message.Request) (message.Response, error) {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}

	call := Chain(tag("outer"), tag("inner"))(echoCall)
	if _, err := call(context.Background(), message.NewRequest("status", nil)); err != nil {
		t.Fatal(err)
	}

	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Fatalf("unexpected middleware order: %v", order)
	}
}
