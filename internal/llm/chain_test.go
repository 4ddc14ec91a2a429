package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// scriptedCaller replays a fixed sequence of responses and records every call.
type scriptedCaller struct {
	script []func() (string, error)
	calls  []string
}

func (c *scriptedCaller) Generate(ctx context.Context, model string, req Request) (string, error) {
	c.calls = append(c.calls, model)
	if len(c.script) == 0 {
		return "", errors.New("script exhausted")
	}
	next := c.script[0]
	c.script = c.script[1:]
	return next()
}

func rateLimited() (string, error) { return "", fmt.Errorf("%w: test", ErrRateLimited) }
func hardError() (string, error)   { return "", errors.New("400 bad request") }
func success(text string) func() (string, error) {
	return func() (string, error) { return text, nil }
}

func newTestChain(c Caller, models ...string) (*Chain, *[]time.Duration) {
	chain := NewChain(c, models...)
	var slept []time.Duration
	chain.sleep = func(_ context.Context, d time.Duration) { slept = append(slept, d) }
	chain.jitter = func() time.Duration { return 0 }
	return chain, &slept
}

func TestChainFirstModelSucceeds(t *testing.T) {
	caller := &scriptedCaller{script: []func() (string, error){success(`{"ok":true}`)}}
	chain, slept := newTestChain(caller, "model-a", "model-b")

	res, ok := chain.Generate(context.Background(), Request{Prompt: "hi"})
	if !ok {
		t.Fatal("Expected success, got exhausted chain")
	}
	if res.Text != `{"ok":true}` || res.Model != "model-a" {
		t.Errorf("Unexpected result %+v", res)
	}
	if res.Attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", res.Attempts)
	}
	if len(*slept) != 0 {
		t.Errorf("Expected no backoff sleeps, got %v", *slept)
	}
}

func TestChainRetriesRateLimitThenAdvances(t *testing.T) {
	// First model rate limited on every attempt; second model answers.
	caller := &scriptedCaller{script: []func() (string, error){
		rateLimited, rateLimited, rateLimited, rateLimited,
		success(`{"ok":true}`),
	}}
	chain, slept := newTestChain(caller, "model-a", "model-b")

	res, ok := chain.Generate(context.Background(), Request{Prompt: "hi"})
	if !ok {
		t.Fatal("Expected second model to succeed")
	}
	if res.Model != "model-b" {
		t.Errorf("Expected fallback to model-b, got %s", res.Model)
	}
	if res.Attempts != 5 {
		t.Errorf("Expected 5 attempts total, got %d", res.Attempts)
	}

	// Exponential backoff between same-model retries: 2s, 4s, 8s.
	want := []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}
	if len(*slept) != len(want) {
		t.Fatalf("Expected %d sleeps, got %v", len(want), *slept)
	}
	for i, d := range want {
		if (*slept)[i] != d {
			t.Errorf("Sleep %d: expected %v, got %v", i, d, (*slept)[i])
		}
	}
}

func TestChainHardErrorSkipsRetries(t *testing.T) {
	caller := &scriptedCaller{script: []func() (string, error){
		hardError,
		success(`{"ok":true}`),
	}}
	chain, slept := newTestChain(caller, "model-a", "model-b")

	res, ok := chain.Generate(context.Background(), Request{Prompt: "hi"})
	if !ok || res.Model != "model-b" {
		t.Fatalf("Expected immediate fallback to model-b, got ok=%v model=%s", ok, res.Model)
	}
	if len(*slept) != 0 {
		t.Errorf("Expected no sleeps for a non-retryable error, got %v", *slept)
	}
	if got := caller.calls; len(got) != 2 || got[0] != "model-a" || got[1] != "model-b" {
		t.Errorf("Unexpected call order %v", got)
	}
}

func TestChainStopsOnCancelledContext(t *testing.T) {
	caller := &scriptedCaller{script: []func() (string, error){
		rateLimited, rateLimited,
	}}
	chain, slept := newTestChain(caller, "model-a", "model-b")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, ok := chain.Generate(ctx, Request{Prompt: "hi"})
	if ok {
		t.Fatal("Expected no result on a cancelled context")
	}
	if res.Attempts != 1 {
		t.Errorf("Expected 1 attempt before bailing out, got %d", res.Attempts)
	}
	if len(*slept) != 0 {
		t.Errorf("Expected no backoff sleeps after cancellation, got %v", *slept)
	}
	if len(caller.calls) != 1 {
		t.Errorf("Expected no further model calls, got %v", caller.calls)
	}
}

func TestSleepContextReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		sleepContext(ctx, time.Hour)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sleepContext did not return on a cancelled context")
	}
}

func TestChainExhaustsAllModels(t *testing.T) {
	caller := &scriptedCaller{script: []func() (string, error){
		hardError, hardError,
	}}
	chain, _ := newTestChain(caller, "model-a", "model-b")

	res, ok := chain.Generate(context.Background(), Request{Prompt: "hi"})
	if ok {
		t.Fatal("Expected exhausted chain to report no result")
	}
	if res.Attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", res.Attempts)
	}
}
