package llm

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"time"

	"github.com/sethvargo/go-retry"
)

// Models tried in order; the next entry is only consulted once the previous
// one is exhausted.
var DefaultModelChain = []string{
	"gemini-2.5-flash",
	"gemini-2.5-pro",
}

const (
	maxAttemptsPerModel = 4
	baseRetryDelay      = 2 * time.Second
	maxRetryJitter      = time.Second
)

// Result reports the outcome of a chain walk.
type Result struct {
	Text     string
	Model    string
	Attempts int
	Latency  time.Duration
}

// Chain walks an ordered list of model identifiers. A rate-limited call is
// retried against the same model with exponential backoff plus jitter; any
// other failure advances to the next model immediately.
type Chain struct {
	caller Caller
	models []string

	// Injected so tests run without real delays or a hidden RNG.
	sleep  func(context.Context, time.Duration)
	jitter func() time.Duration
	clock  func() time.Time
}

// NewChain builds a chain over the given caller. With no models it uses
// DefaultModelChain.
func NewChain(caller Caller, models ...string) *Chain {
	if len(models) == 0 {
		models = DefaultModelChain
	}
	return &Chain{
		caller: caller,
		models: models,
		sleep:  sleepContext,
		jitter: func() time.Duration { return time.Duration(rand.Int63n(int64(maxRetryJitter))) },
		clock:  time.Now,
	}
}

// Generate runs the request through the chain. It returns ok=false once every
// model is exhausted without a usable response; callers are expected to fall
// back to static content rather than treat that as a hard failure.
func (c *Chain) Generate(ctx context.Context, req Request) (Result, bool) {
	start := c.clock()
	res := Result{}

	for _, model := range c.models {
		backoff := retry.NewExponential(baseRetryDelay)
		for attempt := 1; attempt <= maxAttemptsPerModel; attempt++ {
			res.Attempts++
			text, err := c.caller.Generate(ctx, model, req)
			if err == nil {
				res.Text = text
				res.Model = model
				res.Latency = c.clock().Sub(start)
				return res, true
			}

			if !errors.Is(err, ErrRateLimited) {
				log.Printf("Model %s failed (%v), advancing to next model", model, err)
				break
			}
			if attempt == maxAttemptsPerModel {
				log.Printf("Model %s rate limited, retry budget spent, advancing to next model", model)
				break
			}

			if ctx.Err() != nil {
				res.Latency = c.clock().Sub(start)
				return res, false
			}
			delay, _ := backoff.Next()
			c.sleep(ctx, delay+c.jitter())
			if ctx.Err() != nil {
				res.Latency = c.clock().Sub(start)
				return res, false
			}
		}
	}

	res.Latency = c.clock().Sub(start)
	return res, false
}

// sleepContext waits for d or until ctx is cancelled, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
