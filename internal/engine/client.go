package engine

import (
	"context"
	"fmt"
)

// Client owns the engine module cache and runs one execution unit per
// conversion request. Safe for concurrent use: requests never share a unit.
type Client struct {
	runtime Runtime
	cache   *moduleCache
}

// NewClient creates a Client for the given runtime and module source. The
// module is not fetched until Initialize or the first Convert.
func NewClient(rt Runtime, source ModuleSource) *Client {
	return &Client{
		runtime: rt,
		cache:   newModuleCache(source),
	}
}

// Initialize triggers the one-time module fetch and suspends until the
// cache is ready. Idempotent; concurrent callers share the single fetch.
func (c *Client) Initialize(ctx context.Context) error {
	_, err := c.cache.await(ctx)
	return err
}

// Convert runs one conversion on a fresh execution unit: load the module,
// await the acknowledgment, send the convert request, and await the single
// terminal message. The unit is terminated exactly once, on every exit
// path. Readiness is a precondition, not a race: a convert issued before
// the module fetch completes waits instead of failing.
func (c *Client) Convert(ctx context.Context, source []byte, sourceFormat, targetFormat string) (Result, error) {
	module, err := c.cache.await(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrModuleUnavailable, err)
	}

	u := spawn(c.runtime)
	defer u.terminate()

	if err := u.send(ctx, Load{Module: module}); err != nil {
		return Result{}, err
	}

	msg, err := u.recv(ctx)
	if err != nil {
		return Result{}, err
	}
	switch m := msg.(type) {
	case Loaded:
		// Module instantiated; proceed.
	case Fail:
		return Result{}, &Error{Code: m.Code, Message: m.Message}
	case Load, Convert, Result:
		return Result{}, fmt.Errorf("%w: %T before load acknowledgment", ErrProtocol, msg)
	}

	if err := u.send(ctx, Convert{Target: targetFormat, From: sourceFormat, Source: source}); err != nil {
		return Result{}, err
	}

	// No request IDs: this unit handles exactly one conversion in its
	// lifetime, so the first terminal message is definitionally the answer.
	msg, err = u.recv(ctx)
	if err != nil {
		return Result{}, err
	}
	switch m := msg.(type) {
	case Result:
		return m, nil
	case Fail:
		return Result{}, &Error{Code: m.Code, Message: m.Message}
	case Load, Convert, Loaded:
		return Result{}, fmt.Errorf("%w: %T instead of terminal message", ErrProtocol, msg)
	}

	return Result{}, fmt.Errorf("%w: no terminal message", ErrProtocol)
}

// Close releases the runtime. In-flight units drain on their own; per the
// resource model they are owned by their originating calls.
func (c *Client) Close() error {
	return c.runtime.Close(context.Background())
}
