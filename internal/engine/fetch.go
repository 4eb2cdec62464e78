package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
)

// Sentinel errors for engine client operations.
var (
	ErrUnitTerminated    = errors.New("execution unit terminated")
	ErrProtocol          = errors.New("engine protocol violation")
	ErrModuleFetch       = errors.New("engine module fetch failed")
	ErrModuleUnavailable = errors.New("engine module unavailable")
)

// ModuleSource supplies the compiled engine module bytes.
type ModuleSource interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// HTTPSource fetches the module from a fixed URL.
type HTTPSource string

func (s HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, string(s), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModuleFetch, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModuleFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", ErrModuleFetch, string(s), resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrModuleFetch, err)
	}
	return data, nil
}

// FileSource reads the module from a local path.
type FileSource string

func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(string(s)) // #nosec G304 -- module path is operator-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModuleFetch, err)
	}
	return data, nil
}

// StaticSource serves module bytes already in memory. Used by tests and by
// runtimes that need no module payload.
type StaticSource []byte

func (s StaticSource) Fetch(context.Context) ([]byte, error) {
	return []byte(s), nil
}

// moduleState tracks the cache lifecycle.
type moduleState int

const (
	stateUninitialized moduleState = iota
	stateLoading
	stateReady
	stateFailed
)

// moduleCache holds the engine module bytes with an explicit
// uninitialized -> loading -> ready lifecycle. The fetch runs at most once;
// every caller awaits readiness instead of re-triggering it. A failed fetch
// latches: conversions report the fetch error and the caller decides
// whether to rebuild the client.
type moduleCache struct {
	source ModuleSource
	ready  chan struct{}

	mu    sync.Mutex
	state moduleState
	data  []byte
	err   error
}

func newModuleCache(source ModuleSource) *moduleCache {
	return &moduleCache{
		source: source,
		ready:  make(chan struct{}),
	}
}

// start begins the fetch if it has not begun. Idempotent. The fetch runs on
// the process background context: it belongs to the process, not to the
// caller that happened to trigger it.
func (c *moduleCache) start() {
	c.mu.Lock()
	if c.state != stateUninitialized {
		c.mu.Unlock()
		return
	}
	c.state = stateLoading
	c.mu.Unlock()

	go func() {
		data, err := c.source.Fetch(context.Background())

		c.mu.Lock()
		if err != nil {
			c.state = stateFailed
			c.err = err
		} else {
			c.state = stateReady
			c.data = data
		}
		c.mu.Unlock()

		close(c.ready)
	}()
}

// await suspends until the module bytes are available, the fetch failed, or
// ctx expires.
func (c *moduleCache) await(ctx context.Context) ([]byte, error) {
	c.start()

	select {
	case <-c.ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data, c.err
}
