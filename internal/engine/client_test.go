package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

// countingSource records how many times the module bytes were fetched.
type countingSource struct {
	data    []byte
	err     error
	fetches atomic.Int32
}

func (s *countingSource) Fetch(context.Context) ([]byte, error) {
	s.fetches.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

func TestClientConvert(t *testing.T) {
	t.Parallel()

	inst := newStubInstance(Result{Data: []byte("converted"), Archive: true}, nil)
	c := NewClient(&stubRuntime{instance: inst}, StaticSource("module"))

	res, err := c.Convert(context.Background(), []byte("# src"), ".md", ".epub")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if string(res.Data) != "converted" {
		t.Errorf("result data = %q", res.Data)
	}
	if !res.Archive {
		t.Error("archive flag lost in transit")
	}
	if got := inst.converts.Load(); got != 1 {
		t.Errorf("instance convert calls = %d, want 1", got)
	}
}

func TestClientConvertSurfacesEngineError(t *testing.T) {
	t.Parallel()

	inst := newStubInstance(Result{}, &Error{Code: CodeUnknownInputFormat, Message: "no reader"})
	c := NewClient(&stubRuntime{instance: inst}, StaticSource("module"))

	_, err := c.Convert(context.Background(), []byte("src"), ".md", ".docx")

	var engErr *Error
	if !errors.As(err, &engErr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if engErr.Code != CodeUnknownInputFormat {
		t.Errorf("code = %q, want %q", engErr.Code, CodeUnknownInputFormat)
	}
	if engErr.Message != "no reader" {
		t.Errorf("message = %q", engErr.Message)
	}
}

func TestClientConvertInstantiationFailure(t *testing.T) {
	t.Parallel()

	c := NewClient(&stubRuntime{err: errors.New("bad module")}, StaticSource("module"))

	_, err := c.Convert(context.Background(), []byte("src"), ".md", ".docx")

	var engErr *Error
	if !errors.As(err, &engErr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if engErr.Message != "bad module" {
		t.Errorf("message = %q", engErr.Message)
	}
}

func TestClientConvertModuleFetchFailure(t *testing.T) {
	t.Parallel()

	source := &countingSource{err: errors.New("network down")}
	c := NewClient(&stubRuntime{instance: newStubInstance(Result{}, nil)}, source)

	_, err := c.Convert(context.Background(), []byte("src"), ".md", ".docx")
	if !errors.Is(err, ErrModuleUnavailable) {
		t.Errorf("error = %v, want ErrModuleUnavailable", err)
	}

	// The failure latches: another call reports it without refetching.
	_, err = c.Convert(context.Background(), []byte("src"), ".md", ".docx")
	if !errors.Is(err, ErrModuleUnavailable) {
		t.Errorf("second call error = %v, want ErrModuleUnavailable", err)
	}
	if got := source.fetches.Load(); got != 1 {
		t.Errorf("fetch count = %d, want 1", got)
	}
}

func TestClientConcurrentConvertsShareOneFetch(t *testing.T) {
	t.Parallel()

	source := &countingSource{data: []byte("module")}
	rt := &stubRuntime{instance: newStubInstance(Result{Data: []byte("out")}, nil)}
	c := NewClient(rt, source)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if _, err := c.Convert(context.Background(), []byte("src"), ".md", ".docx"); err != nil {
				t.Errorf("Convert() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if got := source.fetches.Load(); got != 1 {
		t.Errorf("fetch count = %d, want 1", got)
	}
	// One fresh unit per request.
	if got := rt.instantiations.Load(); got != 8 {
		t.Errorf("instantiations = %d, want 8", got)
	}
}

func TestClientInitialize(t *testing.T) {
	t.Parallel()

	source := &countingSource{data: []byte("module")}
	c := NewClient(&stubRuntime{instance: newStubInstance(Result{}, nil)}, source)

	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("second Initialize() error = %v", err)
	}
	if got := source.fetches.Load(); got != 1 {
		t.Errorf("fetch count = %d, want 1", got)
	}
}

func TestClientConvertHonorsContextDuringAwait(t *testing.T) {
	t.Parallel()

	// A source that never resolves within the test's patience.
	block := make(chan struct{})
	defer close(block)
	source := blockingSource{ch: block}

	c := NewClient(&stubRuntime{instance: newStubInstance(Result{}, nil)}, source)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Convert(ctx, []byte("src"), ".md", ".docx")
	if !errors.Is(err, ErrModuleUnavailable) {
		t.Errorf("error = %v, want ErrModuleUnavailable", err)
	}
}

type blockingSource struct {
	ch chan struct{}
}

func (s blockingSource) Fetch(ctx context.Context) ([]byte, error) {
	select {
	case <-s.ch:
		return nil, errors.New("released")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
