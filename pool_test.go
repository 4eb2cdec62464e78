package anydoc

import (
	"errors"
	"runtime"
	"sync"
	"testing"
)

func TestNewConverterPoolSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		n    int
		want int
	}{
		{name: "positive size", n: 3, want: 3},
		{name: "zero clamps to one", n: 0, want: 1},
		{name: "negative clamps to one", n: -5, want: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewConverterPool(tt.n)
			defer p.Close()

			if got := p.Size(); got != tt.want {
				t.Errorf("Size() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPoolAcquireRelease(t *testing.T) {
	t.Parallel()

	p := NewConverterPool(2)
	defer p.Close()

	conv1, err := p.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	conv2, err := p.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if conv1 == conv2 {
		t.Error("pool returned the same converter for two concurrent acquires")
	}

	p.Release(conv1)

	conv3, err := p.Acquire()
	if err != nil {
		t.Fatalf("Acquire() after release: error = %v", err)
	}
	if conv3 != conv1 {
		t.Error("released converter was not reused")
	}
	p.Release(conv2)
	p.Release(conv3)
}

func TestPoolConcurrentAcquire(t *testing.T) {
	t.Parallel()

	p := NewConverterPool(4)
	defer p.Close()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv, err := p.Acquire()
			if err != nil {
				t.Errorf("Acquire() error = %v", err)
				return
			}
			p.Release(conv)
		}()
	}
	wg.Wait()
}

func TestPoolCloseIdempotent(t *testing.T) {
	t.Parallel()

	p := NewConverterPool(1)

	conv, err := p.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	p.Release(conv)

	if err := p.Close(); err != nil {
		t.Errorf("first Close() error = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestPoolAcquireAfterClose(t *testing.T) {
	t.Parallel()

	p := NewConverterPool(2)

	conv, err := p.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	p.Release(conv)

	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Both the drained-channel path and the create path must report the
	// closed pool instead of handing out a nil converter.
	for i := 0; i < 3; i++ {
		got, err := p.Acquire()
		if !errors.Is(err, ErrPoolClosed) {
			t.Fatalf("Acquire() #%d error = %v, want ErrPoolClosed", i, err)
		}
		if got != nil {
			t.Fatalf("Acquire() #%d returned non-nil converter with error", i)
		}
	}
}

func TestPoolReleaseAfterClose(t *testing.T) {
	t.Parallel()

	p := NewConverterPool(1)

	conv, err := p.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Must not panic on the closed channel.
	p.Release(conv)
}

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	if got := ResolvePoolSize(5); got != 5 {
		t.Errorf("explicit workers: got %d, want 5", got)
	}

	got := ResolvePoolSize(0)
	if got < MinPoolSize || got > MaxPoolSize {
		t.Errorf("auto size %d outside [%d, %d]", got, MinPoolSize, MaxPoolSize)
	}

	want := runtime.GOMAXPROCS(0) / 2
	if want < MinPoolSize {
		want = MinPoolSize
	}
	if want > MaxPoolSize {
		want = MaxPoolSize
	}
	if got != want {
		t.Errorf("auto size = %d, want %d", got, want)
	}
}
