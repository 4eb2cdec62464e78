package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// Result envelope status bytes. The envelope is one status byte followed by
// the payload.
const (
	statusDocument = 0 // payload is the converted document
	statusArchive  = 1 // payload is a multi-file container
	statusError    = 2 // payload is "code\x00message"; code may be absent
)

// WasmRuntime hosts engine modules with wazero, a pure-Go WebAssembly
// runtime. The module is compiled once and instantiated fresh for each
// execution unit, so units stay isolated.
//
// Call contract expected from the module:
//
//	memory                                     exported linear memory
//	alloc(size u32) -> u32                     guest allocator
//	convert(toPtr, toLen, srcPtr, srcLen u32) -> u64
//
// convert returns (ptr << 32 | len) addressing a result envelope in guest
// memory, decoded per the status bytes above. The module's internals are
// otherwise opaque to this package.
type WasmRuntime struct {
	runtime wazero.Runtime

	mu       sync.Mutex
	compiled wazero.CompiledModule
}

var _ Runtime = (*WasmRuntime)(nil)

// NewWasmRuntime creates a WasmRuntime.
func NewWasmRuntime() *WasmRuntime {
	return &WasmRuntime{
		runtime: wazero.NewRuntime(context.Background()),
	}
}

// Instantiate compiles the module on first use and creates a fresh
// anonymous instance for one execution unit.
func (r *WasmRuntime) Instantiate(ctx context.Context, module []byte) (Instance, error) {
	compiled, err := r.compile(ctx, module)
	if err != nil {
		return nil, err
	}

	mod, err := r.runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		return nil, fmt.Errorf("instantiating engine module: %w", err)
	}

	inst := &wasmInstance{module: mod}
	if err := inst.resolveExports(); err != nil {
		_ = mod.Close(ctx)
		return nil, err
	}
	return inst, nil
}

func (r *WasmRuntime) compile(ctx context.Context, module []byte) (wazero.CompiledModule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.compiled == nil {
		compiled, err := r.runtime.CompileModule(ctx, module)
		if err != nil {
			return nil, fmt.Errorf("compiling engine module: %w", err)
		}
		r.compiled = compiled
	}
	return r.compiled, nil
}

// Close releases the wazero runtime and its compiled module cache.
func (r *WasmRuntime) Close(ctx context.Context) error {
	return r.runtime.Close(ctx)
}

// wasmInstance adapts one instantiated module to the Instance interface.
type wasmInstance struct {
	module  api.Module
	alloc   api.Function
	convert api.Function
}

func (i *wasmInstance) resolveExports() error {
	if i.module.Memory() == nil {
		return fmt.Errorf("%w: module exports no memory", ErrProtocol)
	}
	i.alloc = i.module.ExportedFunction("alloc")
	i.convert = i.module.ExportedFunction("convert")
	if i.alloc == nil || i.convert == nil {
		return fmt.Errorf("%w: module missing alloc/convert exports", ErrProtocol)
	}
	return nil
}

// Convert runs one call against the module. The ABI carries only the
// target and the payload; the module identifies the input format from the
// payload's magic bytes, so req.From is not forwarded.
func (i *wasmInstance) Convert(ctx context.Context, req Convert) (Result, error) {
	toPtr, err := i.write(ctx, []byte(req.Target))
	if err != nil {
		return Result{}, err
	}
	srcPtr, err := i.write(ctx, req.Source)
	if err != nil {
		return Result{}, err
	}

	ret, err := i.convert.Call(ctx,
		uint64(toPtr), uint64(len(req.Target)),
		uint64(srcPtr), uint64(len(req.Source)))
	if err != nil {
		return Result{}, fmt.Errorf("engine convert trapped: %w", err)
	}
	if len(ret) != 1 {
		return Result{}, fmt.Errorf("%w: convert returned %d values", ErrProtocol, len(ret))
	}

	ptr := uint32(ret[0] >> 32)
	size := uint32(ret[0])
	envelope, ok := i.module.Memory().Read(ptr, size)
	if !ok {
		return Result{}, fmt.Errorf("%w: result envelope out of memory range", ErrProtocol)
	}
	return decodeEnvelope(envelope)
}

func (i *wasmInstance) Close(ctx context.Context) error {
	return i.module.Close(ctx)
}

// write copies data into guest memory via the module allocator and returns
// the guest pointer.
func (i *wasmInstance) write(ctx context.Context, data []byte) (uint32, error) {
	if len(data) == 0 {
		return 0, nil
	}

	ret, err := i.alloc.Call(ctx, uint64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("engine alloc trapped: %w", err)
	}
	if len(ret) != 1 {
		return 0, fmt.Errorf("%w: alloc returned %d values", ErrProtocol, len(ret))
	}

	ptr := uint32(ret[0])
	if !i.module.Memory().Write(ptr, data) {
		return 0, fmt.Errorf("%w: alloc returned out-of-range pointer", ErrProtocol)
	}
	return ptr, nil
}

// decodeEnvelope parses a result envelope. The payload is copied out of
// guest memory: artifact ownership transfers fully to the caller.
func decodeEnvelope(envelope []byte) (Result, error) {
	if len(envelope) == 0 {
		return Result{}, fmt.Errorf("%w: empty result envelope", ErrProtocol)
	}

	status, payload := envelope[0], envelope[1:]
	switch status {
	case statusDocument:
		return Result{Data: append([]byte(nil), payload...)}, nil
	case statusArchive:
		return Result{Data: append([]byte(nil), payload...), Archive: true}, nil
	case statusError:
		code, message, found := strings.Cut(string(payload), "\x00")
		if !found {
			return Result{}, &Error{Message: string(payload)}
		}
		return Result{}, &Error{Code: code, Message: message}
	}
	return Result{}, fmt.Errorf("%w: unknown envelope status %d", ErrProtocol, status)
}
