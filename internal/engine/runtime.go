package engine

import "context"

// Runtime instantiates engine modules inside execution units. Implemented
// by the wazero-backed wasm runtime and by the subprocess runtime.
type Runtime interface {
	Instantiate(ctx context.Context, module []byte) (Instance, error)
	Close(ctx context.Context) error
}

// Instance is one live engine module, owned by exactly one execution unit
// for its lifetime. Convert receives the full request message so every
// runtime sees the source format alongside the payload.
type Instance interface {
	Convert(ctx context.Context, req Convert) (Result, error)
	Close(ctx context.Context) error
}
