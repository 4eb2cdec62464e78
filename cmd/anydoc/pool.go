package main

import (
	anydoc "github.com/avasse/go-anydoc"
)

// cliPool adapts anydoc.ConverterPool to the CLI's Pool interface.
type cliPool struct {
	inner *anydoc.ConverterPool
}

// Compile-time check that cliPool implements Pool.
var _ Pool = (*cliPool)(nil)

func newCLIPool(n int, opts ...anydoc.Option) *cliPool {
	return &cliPool{inner: anydoc.NewConverterPool(n, opts...)}
}

func (p *cliPool) Acquire() (Converter, error) {
	return p.inner.Acquire()
}

func (p *cliPool) Release(conv Converter) {
	if c, ok := conv.(*anydoc.Converter); ok {
		p.inner.Release(c)
	}
}

func (p *cliPool) Size() int {
	return p.inner.Size()
}

func (p *cliPool) Close() error {
	return p.inner.Close()
}
