package exec

import (
	"github.com/skiff-wasm/skiff/abi"
	"github.com/skiff-wasm/skiff/wasm"
)

// A GoFunc adapts a Go function to the Function interface so native code can
// be called from interpreted code (and vice versa) through the same ABI
// bridge.
type GoFunc struct {
	signature wasm.FunctionSig
	params    abi.Layout
	returns   abi.Layout
	impl      func(t *Thread, args []uint64) []uint64
}

// NewGoFunc wraps impl as a callable function with the given signature. The
// implementation receives raw argument slots in declaration order and returns
// raw result slots in declaration order.
func NewGoFunc(sig wasm.FunctionSig, impl func(t *Thread, args []uint64) []uint64) *GoFunc {
	return &GoFunc{
		signature: sig,
		params:    abi.LayoutFor(sig.ParamTypes),
		returns:   abi.LayoutFor(sig.ReturnTypes),
		impl:      impl,
	}
}

func (f *GoFunc) GetSignature() wasm.FunctionSig {
	return f.signature
}

func (f *GoFunc) Layouts() (params, returns abi.Layout) {
	return f.params, f.returns
}

func (f *GoFunc) Invoke(t *Thread, fr *abi.Frame) {
	args := make([]uint64, len(f.params.Locations))
	fr.LoadAll(f.params, args)

	results := f.impl(t, args)

	fr.StoreAll(f.returns, results)
}
