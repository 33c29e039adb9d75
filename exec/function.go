package exec

import (
	"errors"
	"fmt"
	"math"

	"github.com/skiff-wasm/skiff/abi"
	"github.com/skiff-wasm/skiff/wasm"
)

var ErrFunctionNotFound = errors.New("function not found")

// Function is a callable entry point. Both interpreted and native functions
// satisfy this interface; all of them are invoked through the native calling
// convention modeled by an abi.Frame.
type Function interface {
	// GetSignature returns this function's signature.
	GetSignature() wasm.FunctionSig
	// Layouts returns the function's parameter and return-value layouts.
	// These are computed once when the function record is created.
	Layouts() (params, returns abi.Layout)
	// Invoke calls the function. Arguments must already be placed in fr per
	// the parameter layout; return values are placed in fr per the return
	// layout. Invoke panics with a Trap on fatal faults.
	Invoke(t *Thread, fr *abi.Frame)
}

// A FunctionResolver resolves function indices to callable entry points. The
// resolver may perform work to produce its result (lazy compilation
// included); the interpreter assumes nothing about how the result was
// produced. Resolution may itself re-enter the interpreter.
type FunctionResolver interface {
	ResolveFunction(funcidx uint32) (Function, error)
}

// UncheckedCall invokes fn with raw argument slots and writes raw return
// slots. Behavior is undefined if the slice lengths do not match the
// signature.
func UncheckedCall(t *Thread, fn Function, args, returns []uint64) {
	params, results := fn.Layouts()
	fr := abi.NewFrame(params, results)
	fr.StoreAll(params, args)
	fn.Invoke(t, fr)
	fr.LoadAll(results, returns)
}

// Call invokes fn with typed arguments and returns typed results. Traps are
// recovered and returned as errors.
func Call(t *Thread, fn Function, args ...interface{}) (returns []interface{}, err error) {
	sig := fn.GetSignature()
	if len(args) != len(sig.ParamTypes) {
		return nil, fmt.Errorf("expected %v args; got %v", len(sig.ParamTypes), len(args))
	}

	rawArgs := make([]uint64, len(args))
	for i, v := range args {
		raw, ok := rawValue(sig.ParamTypes[i], v)
		if !ok {
			return nil, fmt.Errorf("cannot assign %T argument to a parameter of type %v", v, sig.ParamTypes[i])
		}
		rawArgs[i] = raw
	}

	defer func() {
		if e := Recover(recover()); e != nil {
			returns, err = nil, e
		}
	}()

	rawReturns := make([]uint64, len(sig.ReturnTypes))
	UncheckedCall(t, fn, rawArgs, rawReturns)

	returns = make([]interface{}, len(rawReturns))
	for i, t := range sig.ReturnTypes {
		returns[i] = typedValue(t, rawReturns[i])
	}
	return returns, nil
}

func rawValue(t wasm.ValueType, v interface{}) (uint64, bool) {
	switch v := v.(type) {
	case int32:
		return uint64(v), t == wasm.ValueTypeI32
	case int64:
		return uint64(v), t == wasm.ValueTypeI64
	case float32:
		return uint64(math.Float32bits(v)), t == wasm.ValueTypeF32
	case float64:
		return math.Float64bits(v), t == wasm.ValueTypeF64
	default:
		return 0, false
	}
}

func typedValue(t wasm.ValueType, raw uint64) interface{} {
	switch t {
	case wasm.ValueTypeI32:
		return int32(raw)
	case wasm.ValueTypeI64:
		return int64(raw)
	case wasm.ValueTypeF32:
		return math.Float32frombits(uint32(raw))
	case wasm.ValueTypeF64:
		return math.Float64frombits(raw)
	default:
		panic("unreachable")
	}
}
