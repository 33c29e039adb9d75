package exec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skiff-wasm/skiff/abi"
	"github.com/skiff-wasm/skiff/wasm"
)

func TestThreadDepth(t *testing.T) {
	thread := NewThread(2)
	thread.Enter()
	thread.Enter()
	assert.Equal(t, TrapCallStackExhausted, catchTrap(thread.Enter))

	thread.Leave()
	assert.Nil(t, catchTrap(thread.Enter))
}

func TestThreadDefaultDepth(t *testing.T) {
	thread := NewThread(0)
	assert.Equal(t, uint((1<<32)-1), thread.MaxDepth())
}

func TestRecover(t *testing.T) {
	assert.Nil(t, Recover(nil))
	assert.Equal(t, TrapUnreachable, Recover(TrapUnreachable))

	// Runtime divide-by-zero errors translate to traps.
	err := func() (err error) {
		defer func() { err = Recover(recover()) }()
		d := 0
		_ = 1 / d
		return nil
	}()
	assert.Equal(t, TrapIntegerDivideByZero, err)

	// Anything else re-panics.
	assert.Panics(t, func() { Recover("boom") })
}

func TestGoFuncCall(t *testing.T) {
	sig := wasm.FunctionSig{
		ParamTypes:  []wasm.ValueType{wasm.ValueTypeI32, wasm.ValueTypeF64},
		ReturnTypes: []wasm.ValueType{wasm.ValueTypeF64},
	}
	fn := NewGoFunc(sig, func(t *Thread, args []uint64) []uint64 {
		v := float64(int32(args[0])) + math.Float64frombits(args[1])
		return []uint64{math.Float64bits(v)}
	})

	thread := NewThread(0)
	returns, err := Call(&thread, fn, int32(2), 0.5)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{2.5}, returns)
}

func TestGoFuncSpilledArguments(t *testing.T) {
	// More parameters than integer registers; the trailing values travel in
	// the frame's stack slots.
	n := abi.NumIntRegs + 3
	params := make([]wasm.ValueType, n)
	for i := range params {
		params[i] = wasm.ValueTypeI32
	}
	sig := wasm.FunctionSig{ParamTypes: params, ReturnTypes: []wasm.ValueType{wasm.ValueTypeI32}}

	fn := NewGoFunc(sig, func(t *Thread, args []uint64) []uint64 {
		var sum int32
		for _, a := range args {
			sum += int32(a)
		}
		return []uint64{uint64(sum)}
	})

	args := make([]uint64, n)
	var expected int32
	for i := range args {
		args[i] = uint64(int32(i + 1))
		expected += int32(i + 1)
	}

	thread := NewThread(0)
	returns := make([]uint64, 1)
	UncheckedCall(&thread, fn, args, returns)
	assert.Equal(t, expected, int32(returns[0]))
}

func TestCallArgumentChecking(t *testing.T) {
	sig := wasm.FunctionSig{ParamTypes: []wasm.ValueType{wasm.ValueTypeI32}}
	fn := NewGoFunc(sig, func(t *Thread, args []uint64) []uint64 { return nil })

	thread := NewThread(0)
	_, err := Call(&thread, fn)
	assert.Error(t, err)

	_, err = Call(&thread, fn, int64(1))
	assert.Error(t, err)
}

func TestCallRecoversTraps(t *testing.T) {
	sig := wasm.FunctionSig{}
	fn := NewGoFunc(sig, func(t *Thread, args []uint64) []uint64 {
		panic(TrapUnreachable)
	})

	thread := NewThread(0)
	_, err := Call(&thread, fn)
	assert.Equal(t, TrapUnreachable, err)
}
