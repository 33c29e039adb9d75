package ipint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skiff-wasm/skiff/exec"
	"github.com/skiff-wasm/skiff/wasm"
	"github.com/skiff-wasm/skiff/wasm/code"
)

var (
	i32 = wasm.ValueTypeI32
	i64 = wasm.ValueTypeI64
	f32 = wasm.ValueTypeF32
	f64 = wasm.ValueTypeF64
)

func sig(params, returns []wasm.ValueType) wasm.FunctionSig {
	return wasm.FunctionSig{ParamTypes: params, ReturnTypes: returns}
}

func testModule(def *ModuleDefinition) *Module {
	return NewModule(def)
}

func call(t *testing.T, m *Module, name string, args ...interface{}) []interface{} {
	fn, err := m.ExportedFunction(name)
	require.NoError(t, err)

	thread := exec.NewThread(0)
	returns, err := exec.Call(&thread, fn, args...)
	require.NoError(t, err)
	return returns
}

func callTrap(t *testing.T, m *Module, name string, args ...interface{}) error {
	fn, err := m.ExportedFunction(name)
	require.NoError(t, err)

	thread := exec.NewThread(0)
	_, err = exec.Call(&thread, fn, args...)
	require.Error(t, err)
	return err
}

// singleFunction builds a module exporting one function named "main".
func singleFunction(signature wasm.FunctionSig, locals []wasm.LocalEntry, body ...code.Instruction) *Module {
	return testModule(&ModuleDefinition{
		Types: []wasm.FunctionSig{signature},
		Functions: []FunctionDefinition{
			{Signature: signature, Locals: locals, Code: code.Body(body...)},
		},
		Exports: map[string]uint32{"main": 0},
	})
}

func TestEmptyFunction(t *testing.T) {
	m := singleFunction(sig(nil, nil), nil,
		code.End(),
	)
	assert.Empty(t, call(t, m, "main"))
}

func TestAdd2(t *testing.T) {
	m := singleFunction(sig([]wasm.ValueType{i32, i32}, []wasm.ValueType{i32}), nil,
		code.LocalGet(0),
		code.LocalGet(1),
		code.I32Add(),
		code.End(),
	)
	assert.Equal(t, []interface{}{int32(7)}, call(t, m, "main", int32(3), int32(4)))
}

func TestConstants(t *testing.T) {
	m := singleFunction(sig(nil, []wasm.ValueType{i32, i64, f64}), nil,
		code.I32Const(-42),
		code.I64Const(1<<40),
		code.F64Const(6.25),
		code.End(),
	)
	assert.Equal(t, []interface{}{int32(-42), int64(1 << 40), 6.25}, call(t, m, "main"))
}

func TestDivideByZeroTraps(t *testing.T) {
	m := singleFunction(sig([]wasm.ValueType{i32}, []wasm.ValueType{i32}), nil,
		code.I32Const(1),
		code.LocalGet(0),
		code.I32DivU(),
		code.End(),
	)
	err := callTrap(t, m, "main", int32(0))
	assert.Equal(t, exec.TrapIntegerDivideByZero, err)
}

func TestDivSOverflowTraps(t *testing.T) {
	m := singleFunction(sig(nil, []wasm.ValueType{i32}), nil,
		code.I32Const(math.MinInt32),
		code.I32Const(-1),
		code.I32DivS(),
		code.End(),
	)
	err := callTrap(t, m, "main")
	assert.Equal(t, exec.TrapIntegerOverflow, err)
}

func TestUnreachableTraps(t *testing.T) {
	m := singleFunction(sig(nil, nil), nil,
		code.Unreachable(),
		code.End(),
	)
	err := callTrap(t, m, "main")
	assert.Equal(t, exec.TrapUnreachable, err)
}

func TestReservedOpcodeTraps(t *testing.T) {
	m := testModule(&ModuleDefinition{
		Types: []wasm.FunctionSig{sig(nil, nil)},
		Functions: []FunctionDefinition{
			{Signature: sig(nil, nil), Code: []byte{0x06, code.OpEnd}},
		},
		Exports: map[string]uint32{"main": 0},
	})
	err := callTrap(t, m, "main")
	assert.Equal(t, exec.TrapReservedOpcode, err)
}

func TestUnimplementedInstructionTraps(t *testing.T) {
	m := singleFunction(sig(nil, []wasm.ValueType{i32}), nil,
		code.GlobalGet(0),
		code.End(),
	)
	err := callTrap(t, m, "main")
	assert.Equal(t, exec.TrapUnimplementedInstruction, err)
}

func TestNestedBlockBr(t *testing.T) {
	// br 1 exits both blocks; the unreachable trap in between must be
	// skipped.
	m := singleFunction(sig(nil, []wasm.ValueType{i32}), nil,
		code.I32Const(1),
		code.Block(),
		code.Block(),
		code.Br(1),
		code.End(),
		code.Unreachable(),
		code.End(),
		code.I32Const(41),
		code.I32Add(),
		code.End(),
	)
	assert.Equal(t, []interface{}{int32(42)}, call(t, m, "main"))
}

func TestBrDiscardsOperands(t *testing.T) {
	// The two constants pushed inside the block are discarded when br
	// transfers out; the block's result is the kept top slot.
	m := singleFunction(sig(nil, []wasm.ValueType{i32}), nil,
		code.Block(code.BlockTypeI32),
		code.I32Const(7),
		code.I32Const(8),
		code.I32Const(9),
		code.Br(0),
		code.End(),
		code.End(),
	)
	assert.Equal(t, []interface{}{int32(9)}, call(t, m, "main"))
}

func TestIfElse(t *testing.T) {
	m := singleFunction(sig([]wasm.ValueType{i32}, []wasm.ValueType{i32}), nil,
		code.LocalGet(0),
		code.If(code.BlockTypeI32),
		code.I32Const(1),
		code.Else(),
		code.I32Const(2),
		code.End(),
		code.End(),
	)
	assert.Equal(t, []interface{}{int32(1)}, call(t, m, "main", int32(5)))
	assert.Equal(t, []interface{}{int32(2)}, call(t, m, "main", int32(0)))
}

func TestIfWithoutElse(t *testing.T) {
	m := singleFunction(sig([]wasm.ValueType{i32}, []wasm.ValueType{i32}), nil,
		code.LocalGet(0),
		code.If(),
		code.I32Const(20),
		code.LocalSet(0),
		code.End(),
		code.LocalGet(0),
		code.End(),
	)
	assert.Equal(t, []interface{}{int32(20)}, call(t, m, "main", int32(1)))
	assert.Equal(t, []interface{}{int32(0)}, call(t, m, "main", int32(0)))
}

func TestIfElseExclusive(t *testing.T) {
	thenCount, elseCount := 0, 0
	unit := sig(nil, nil)
	hostThen := exec.NewGoFunc(unit, func(t *exec.Thread, args []uint64) []uint64 {
		thenCount++
		return nil
	})
	hostElse := exec.NewGoFunc(unit, func(t *exec.Thread, args []uint64) []uint64 {
		elseCount++
		return nil
	})

	main := sig([]wasm.ValueType{i32}, nil)
	m := testModule(&ModuleDefinition{
		Types:   []wasm.FunctionSig{unit, main},
		Imports: []exec.Function{hostThen, hostElse},
		Functions: []FunctionDefinition{
			{Signature: main, Code: code.Body(
				code.LocalGet(0),
				code.If(),
				code.Call(0),
				code.Else(),
				code.Call(1),
				code.End(),
				code.End(),
			)},
		},
		Exports: map[string]uint32{"main": 2},
	})

	call(t, m, "main", int32(1))
	assert.Equal(t, 1, thenCount)
	assert.Equal(t, 0, elseCount)

	call(t, m, "main", int32(0))
	assert.Equal(t, 1, thenCount)
	assert.Equal(t, 1, elseCount)
}

func TestLoopSum(t *testing.T) {
	// Sums 1..n by counting local 0 down into accumulator local 1.
	m := singleFunction(sig([]wasm.ValueType{i32}, []wasm.ValueType{i32}),
		[]wasm.LocalEntry{{Count: 1, Type: i32}},
		code.Loop(),
		code.LocalGet(0),
		code.If(),
		code.LocalGet(1),
		code.LocalGet(0),
		code.I32Add(),
		code.LocalSet(1),
		code.LocalGet(0),
		code.I32Const(-1),
		code.I32Add(),
		code.LocalSet(0),
		code.Br(1),
		code.End(),
		code.End(),
		code.LocalGet(1),
		code.End(),
	)
	assert.Equal(t, []interface{}{int32(55)}, call(t, m, "main", int32(10)))
	assert.Equal(t, []interface{}{int32(0)}, call(t, m, "main", int32(0)))
	assert.Equal(t, []interface{}{int32(500500)}, call(t, m, "main", int32(1000)))
}

func TestBrTable(t *testing.T) {
	m := singleFunction(sig([]wasm.ValueType{i32}, []wasm.ValueType{i32}), nil,
		code.Block(),
		code.Block(),
		code.Block(),
		code.LocalGet(0),
		code.BrTable(2, 0, 1),
		code.End(),
		code.I32Const(10),
		code.Return(),
		code.End(),
		code.I32Const(20),
		code.Return(),
		code.End(),
		code.I32Const(30),
		code.End(),
	)
	assert.Equal(t, []interface{}{int32(10)}, call(t, m, "main", int32(0)))
	assert.Equal(t, []interface{}{int32(20)}, call(t, m, "main", int32(1)))
	assert.Equal(t, []interface{}{int32(30)}, call(t, m, "main", int32(2)))
	assert.Equal(t, []interface{}{int32(30)}, call(t, m, "main", int32(255)))
}

func TestSelect(t *testing.T) {
	m := singleFunction(sig([]wasm.ValueType{i32}, []wasm.ValueType{i32}), nil,
		code.I32Const(100),
		code.I32Const(200),
		code.LocalGet(0),
		code.Select(),
		code.End(),
	)
	assert.Equal(t, []interface{}{int32(100)}, call(t, m, "main", int32(1)))
	assert.Equal(t, []interface{}{int32(200)}, call(t, m, "main", int32(0)))
}

func TestCallBetweenFunctions(t *testing.T) {
	addSig := sig([]wasm.ValueType{i32, i32}, []wasm.ValueType{i32})
	mainSig := sig([]wasm.ValueType{i32}, []wasm.ValueType{i32})
	m := testModule(&ModuleDefinition{
		Types: []wasm.FunctionSig{addSig, mainSig},
		Functions: []FunctionDefinition{
			{Signature: mainSig, Code: code.Body(
				code.LocalGet(0),
				code.I32Const(100),
				code.Call(1),
				code.End(),
			)},
			{Signature: addSig, Code: code.Body(
				code.LocalGet(0),
				code.LocalGet(1),
				code.I32Add(),
				code.End(),
			)},
		},
		Exports: map[string]uint32{"main": 0},
	})
	assert.Equal(t, []interface{}{int32(123)}, call(t, m, "main", int32(23)))
}

func TestRecursiveFactorial(t *testing.T) {
	fact := sig([]wasm.ValueType{i32}, []wasm.ValueType{i32})
	m := singleFunction(fact, nil,
		code.LocalGet(0),
		code.I32Eqz(),
		code.If(code.BlockTypeI32),
		code.I32Const(1),
		code.Else(),
		code.LocalGet(0),
		code.LocalGet(0),
		code.I32Const(-1),
		code.I32Add(),
		code.Call(0),
		code.I32Mul(),
		code.End(),
		code.End(),
	)
	assert.Equal(t, []interface{}{int32(1)}, call(t, m, "main", int32(0)))
	assert.Equal(t, []interface{}{int32(120)}, call(t, m, "main", int32(5)))
	assert.Equal(t, []interface{}{int32(3628800)}, call(t, m, "main", int32(10)))
}

func TestCallStackExhausted(t *testing.T) {
	m := singleFunction(sig(nil, nil), nil,
		code.Call(0),
		code.End(),
	)
	fn, err := m.ExportedFunction("main")
	require.NoError(t, err)

	thread := exec.NewThread(64)
	_, err = exec.Call(&thread, fn)
	assert.Equal(t, exec.TrapCallStackExhausted, err)
}

func TestStackSpillArguments(t *testing.T) {
	// Ten integer parameters exceed the integer register budget, so the
	// trailing two marshal through stack slots.
	params := make([]wasm.ValueType, 10)
	for i := range params {
		params[i] = i32
	}
	body := []code.Instruction{code.LocalGet(0)}
	for i := 1; i < 10; i++ {
		body = append(body, code.LocalGet(uint32(i)), code.I32Add())
	}
	body = append(body, code.End())

	m := singleFunction(sig(params, []wasm.ValueType{i32}), nil, body...)

	args := make([]interface{}, 10)
	sum := int32(0)
	for i := range args {
		args[i] = int32(i + 1)
		sum += int32(i + 1)
	}
	assert.Equal(t, []interface{}{sum}, call(t, m, "main", args...))
}

func TestStackSpillMixedTypes(t *testing.T) {
	// Nine of each class forces one spill slot per class.
	params := make([]wasm.ValueType, 18)
	for i := 0; i < 9; i++ {
		params[i] = i32
		params[9+i] = f64
	}
	body := []code.Instruction{code.LocalGet(0)}
	for i := 1; i < 9; i++ {
		body = append(body, code.LocalGet(uint32(i)), code.I32Add())
	}
	body = append(body, code.F64ConvertI32S())
	for i := 9; i < 18; i++ {
		body = append(body, code.LocalGet(uint32(i)), code.F64Add())
	}
	body = append(body, code.End())

	m := singleFunction(sig(params, []wasm.ValueType{f64}), nil, body...)

	args := make([]interface{}, 18)
	expected := 0.0
	for i := 0; i < 9; i++ {
		args[i] = int32(i + 1)
		args[9+i] = float64(i) + 0.5
		expected += float64(i+1) + float64(i) + 0.5
	}
	assert.Equal(t, []interface{}{expected}, call(t, m, "main", args...))
}

func TestI64Arithmetic(t *testing.T) {
	m := singleFunction(sig([]wasm.ValueType{i64, i64}, []wasm.ValueType{i64}), nil,
		code.LocalGet(0),
		code.LocalGet(1),
		code.I64Mul(),
		code.End(),
	)
	assert.Equal(t, []interface{}{int64(1 << 40)}, call(t, m, "main", int64(1<<20), int64(1<<20)))
}

func TestF64Sqrt(t *testing.T) {
	m := singleFunction(sig([]wasm.ValueType{f64}, []wasm.ValueType{f64}), nil,
		code.LocalGet(0),
		code.F64Sqrt(),
		code.End(),
	)
	assert.Equal(t, []interface{}{4.0}, call(t, m, "main", 16.0))
}

func TestF32Arithmetic(t *testing.T) {
	m := singleFunction(sig([]wasm.ValueType{f32, f32}, []wasm.ValueType{f32}), nil,
		code.LocalGet(0),
		code.LocalGet(1),
		code.F32Mul(),
		code.End(),
	)
	assert.Equal(t, []interface{}{float32(6.25)}, call(t, m, "main", float32(2.5), float32(2.5)))
}

func TestTruncTraps(t *testing.T) {
	m := singleFunction(sig([]wasm.ValueType{f64}, []wasm.ValueType{i32}), nil,
		code.LocalGet(0),
		code.I32TruncF64S(),
		code.End(),
	)
	assert.Equal(t, []interface{}{int32(-3)}, call(t, m, "main", -3.7))

	err := callTrap(t, m, "main", math.NaN())
	assert.Equal(t, exec.TrapInvalidConversionToInteger, err)

	err = callTrap(t, m, "main", 1e10)
	assert.Equal(t, exec.TrapIntegerOverflow, err)
}

func TestSaturatingTrunc(t *testing.T) {
	m := singleFunction(sig([]wasm.ValueType{f64}, []wasm.ValueType{i32}), nil,
		code.LocalGet(0),
		code.TruncSat(code.OpI32TruncSatF64S),
		code.End(),
	)
	assert.Equal(t, []interface{}{int32(-3)}, call(t, m, "main", -3.7))
	assert.Equal(t, []interface{}{int32(0)}, call(t, m, "main", math.NaN()))
	assert.Equal(t, []interface{}{int32(math.MaxInt32)}, call(t, m, "main", 1e10))
	assert.Equal(t, []interface{}{int32(math.MinInt32)}, call(t, m, "main", -1e10))
}

func TestHostFunctionRoundTrip(t *testing.T) {
	hostSig := sig([]wasm.ValueType{i32}, []wasm.ValueType{i32})
	double := exec.NewGoFunc(hostSig, func(t *exec.Thread, args []uint64) []uint64 {
		return []uint64{uint64(int32(args[0]) * 2)}
	})

	m := testModule(&ModuleDefinition{
		Types:   []wasm.FunctionSig{hostSig},
		Imports: []exec.Function{double},
		Functions: []FunctionDefinition{
			{Signature: hostSig, Code: code.Body(
				code.LocalGet(0),
				code.Call(0),
				code.I32Const(1),
				code.I32Add(),
				code.End(),
			)},
		},
		Exports: map[string]uint32{"main": 1},
	})
	assert.Equal(t, []interface{}{int32(43)}, call(t, m, "main", int32(21)))
}

func TestUnknownFunctionIndex(t *testing.T) {
	m := singleFunction(sig(nil, nil), nil,
		code.Call(9),
		code.End(),
	)
	_, err := m.ExportedFunction("main")
	assert.Error(t, err)
}

func TestUnknownExport(t *testing.T) {
	m := singleFunction(sig(nil, nil), nil, code.End())
	_, err := m.ExportedFunction("nope")
	assert.ErrorIs(t, err, exec.ErrFunctionNotFound)
}

type recordingTracer struct {
	pcs     []int
	mcs     []int
	opcodes []byte
}

func (r *recordingTracer) Instruction(pc, mc int, opcode byte) {
	r.pcs = append(r.pcs, pc)
	r.mcs = append(r.mcs, mc)
	r.opcodes = append(r.opcodes, opcode)
}

func TestTracing(t *testing.T) {
	m := singleFunction(sig([]wasm.ValueType{i32, i32}, []wasm.ValueType{i32}), nil,
		code.LocalGet(0),
		code.LocalGet(1),
		code.I32Add(),
		code.End(),
	)
	fn, err := m.ExportedFunction("main")
	require.NoError(t, err)

	var tracer recordingTracer
	thread := exec.NewTracingThread(&tracer, 0)
	returns, err := exec.Call(&thread, fn, int32(1), int32(2))
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int32(3)}, returns)

	assert.Equal(t, []byte{code.OpLocalGet, code.OpLocalGet, code.OpI32Add, code.OpEnd}, tracer.opcodes)
	assert.Equal(t, []int{0, 2, 4, 5}, tracer.pcs)
	assert.Equal(t, []int{0, 5, 10, 10}, tracer.mcs)
}

func TestDeepStackGrowth(t *testing.T) {
	// Enough recursion depth to force the arena to grow and refix every
	// live frame.
	m := singleFunction(sig([]wasm.ValueType{i32}, []wasm.ValueType{i32}),
		[]wasm.LocalEntry{{Count: 30, Type: i64}},
		code.LocalGet(0),
		code.I32Eqz(),
		code.If(code.BlockTypeI32),
		code.I32Const(0),
		code.Else(),
		code.LocalGet(0),
		code.LocalGet(0),
		code.I32Const(-1),
		code.I32Add(),
		code.Call(0),
		code.I32Add(),
		code.End(),
		code.End(),
	)
	assert.Equal(t, []interface{}{int32(500500)}, call(t, m, "main", int32(1000)))
}
