package ipint

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skiff-wasm/skiff/wasm"
	"github.com/skiff-wasm/skiff/wasm/code"
)

// oracleOps are the non-trapping binary operators exercised by the
// differential test, paired with their reference semantics.
var oracleOps = []struct {
	ins  code.Instruction
	eval func(v1, v2 int32) int32
}{
	{code.I32Add(), func(v1, v2 int32) int32 { return v1 + v2 }},
	{code.I32Sub(), func(v1, v2 int32) int32 { return v1 - v2 }},
	{code.I32Mul(), func(v1, v2 int32) int32 { return v1 * v2 }},
	{code.I32And(), func(v1, v2 int32) int32 { return v1 & v2 }},
	{code.I32Or(), func(v1, v2 int32) int32 { return v1 | v2 }},
	{code.I32Xor(), func(v1, v2 int32) int32 { return v1 ^ v2 }},
	{code.I32Shl(), func(v1, v2 int32) int32 { return v1 << (uint32(v2) & 31) }},
}

// reference evaluates a straight-line program on a plain slice stack.
func reference(t *testing.T, prog []code.Instruction) int32 {
	var stack []int32
	for _, ins := range prog {
		if ins.Opcode == code.OpI32Const {
			stack = append(stack, int32(uint32(ins.Immediate)))
			continue
		}
		found := false
		for _, op := range oracleOps {
			if op.ins.Opcode == ins.Opcode {
				v2 := stack[len(stack)-1]
				v1 := stack[len(stack)-2]
				stack = append(stack[:len(stack)-2], op.eval(v1, v2))
				found = true
				break
			}
		}
		require.True(t, found, "unexpected opcode %v", code.Name(ins.Opcode))
	}
	require.Len(t, stack, 1)
	return stack[0]
}

// randomProgram builds a straight-line program that leaves exactly one i32 on
// the stack.
func randomProgram(r *rand.Rand, length int) []code.Instruction {
	var prog []code.Instruction
	depth := 0
	for i := 0; i < length; i++ {
		if depth < 2 || r.Intn(3) == 0 {
			prog = append(prog, code.I32Const(int32(r.Uint32())))
			depth++
		} else {
			prog = append(prog, oracleOps[r.Intn(len(oracleOps))].ins)
			depth--
		}
	}
	for depth > 1 {
		prog = append(prog, oracleOps[r.Intn(len(oracleOps))].ins)
		depth--
	}
	return prog
}

func TestArithmeticOracle(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	for trial := 0; trial < 200; trial++ {
		prog := randomProgram(r, 4+r.Intn(28))
		expected := reference(t, prog)

		body := append(append([]code.Instruction(nil), prog...), code.End())
		m := singleFunction(sig(nil, []wasm.ValueType{i32}), nil, body...)
		returns := call(t, m, "main")
		require.Equal(t, []interface{}{expected}, returns, "trial %v", trial)
	}
}
