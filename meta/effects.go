package meta

import "github.com/skiff-wasm/skiff/wasm/code"

// stackEffect returns the operand stack effect of a plain numeric or
// parametric instruction. ok is false for opcodes whose effect depends on
// immediates or module context; those are handled individually by the
// generator.
func stackEffect(opcode byte) (pop, push int, ok bool) {
	switch {
	case opcode == code.OpI32Eqz || opcode == code.OpI64Eqz:
		return 1, 1, true
	case opcode >= code.OpI32Eq && opcode <= code.OpF64Ge:
		return 2, 1, true
	case opcode >= code.OpI32Clz && opcode <= code.OpI32Popcnt:
		return 1, 1, true
	case opcode >= code.OpI32Add && opcode <= code.OpI32Rotr:
		return 2, 1, true
	case opcode >= code.OpI64Clz && opcode <= code.OpI64Popcnt:
		return 1, 1, true
	case opcode >= code.OpI64Add && opcode <= code.OpI64Rotr:
		return 2, 1, true
	case opcode >= code.OpF32Abs && opcode <= code.OpF32Sqrt:
		return 1, 1, true
	case opcode >= code.OpF32Add && opcode <= code.OpF32Copysign:
		return 2, 1, true
	case opcode >= code.OpF64Abs && opcode <= code.OpF64Sqrt:
		return 1, 1, true
	case opcode >= code.OpF64Add && opcode <= code.OpF64Copysign:
		return 2, 1, true
	case opcode >= code.OpI32WrapI64 && opcode <= code.OpF64ReinterpretI64:
		return 1, 1, true
	case opcode >= code.OpI32Extend8S && opcode <= code.OpI64Extend32S:
		return 1, 1, true
	default:
		return 0, 0, false
	}
}
