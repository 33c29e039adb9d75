package code

import (
	"math"

	"github.com/skiff-wasm/skiff/wasm"
)

// Block type immediates. Value-typed block types set the high bit so they can
// be distinguished from type indices.
const (
	BlockTypeEmpty = 0x40 | 0x8000000000000000
	BlockTypeI32   = 0x7f | 0x8000000000000000
	BlockTypeI64   = 0x7e | 0x8000000000000000
	BlockTypeF32   = 0x7d | 0x8000000000000000
	BlockTypeF64   = 0x7c | 0x8000000000000000
)

// BlockType returns the block type immediate for a single result type.
func BlockType(t wasm.ValueType) uint64 {
	return uint64(t) | 0x8000000000000000
}

// An Instruction is one bytecode instruction in builder form. The builder is
// used by tests and tooling to assemble validated function bodies; the
// interpreter itself never sees this representation.
type Instruction struct {
	Opcode    byte
	Immediate uint64
	Labels    []int
}

func Unreachable() Instruction { return Instruction{Opcode: OpUnreachable} }
func Nop() Instruction         { return Instruction{Opcode: OpNop} }

func Block(blockType ...uint64) Instruction {
	return Instruction{Opcode: OpBlock, Immediate: blockTypeImm(blockType)}
}

func Loop(blockType ...uint64) Instruction {
	return Instruction{Opcode: OpLoop, Immediate: blockTypeImm(blockType)}
}

func If(blockType ...uint64) Instruction {
	return Instruction{Opcode: OpIf, Immediate: blockTypeImm(blockType)}
}

func blockTypeImm(blockType []uint64) uint64 {
	if len(blockType) == 0 {
		return BlockTypeEmpty
	}
	return blockType[0]
}

func Else() Instruction   { return Instruction{Opcode: OpElse} }
func End() Instruction    { return Instruction{Opcode: OpEnd} }
func Return() Instruction { return Instruction{Opcode: OpReturn} }

func Br(labelidx int) Instruction {
	return Instruction{Opcode: OpBr, Immediate: uint64(labelidx)}
}

func BrIf(labelidx int) Instruction {
	return Instruction{Opcode: OpBrIf, Immediate: uint64(labelidx)}
}

// BrTable builds a br_table instruction. The last label index is the default
// target.
func BrTable(defaultidx int, labels ...int) Instruction {
	return Instruction{Opcode: OpBrTable, Immediate: uint64(defaultidx), Labels: labels}
}

func Call(funcidx uint32) Instruction {
	return Instruction{Opcode: OpCall, Immediate: uint64(funcidx)}
}

func Drop() Instruction   { return Instruction{Opcode: OpDrop} }
func Select() Instruction { return Instruction{Opcode: OpSelect} }

func LocalGet(localidx uint32) Instruction {
	return Instruction{Opcode: OpLocalGet, Immediate: uint64(localidx)}
}

func LocalSet(localidx uint32) Instruction {
	return Instruction{Opcode: OpLocalSet, Immediate: uint64(localidx)}
}

func LocalTee(localidx uint32) Instruction {
	return Instruction{Opcode: OpLocalTee, Immediate: uint64(localidx)}
}

func GlobalGet(globalidx uint32) Instruction {
	return Instruction{Opcode: OpGlobalGet, Immediate: uint64(globalidx)}
}

func I32Const(v int32) Instruction {
	return Instruction{Opcode: OpI32Const, Immediate: uint64(uint32(v))}
}

func I64Const(v int64) Instruction {
	return Instruction{Opcode: OpI64Const, Immediate: uint64(v)}
}

func F32Const(v float32) Instruction {
	return Instruction{Opcode: OpF32Const, Immediate: uint64(math.Float32bits(v))}
}

func F64Const(v float64) Instruction {
	return Instruction{Opcode: OpF64Const, Immediate: math.Float64bits(v)}
}

// Op builds an instruction with no immediates.
func Op(opcode byte) Instruction {
	return Instruction{Opcode: opcode}
}

// TruncSat builds a saturating-truncation instruction from its 0xfc
// sub-opcode.
func TruncSat(subOpcode uint32) Instruction {
	return Instruction{Opcode: OpPrefix, Immediate: uint64(subOpcode)}
}

func I32Eqz() Instruction { return Op(OpI32Eqz) }
func I32Eq() Instruction  { return Op(OpI32Eq) }
func I32Ne() Instruction  { return Op(OpI32Ne) }
func I32LtS() Instruction { return Op(OpI32LtS) }
func I32LtU() Instruction { return Op(OpI32LtU) }
func I32GtS() Instruction { return Op(OpI32GtS) }
func I32GtU() Instruction { return Op(OpI32GtU) }
func I32GeU() Instruction { return Op(OpI32GeU) }

func I32Add() Instruction  { return Op(OpI32Add) }
func I32Sub() Instruction  { return Op(OpI32Sub) }
func I32Mul() Instruction  { return Op(OpI32Mul) }
func I32DivS() Instruction { return Op(OpI32DivS) }
func I32DivU() Instruction { return Op(OpI32DivU) }
func I32RemU() Instruction { return Op(OpI32RemU) }
func I32And() Instruction  { return Op(OpI32And) }
func I32Or() Instruction   { return Op(OpI32Or) }
func I32Xor() Instruction  { return Op(OpI32Xor) }
func I32Shl() Instruction  { return Op(OpI32Shl) }

func I64Eqz() Instruction { return Op(OpI64Eqz) }
func I64LtS() Instruction { return Op(OpI64LtS) }

func I64Add() Instruction  { return Op(OpI64Add) }
func I64Sub() Instruction  { return Op(OpI64Sub) }
func I64Mul() Instruction  { return Op(OpI64Mul) }
func I64DivS() Instruction { return Op(OpI64DivS) }

func F32Add() Instruction { return Op(OpF32Add) }
func F32Mul() Instruction { return Op(OpF32Mul) }

func F64Add() Instruction { return Op(OpF64Add) }
func F64Sub() Instruction { return Op(OpF64Sub) }
func F64Mul() Instruction { return Op(OpF64Mul) }
func F64Div() Instruction { return Op(OpF64Div) }
func F64Min() Instruction { return Op(OpF64Min) }
func F64Sqrt() Instruction { return Op(OpF64Sqrt) }

func I32WrapI64() Instruction    { return Op(OpI32WrapI64) }
func I64ExtendI32S() Instruction { return Op(OpI64ExtendI32S) }
func I64ExtendI32U() Instruction { return Op(OpI64ExtendI32U) }
func F64ConvertI32S() Instruction { return Op(OpF64ConvertI32S) }
func F64PromoteF32() Instruction  { return Op(OpF64PromoteF32) }
func I32TruncF64S() Instruction   { return Op(OpI32TruncF64S) }
