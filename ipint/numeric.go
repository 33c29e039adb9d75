package ipint

import (
	"math"
	"math/bits"

	"github.com/skiff-wasm/skiff/exec"
	"github.com/skiff-wasm/skiff/wasm/code"
)

func (f *frame) opI32Eqz() { f.pushBool(f.popI32() == 0); f.pc++ }

func (f *frame) opI32Eq() { v2, v1 := f.pop2I32(); f.pushBool(v1 == v2); f.pc++ }
func (f *frame) opI32Ne() { v2, v1 := f.pop2I32(); f.pushBool(v1 != v2); f.pc++ }

func (f *frame) opI32LtS() { v2, v1 := f.pop2I32(); f.pushBool(v1 < v2); f.pc++ }
func (f *frame) opI32LtU() { v2, v1 := f.pop2U32(); f.pushBool(v1 < v2); f.pc++ }
func (f *frame) opI32GtS() { v2, v1 := f.pop2I32(); f.pushBool(v1 > v2); f.pc++ }
func (f *frame) opI32GtU() { v2, v1 := f.pop2U32(); f.pushBool(v1 > v2); f.pc++ }
func (f *frame) opI32LeS() { v2, v1 := f.pop2I32(); f.pushBool(v1 <= v2); f.pc++ }
func (f *frame) opI32LeU() { v2, v1 := f.pop2U32(); f.pushBool(v1 <= v2); f.pc++ }
func (f *frame) opI32GeS() { v2, v1 := f.pop2I32(); f.pushBool(v1 >= v2); f.pc++ }
func (f *frame) opI32GeU() { v2, v1 := f.pop2U32(); f.pushBool(v1 >= v2); f.pc++ }

func (f *frame) opI64Eqz() { f.pushBool(f.popI64() == 0); f.pc++ }

func (f *frame) opI64Eq() { v2, v1 := f.pop2I64(); f.pushBool(v1 == v2); f.pc++ }
func (f *frame) opI64Ne() { v2, v1 := f.pop2I64(); f.pushBool(v1 != v2); f.pc++ }

func (f *frame) opI64LtS() { v2, v1 := f.pop2I64(); f.pushBool(v1 < v2); f.pc++ }
func (f *frame) opI64LtU() { v2, v1 := f.pop2U64(); f.pushBool(v1 < v2); f.pc++ }
func (f *frame) opI64GtS() { v2, v1 := f.pop2I64(); f.pushBool(v1 > v2); f.pc++ }
func (f *frame) opI64GtU() { v2, v1 := f.pop2U64(); f.pushBool(v1 > v2); f.pc++ }
func (f *frame) opI64LeS() { v2, v1 := f.pop2I64(); f.pushBool(v1 <= v2); f.pc++ }
func (f *frame) opI64LeU() { v2, v1 := f.pop2U64(); f.pushBool(v1 <= v2); f.pc++ }
func (f *frame) opI64GeS() { v2, v1 := f.pop2I64(); f.pushBool(v1 >= v2); f.pc++ }
func (f *frame) opI64GeU() { v2, v1 := f.pop2U64(); f.pushBool(v1 >= v2); f.pc++ }

func (f *frame) opF32Eq() { v2, v1 := f.pop2F32(); f.pushBool(v1 == v2); f.pc++ }
func (f *frame) opF32Ne() { v2, v1 := f.pop2F32(); f.pushBool(v1 != v2); f.pc++ }
func (f *frame) opF32Lt() { v2, v1 := f.pop2F32(); f.pushBool(v1 < v2); f.pc++ }
func (f *frame) opF32Gt() { v2, v1 := f.pop2F32(); f.pushBool(v1 > v2); f.pc++ }
func (f *frame) opF32Le() { v2, v1 := f.pop2F32(); f.pushBool(v1 <= v2); f.pc++ }
func (f *frame) opF32Ge() { v2, v1 := f.pop2F32(); f.pushBool(v1 >= v2); f.pc++ }

func (f *frame) opF64Eq() { v2, v1 := f.pop2F64(); f.pushBool(v1 == v2); f.pc++ }
func (f *frame) opF64Ne() { v2, v1 := f.pop2F64(); f.pushBool(v1 != v2); f.pc++ }
func (f *frame) opF64Lt() { v2, v1 := f.pop2F64(); f.pushBool(v1 < v2); f.pc++ }
func (f *frame) opF64Gt() { v2, v1 := f.pop2F64(); f.pushBool(v1 > v2); f.pc++ }
func (f *frame) opF64Le() { v2, v1 := f.pop2F64(); f.pushBool(v1 <= v2); f.pc++ }
func (f *frame) opF64Ge() { v2, v1 := f.pop2F64(); f.pushBool(v1 >= v2); f.pc++ }

func (f *frame) opI32Clz()    { f.pushI(bits.LeadingZeros32(f.popU32())); f.pc++ }
func (f *frame) opI32Ctz()    { f.pushI(bits.TrailingZeros32(f.popU32())); f.pc++ }
func (f *frame) opI32Popcnt() { f.pushI(bits.OnesCount32(f.popU32())); f.pc++ }

func (f *frame) opI32Add() { v2, v1 := f.pop2I32(); f.pushI32(v1 + v2); f.pc++ }
func (f *frame) opI32Sub() { v2, v1 := f.pop2I32(); f.pushI32(v1 - v2); f.pc++ }
func (f *frame) opI32Mul() { v2, v1 := f.pop2I32(); f.pushI32(v1 * v2); f.pc++ }

func (f *frame) opI32DivS() { v2, v1 := f.pop2I32(); f.pushI32(exec.I32DivS(v1, v2)); f.pc++ }
func (f *frame) opI32DivU() { v2, v1 := f.pop2U32(); f.pushU32(exec.I32DivU(v1, v2)); f.pc++ }
func (f *frame) opI32RemS() { v2, v1 := f.pop2I32(); f.pushI32(exec.I32RemS(v1, v2)); f.pc++ }
func (f *frame) opI32RemU() { v2, v1 := f.pop2U32(); f.pushU32(exec.I32RemU(v1, v2)); f.pc++ }

func (f *frame) opI32And() { v2, v1 := f.pop2I32(); f.pushI32(v1 & v2); f.pc++ }
func (f *frame) opI32Or()  { v2, v1 := f.pop2I32(); f.pushI32(v1 | v2); f.pc++ }
func (f *frame) opI32Xor() { v2, v1 := f.pop2I32(); f.pushI32(v1 ^ v2); f.pc++ }

func (f *frame) opI32Shl()  { v2, v1 := f.pop2I32(); f.pushI32(v1 << (v2 & 31)); f.pc++ }
func (f *frame) opI32ShrS() { v2, v1 := f.pop2I32(); f.pushI32(v1 >> (v2 & 31)); f.pc++ }
func (f *frame) opI32ShrU() { v2, v1 := f.pop2U32(); f.pushU32(v1 >> (v2 & 31)); f.pc++ }

func (f *frame) opI32Rotl() {
	v2, v1 := f.popI(), f.popU32()
	f.pushU32(bits.RotateLeft32(v1, v2))
	f.pc++
}

func (f *frame) opI32Rotr() {
	v2, v1 := f.popI(), f.popU32()
	f.pushU32(bits.RotateLeft32(v1, -v2))
	f.pc++
}

func (f *frame) opI64Clz()    { f.pushI(bits.LeadingZeros64(f.popU64())); f.pc++ }
func (f *frame) opI64Ctz()    { f.pushI(bits.TrailingZeros64(f.popU64())); f.pc++ }
func (f *frame) opI64Popcnt() { f.pushI(bits.OnesCount64(f.popU64())); f.pc++ }

func (f *frame) opI64Add() { v2, v1 := f.pop2I64(); f.pushI64(v1 + v2); f.pc++ }
func (f *frame) opI64Sub() { v2, v1 := f.pop2I64(); f.pushI64(v1 - v2); f.pc++ }
func (f *frame) opI64Mul() { v2, v1 := f.pop2I64(); f.pushI64(v1 * v2); f.pc++ }

func (f *frame) opI64DivS() { v2, v1 := f.pop2I64(); f.pushI64(exec.I64DivS(v1, v2)); f.pc++ }
func (f *frame) opI64DivU() { v2, v1 := f.pop2U64(); f.pushU64(exec.I64DivU(v1, v2)); f.pc++ }
func (f *frame) opI64RemS() { v2, v1 := f.pop2I64(); f.pushI64(exec.I64RemS(v1, v2)); f.pc++ }
func (f *frame) opI64RemU() { v2, v1 := f.pop2U64(); f.pushU64(exec.I64RemU(v1, v2)); f.pc++ }

func (f *frame) opI64And() { v2, v1 := f.pop2I64(); f.pushI64(v1 & v2); f.pc++ }
func (f *frame) opI64Or()  { v2, v1 := f.pop2I64(); f.pushI64(v1 | v2); f.pc++ }
func (f *frame) opI64Xor() { v2, v1 := f.pop2I64(); f.pushI64(v1 ^ v2); f.pc++ }

func (f *frame) opI64Shl()  { v2, v1 := f.pop2I64(); f.pushI64(v1 << (v2 & 63)); f.pc++ }
func (f *frame) opI64ShrS() { v2, v1 := f.pop2I64(); f.pushI64(v1 >> (v2 & 63)); f.pc++ }
func (f *frame) opI64ShrU() { v2, v1 := f.pop2U64(); f.pushU64(v1 >> (v2 & 63)); f.pc++ }

func (f *frame) opI64Rotl() {
	v2, v1 := f.popI(), f.popU64()
	f.pushU64(bits.RotateLeft64(v1, v2))
	f.pc++
}

func (f *frame) opI64Rotr() {
	v2, v1 := f.popI(), f.popU64()
	f.pushU64(bits.RotateLeft64(v1, -v2))
	f.pc++
}

func (f *frame) opF32Abs()     { f.pushF32(float32(math.Abs(float64(f.popF32())))); f.pc++ }
func (f *frame) opF32Neg()     { f.pushF32(-f.popF32()); f.pc++ }
func (f *frame) opF32Ceil()    { f.pushF32(float32(math.Ceil(float64(f.popF32())))); f.pc++ }
func (f *frame) opF32Floor()   { f.pushF32(float32(math.Floor(float64(f.popF32())))); f.pc++ }
func (f *frame) opF32Trunc()   { f.pushF32(float32(math.Trunc(float64(f.popF32())))); f.pc++ }
func (f *frame) opF32Nearest() { f.pushF32(float32(math.RoundToEven(float64(f.popF32())))); f.pc++ }
func (f *frame) opF32Sqrt()    { f.pushF32(float32(math.Sqrt(float64(f.popF32())))); f.pc++ }

func (f *frame) opF32Add() { v2, v1 := f.pop2F32(); f.pushF32(v1 + v2); f.pc++ }
func (f *frame) opF32Sub() { v2, v1 := f.pop2F32(); f.pushF32(v1 - v2); f.pc++ }
func (f *frame) opF32Mul() { v2, v1 := f.pop2F32(); f.pushF32(v1 * v2); f.pc++ }
func (f *frame) opF32Div() { v2, v1 := f.pop2F32(); f.pushF32(v1 / v2); f.pc++ }

func (f *frame) opF32Min() {
	v2, v1 := f.pop2F32()
	f.pushF32(float32(exec.Fmin(float64(v1), float64(v2))))
	f.pc++
}

func (f *frame) opF32Max() {
	v2, v1 := f.pop2F32()
	f.pushF32(float32(exec.Fmax(float64(v1), float64(v2))))
	f.pc++
}

func (f *frame) opF32Copysign() {
	v2, v1 := f.pop2F32()
	f.pushF32(float32(math.Copysign(float64(v1), float64(v2))))
	f.pc++
}

func (f *frame) opF64Abs()     { f.pushF64(math.Abs(f.popF64())); f.pc++ }
func (f *frame) opF64Neg()     { f.pushF64(-f.popF64()); f.pc++ }
func (f *frame) opF64Ceil()    { f.pushF64(math.Ceil(f.popF64())); f.pc++ }
func (f *frame) opF64Floor()   { f.pushF64(math.Floor(f.popF64())); f.pc++ }
func (f *frame) opF64Trunc()   { f.pushF64(math.Trunc(f.popF64())); f.pc++ }
func (f *frame) opF64Nearest() { f.pushF64(math.RoundToEven(f.popF64())); f.pc++ }
func (f *frame) opF64Sqrt()    { f.pushF64(math.Sqrt(f.popF64())); f.pc++ }

func (f *frame) opF64Add() { v2, v1 := f.pop2F64(); f.pushF64(v1 + v2); f.pc++ }
func (f *frame) opF64Sub() { v2, v1 := f.pop2F64(); f.pushF64(v1 - v2); f.pc++ }
func (f *frame) opF64Mul() { v2, v1 := f.pop2F64(); f.pushF64(v1 * v2); f.pc++ }
func (f *frame) opF64Div() { v2, v1 := f.pop2F64(); f.pushF64(v1 / v2); f.pc++ }

func (f *frame) opF64Min() { v2, v1 := f.pop2F64(); f.pushF64(exec.Fmin(v1, v2)); f.pc++ }
func (f *frame) opF64Max() { v2, v1 := f.pop2F64(); f.pushF64(exec.Fmax(v1, v2)); f.pc++ }

func (f *frame) opF64Copysign() {
	v2, v1 := f.pop2F64()
	f.pushF64(math.Copysign(v1, v2))
	f.pc++
}

func (f *frame) opI32WrapI64() { f.pushI32(int32(f.popI64())); f.pc++ }

func (f *frame) opI32TruncF32S() { f.pushI32(exec.I32TruncS(float64(f.popF32()))); f.pc++ }
func (f *frame) opI32TruncF32U() { f.pushU32(exec.I32TruncU(float64(f.popF32()))); f.pc++ }
func (f *frame) opI32TruncF64S() { f.pushI32(exec.I32TruncS(f.popF64())); f.pc++ }
func (f *frame) opI32TruncF64U() { f.pushU32(exec.I32TruncU(f.popF64())); f.pc++ }

func (f *frame) opI64ExtendI32S() { f.pushI64(int64(f.popI32())); f.pc++ }
func (f *frame) opI64ExtendI32U() { f.pushI64(int64(f.popU32())); f.pc++ }

func (f *frame) opI64TruncF32S() { f.pushI64(exec.I64TruncS(float64(f.popF32()))); f.pc++ }
func (f *frame) opI64TruncF32U() { f.pushU64(exec.I64TruncU(float64(f.popF32()))); f.pc++ }
func (f *frame) opI64TruncF64S() { f.pushI64(exec.I64TruncS(f.popF64())); f.pc++ }
func (f *frame) opI64TruncF64U() { f.pushU64(exec.I64TruncU(f.popF64())); f.pc++ }

func (f *frame) opF32ConvertI32S() { f.pushF32(float32(f.popI32())); f.pc++ }
func (f *frame) opF32ConvertI32U() { f.pushF32(float32(f.popU32())); f.pc++ }
func (f *frame) opF32ConvertI64S() { f.pushF32(float32(f.popI64())); f.pc++ }
func (f *frame) opF32ConvertI64U() { f.pushF32(float32(f.popU64())); f.pc++ }
func (f *frame) opF32DemoteF64()   { f.pushF32(float32(f.popF64())); f.pc++ }

func (f *frame) opF64ConvertI32S() { f.pushF64(float64(f.popI32())); f.pc++ }
func (f *frame) opF64ConvertI32U() { f.pushF64(float64(f.popU32())); f.pc++ }
func (f *frame) opF64ConvertI64S() { f.pushF64(float64(f.popI64())); f.pc++ }
func (f *frame) opF64ConvertI64U() { f.pushF64(float64(f.popU64())); f.pc++ }
func (f *frame) opF64PromoteF32()  { f.pushF64(float64(f.popF32())); f.pc++ }

func (f *frame) opI32ReinterpretF32() { f.pushU32(math.Float32bits(f.popF32())); f.pc++ }
func (f *frame) opI64ReinterpretF64() { f.pushU64(math.Float64bits(f.popF64())); f.pc++ }
func (f *frame) opF32ReinterpretI32() { f.pushF32(math.Float32frombits(f.popU32())); f.pc++ }
func (f *frame) opF64ReinterpretI64() { f.pushF64(math.Float64frombits(f.popU64())); f.pc++ }

func (f *frame) opI32Extend8S()  { f.pushI32(int32(int8(f.popI32()))); f.pc++ }
func (f *frame) opI32Extend16S() { f.pushI32(int32(int16(f.popI32()))); f.pc++ }
func (f *frame) opI64Extend8S()  { f.pushI64(int64(int8(f.popI64()))); f.pc++ }
func (f *frame) opI64Extend16S() { f.pushI64(int64(int16(f.popI64()))); f.pc++ }
func (f *frame) opI64Extend32S() { f.pushI64(int64(int32(f.popI64()))); f.pc++ }

func registerNumerics() {
	dispatch[code.OpI32Eqz] = (*frame).opI32Eqz
	dispatch[code.OpI32Eq] = (*frame).opI32Eq
	dispatch[code.OpI32Ne] = (*frame).opI32Ne
	dispatch[code.OpI32LtS] = (*frame).opI32LtS
	dispatch[code.OpI32LtU] = (*frame).opI32LtU
	dispatch[code.OpI32GtS] = (*frame).opI32GtS
	dispatch[code.OpI32GtU] = (*frame).opI32GtU
	dispatch[code.OpI32LeS] = (*frame).opI32LeS
	dispatch[code.OpI32LeU] = (*frame).opI32LeU
	dispatch[code.OpI32GeS] = (*frame).opI32GeS
	dispatch[code.OpI32GeU] = (*frame).opI32GeU

	dispatch[code.OpI64Eqz] = (*frame).opI64Eqz
	dispatch[code.OpI64Eq] = (*frame).opI64Eq
	dispatch[code.OpI64Ne] = (*frame).opI64Ne
	dispatch[code.OpI64LtS] = (*frame).opI64LtS
	dispatch[code.OpI64LtU] = (*frame).opI64LtU
	dispatch[code.OpI64GtS] = (*frame).opI64GtS
	dispatch[code.OpI64GtU] = (*frame).opI64GtU
	dispatch[code.OpI64LeS] = (*frame).opI64LeS
	dispatch[code.OpI64LeU] = (*frame).opI64LeU
	dispatch[code.OpI64GeS] = (*frame).opI64GeS
	dispatch[code.OpI64GeU] = (*frame).opI64GeU

	dispatch[code.OpF32Eq] = (*frame).opF32Eq
	dispatch[code.OpF32Ne] = (*frame).opF32Ne
	dispatch[code.OpF32Lt] = (*frame).opF32Lt
	dispatch[code.OpF32Gt] = (*frame).opF32Gt
	dispatch[code.OpF32Le] = (*frame).opF32Le
	dispatch[code.OpF32Ge] = (*frame).opF32Ge

	dispatch[code.OpF64Eq] = (*frame).opF64Eq
	dispatch[code.OpF64Ne] = (*frame).opF64Ne
	dispatch[code.OpF64Lt] = (*frame).opF64Lt
	dispatch[code.OpF64Gt] = (*frame).opF64Gt
	dispatch[code.OpF64Le] = (*frame).opF64Le
	dispatch[code.OpF64Ge] = (*frame).opF64Ge

	dispatch[code.OpI32Clz] = (*frame).opI32Clz
	dispatch[code.OpI32Ctz] = (*frame).opI32Ctz
	dispatch[code.OpI32Popcnt] = (*frame).opI32Popcnt
	dispatch[code.OpI32Add] = (*frame).opI32Add
	dispatch[code.OpI32Sub] = (*frame).opI32Sub
	dispatch[code.OpI32Mul] = (*frame).opI32Mul
	dispatch[code.OpI32DivS] = (*frame).opI32DivS
	dispatch[code.OpI32DivU] = (*frame).opI32DivU
	dispatch[code.OpI32RemS] = (*frame).opI32RemS
	dispatch[code.OpI32RemU] = (*frame).opI32RemU
	dispatch[code.OpI32And] = (*frame).opI32And
	dispatch[code.OpI32Or] = (*frame).opI32Or
	dispatch[code.OpI32Xor] = (*frame).opI32Xor
	dispatch[code.OpI32Shl] = (*frame).opI32Shl
	dispatch[code.OpI32ShrS] = (*frame).opI32ShrS
	dispatch[code.OpI32ShrU] = (*frame).opI32ShrU
	dispatch[code.OpI32Rotl] = (*frame).opI32Rotl
	dispatch[code.OpI32Rotr] = (*frame).opI32Rotr

	dispatch[code.OpI64Clz] = (*frame).opI64Clz
	dispatch[code.OpI64Ctz] = (*frame).opI64Ctz
	dispatch[code.OpI64Popcnt] = (*frame).opI64Popcnt
	dispatch[code.OpI64Add] = (*frame).opI64Add
	dispatch[code.OpI64Sub] = (*frame).opI64Sub
	dispatch[code.OpI64Mul] = (*frame).opI64Mul
	dispatch[code.OpI64DivS] = (*frame).opI64DivS
	dispatch[code.OpI64DivU] = (*frame).opI64DivU
	dispatch[code.OpI64RemS] = (*frame).opI64RemS
	dispatch[code.OpI64RemU] = (*frame).opI64RemU
	dispatch[code.OpI64And] = (*frame).opI64And
	dispatch[code.OpI64Or] = (*frame).opI64Or
	dispatch[code.OpI64Xor] = (*frame).opI64Xor
	dispatch[code.OpI64Shl] = (*frame).opI64Shl
	dispatch[code.OpI64ShrS] = (*frame).opI64ShrS
	dispatch[code.OpI64ShrU] = (*frame).opI64ShrU
	dispatch[code.OpI64Rotl] = (*frame).opI64Rotl
	dispatch[code.OpI64Rotr] = (*frame).opI64Rotr

	dispatch[code.OpF32Abs] = (*frame).opF32Abs
	dispatch[code.OpF32Neg] = (*frame).opF32Neg
	dispatch[code.OpF32Ceil] = (*frame).opF32Ceil
	dispatch[code.OpF32Floor] = (*frame).opF32Floor
	dispatch[code.OpF32Trunc] = (*frame).opF32Trunc
	dispatch[code.OpF32Nearest] = (*frame).opF32Nearest
	dispatch[code.OpF32Sqrt] = (*frame).opF32Sqrt
	dispatch[code.OpF32Add] = (*frame).opF32Add
	dispatch[code.OpF32Sub] = (*frame).opF32Sub
	dispatch[code.OpF32Mul] = (*frame).opF32Mul
	dispatch[code.OpF32Div] = (*frame).opF32Div
	dispatch[code.OpF32Min] = (*frame).opF32Min
	dispatch[code.OpF32Max] = (*frame).opF32Max
	dispatch[code.OpF32Copysign] = (*frame).opF32Copysign

	dispatch[code.OpF64Abs] = (*frame).opF64Abs
	dispatch[code.OpF64Neg] = (*frame).opF64Neg
	dispatch[code.OpF64Ceil] = (*frame).opF64Ceil
	dispatch[code.OpF64Floor] = (*frame).opF64Floor
	dispatch[code.OpF64Trunc] = (*frame).opF64Trunc
	dispatch[code.OpF64Nearest] = (*frame).opF64Nearest
	dispatch[code.OpF64Sqrt] = (*frame).opF64Sqrt
	dispatch[code.OpF64Add] = (*frame).opF64Add
	dispatch[code.OpF64Sub] = (*frame).opF64Sub
	dispatch[code.OpF64Mul] = (*frame).opF64Mul
	dispatch[code.OpF64Div] = (*frame).opF64Div
	dispatch[code.OpF64Min] = (*frame).opF64Min
	dispatch[code.OpF64Max] = (*frame).opF64Max
	dispatch[code.OpF64Copysign] = (*frame).opF64Copysign

	dispatch[code.OpI32WrapI64] = (*frame).opI32WrapI64
	dispatch[code.OpI32TruncF32S] = (*frame).opI32TruncF32S
	dispatch[code.OpI32TruncF32U] = (*frame).opI32TruncF32U
	dispatch[code.OpI32TruncF64S] = (*frame).opI32TruncF64S
	dispatch[code.OpI32TruncF64U] = (*frame).opI32TruncF64U

	dispatch[code.OpI64ExtendI32S] = (*frame).opI64ExtendI32S
	dispatch[code.OpI64ExtendI32U] = (*frame).opI64ExtendI32U
	dispatch[code.OpI64TruncF32S] = (*frame).opI64TruncF32S
	dispatch[code.OpI64TruncF32U] = (*frame).opI64TruncF32U
	dispatch[code.OpI64TruncF64S] = (*frame).opI64TruncF64S
	dispatch[code.OpI64TruncF64U] = (*frame).opI64TruncF64U

	dispatch[code.OpF32ConvertI32S] = (*frame).opF32ConvertI32S
	dispatch[code.OpF32ConvertI32U] = (*frame).opF32ConvertI32U
	dispatch[code.OpF32ConvertI64S] = (*frame).opF32ConvertI64S
	dispatch[code.OpF32ConvertI64U] = (*frame).opF32ConvertI64U
	dispatch[code.OpF32DemoteF64] = (*frame).opF32DemoteF64

	dispatch[code.OpF64ConvertI32S] = (*frame).opF64ConvertI32S
	dispatch[code.OpF64ConvertI32U] = (*frame).opF64ConvertI32U
	dispatch[code.OpF64ConvertI64S] = (*frame).opF64ConvertI64S
	dispatch[code.OpF64ConvertI64U] = (*frame).opF64ConvertI64U
	dispatch[code.OpF64PromoteF32] = (*frame).opF64PromoteF32

	dispatch[code.OpI32ReinterpretF32] = (*frame).opI32ReinterpretF32
	dispatch[code.OpI64ReinterpretF64] = (*frame).opI64ReinterpretF64
	dispatch[code.OpF32ReinterpretI32] = (*frame).opF32ReinterpretI32
	dispatch[code.OpF64ReinterpretI64] = (*frame).opF64ReinterpretI64

	dispatch[code.OpI32Extend8S] = (*frame).opI32Extend8S
	dispatch[code.OpI32Extend16S] = (*frame).opI32Extend16S
	dispatch[code.OpI64Extend8S] = (*frame).opI64Extend8S
	dispatch[code.OpI64Extend16S] = (*frame).opI64Extend16S
	dispatch[code.OpI64Extend32S] = (*frame).opI64Extend32S
}
