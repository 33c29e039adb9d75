package ipint

import (
	"encoding/binary"

	"github.com/skiff-wasm/skiff/abi"
	"github.com/skiff-wasm/skiff/exec"
	"github.com/skiff-wasm/skiff/meta"
	"github.com/skiff-wasm/skiff/wasm/code"
)

// dispatch maps each opcode to its handler. Slots left nil by init are
// filled with the reserved-opcode trap, so every one of the 256 entries is
// callable and dispatch itself needs no bounds or validity checks.
var dispatch [256]func(*frame)

func (f *frame) run() {
	body := f.code
	for f.pc < len(body) {
		dispatch[body[f.pc]](f)
	}
}

// runTrace is the slow path used when the thread carries a tracer. The
// cursor pair is reported before each instruction executes.
func (f *frame) runTrace(tracer exec.Tracer) {
	body := f.code
	for f.pc < len(body) {
		tracer.Instruction(f.pc, f.mc, body[f.pc])
		dispatch[body[f.pc]](f)
	}
}

func (f *frame) opReserved() {
	f.trap(exec.TrapReservedOpcode)
}

func (f *frame) opUnimplemented() {
	f.trap(exec.TrapUnimplementedInstruction)
}

func (f *frame) opUnreachable() {
	f.trap(exec.TrapUnreachable)
}

func (f *frame) opNop() {
	f.pc++
}

// opSkip handles block and loop: both compile to a skip record whose length
// byte carries the opcode and block type past the cursor.
func (f *frame) opSkip() {
	f.pc += int(f.metadata[f.mc])
	f.mc += meta.SkipRecordSize
}

func (f *frame) opIf() {
	if f.pop() != 0 {
		f.pc += int(f.metadata[f.mc])
		f.mc += meta.IfRecordSize
	} else {
		f.pc, f.mc = meta.ReadJump(f.metadata, f.mc+1)
	}
}

// opElse is reached only by falling out of a taken then-branch; it always
// jumps to the construct's end.
func (f *frame) opElse() {
	f.pc, f.mc = meta.ReadJump(f.metadata, f.mc+1)
}

func (f *frame) opEnd() {
	if f.pc == len(f.code)-1 {
		// The function-closing end doubles as the unified exit point.
		f.opReturn()
		return
	}
	f.pc++
}

func (f *frame) opReturn() {
	count := int(f.metadata[f.mc])
	copy(f.stack, f.stack[len(f.stack)-count:])
	f.stack = f.stack[:count]
	f.pc = len(f.code)
}

// branchTo transfers control to a precomputed target: the top keep slots
// shift down over the pop slots they no longer need, and both cursors load
// the target pair.
func (f *frame) branchTo(t meta.BranchTarget) {
	top := len(f.stack)
	copy(f.stack[top-t.Pop-t.Keep:], f.stack[top-t.Keep:])
	f.stack = f.stack[:top-t.Pop]
	f.pc, f.mc = t.PC, t.MC
}

func (f *frame) opBr() {
	f.branchTo(meta.ReadBranchTarget(f.metadata, f.mc))
}

func (f *frame) opBrIf() {
	if f.pop() != 0 {
		f.branchTo(meta.ReadBranchTarget(f.metadata, f.mc+1))
	} else {
		f.pc += int(f.metadata[f.mc])
		f.mc += meta.BrIfRecordSize
	}
}

func (f *frame) opBrTable() {
	i := f.popU32()
	count := binary.LittleEndian.Uint32(f.metadata[f.mc:])
	if i > count {
		i = count
	}
	off := f.mc + meta.BrTableHeaderSize + int(i)*meta.BranchTargetSize
	f.branchTo(meta.ReadBranchTarget(f.metadata, off))
}

func (f *frame) opCall() {
	funcidx := binary.LittleEndian.Uint32(f.metadata[f.mc+1:])
	callee, err := f.fn.module.ResolveFunction(funcidx)
	if err != nil {
		f.trap(exec.TrapUnresolvedFunction)
	}
	f.invoke(callee)
	f.pc += int(f.metadata[f.mc])
	f.mc += meta.CallRecordSize
}

// invoke marshals the callee's arguments out of the operand stack into an
// abi.Frame, runs the callee, and marshals its results back. Interpreted
// callees run on this machine so their frames stay adjacent in the arena;
// everything else goes through the exec.Function interface.
func (f *frame) invoke(callee exec.Function) {
	params, results := callee.Layouts()
	fr := abi.NewFrame(params, results)

	nargs := len(params.Locations)
	fr.StoreAll(params, f.stack[len(f.stack)-nargs:])
	f.stack = f.stack[:len(f.stack)-nargs]

	if fn, ok := callee.(*function); ok {
		fn.invoke(f.m, fr)
	} else {
		callee.Invoke(f.m.thread, fr)
	}

	nrets := len(results.Locations)
	f.stack = f.stack[:len(f.stack)+nrets]
	fr.LoadAll(results, f.stack[len(f.stack)-nrets:])
}

func (f *frame) opDrop() {
	f.pop()
	f.pc++
}

func (f *frame) opSelect() {
	c, v2, v1 := f.pop(), f.pop(), f.pop()
	if c != 0 {
		f.push(v1)
	} else {
		f.push(v2)
	}
	f.pc++
}

func (f *frame) localIndex() uint32 {
	return binary.LittleEndian.Uint32(f.metadata[f.mc+1:])
}

func (f *frame) opLocalGet() {
	f.push(f.locals[f.localIndex()])
	f.pc += int(f.metadata[f.mc])
	f.mc += meta.LocalRecordSize
}

func (f *frame) opLocalSet() {
	f.locals[f.localIndex()] = f.pop()
	f.pc += int(f.metadata[f.mc])
	f.mc += meta.LocalRecordSize
}

func (f *frame) opLocalTee() {
	f.locals[f.localIndex()] = f.stack[len(f.stack)-1]
	f.pc += int(f.metadata[f.mc])
	f.mc += meta.LocalRecordSize
}

// opConst handles all four constant opcodes: the record already holds the
// value in uniform slot representation.
func (f *frame) opConst() {
	f.push(binary.LittleEndian.Uint64(f.metadata[f.mc+1:]))
	f.pc += int(f.metadata[f.mc])
	f.mc += meta.ConstRecordSize
}

func (f *frame) opPrefix() {
	subOpcode := binary.LittleEndian.Uint32(f.metadata[f.mc+1:])
	switch subOpcode {
	case code.OpI32TruncSatF32S:
		f.pushI32(exec.I32TruncSatS(float64(f.popF32())))
	case code.OpI32TruncSatF32U:
		f.pushU32(exec.I32TruncSatU(float64(f.popF32())))
	case code.OpI32TruncSatF64S:
		f.pushI32(exec.I32TruncSatS(f.popF64()))
	case code.OpI32TruncSatF64U:
		f.pushU32(exec.I32TruncSatU(f.popF64()))
	case code.OpI64TruncSatF32S:
		f.pushI64(exec.I64TruncSatS(float64(f.popF32())))
	case code.OpI64TruncSatF32U:
		f.pushU64(exec.I64TruncSatU(float64(f.popF32())))
	case code.OpI64TruncSatF64S:
		f.pushI64(exec.I64TruncSatS(f.popF64()))
	case code.OpI64TruncSatF64U:
		f.pushU64(exec.I64TruncSatU(f.popF64()))
	default:
		f.trap(exec.TrapReservedOpcode)
	}
	f.pc += int(f.metadata[f.mc])
	f.mc += meta.PrefixRecordSize
}

func init() {
	for i := range dispatch {
		dispatch[i] = (*frame).opReserved
	}

	dispatch[code.OpUnreachable] = (*frame).opUnreachable
	dispatch[code.OpNop] = (*frame).opNop
	dispatch[code.OpBlock] = (*frame).opSkip
	dispatch[code.OpLoop] = (*frame).opSkip
	dispatch[code.OpIf] = (*frame).opIf
	dispatch[code.OpElse] = (*frame).opElse
	dispatch[code.OpEnd] = (*frame).opEnd
	dispatch[code.OpBr] = (*frame).opBr
	dispatch[code.OpBrIf] = (*frame).opBrIf
	dispatch[code.OpBrTable] = (*frame).opBrTable
	dispatch[code.OpReturn] = (*frame).opReturn
	dispatch[code.OpCall] = (*frame).opCall
	dispatch[code.OpCallIndirect] = (*frame).opUnimplemented

	dispatch[code.OpDrop] = (*frame).opDrop
	dispatch[code.OpSelect] = (*frame).opSelect

	dispatch[code.OpLocalGet] = (*frame).opLocalGet
	dispatch[code.OpLocalSet] = (*frame).opLocalSet
	dispatch[code.OpLocalTee] = (*frame).opLocalTee
	dispatch[code.OpGlobalGet] = (*frame).opUnimplemented
	dispatch[code.OpGlobalSet] = (*frame).opUnimplemented

	for op := code.OpI32Load; op <= code.OpI64Store32; op++ {
		dispatch[op] = (*frame).opUnimplemented
	}
	dispatch[code.OpMemorySize] = (*frame).opUnimplemented
	dispatch[code.OpMemoryGrow] = (*frame).opUnimplemented

	dispatch[code.OpI32Const] = (*frame).opConst
	dispatch[code.OpI64Const] = (*frame).opConst
	dispatch[code.OpF32Const] = (*frame).opConst
	dispatch[code.OpF64Const] = (*frame).opConst

	dispatch[code.OpPrefix] = (*frame).opPrefix

	registerNumerics()
}
