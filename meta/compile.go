package meta

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/skiff-wasm/skiff/wasm"
	"github.com/skiff-wasm/skiff/wasm/code"
	"github.com/skiff-wasm/skiff/wasm/leb128"
)

// A Function is a validated function body as produced by the loader. Compile
// performs no safety validation of its own: feeding it unvalidated code is a
// loader defect.
type Function struct {
	Signature wasm.FunctionSig
	Locals    []wasm.LocalEntry
	Code      []byte
}

// A Scope provides the module-level context the generator needs: callee
// signatures for call instructions and signatures for type-indexed block
// types.
type Scope interface {
	FunctionSignature(funcidx uint32) (wasm.FunctionSig, bool)
	Type(typeidx uint32) (wasm.FunctionSig, bool)
}

// Metrics records per-function statistics gathered during generation.
type Metrics struct {
	MaxStackDepth    int
	MaxNesting       int
	InstructionCount int
	LabelCount       int
	HasLoops         bool
}

// A Body is a compiled function body: the immutable bytecode and metadata
// streams plus the frame layout the interpreter needs to execute it.
type Body struct {
	Signature wasm.FunctionSig
	Bytecode  []byte
	Metadata  []byte
	NumParams int
	NumLocals int // parameters plus declared locals
	Metrics   Metrics
}

// ctrl tracks one open control construct during generation.
type ctrl struct {
	opcode byte
	ins    int
	outs   int
	height int // operand stack height at entry, below the construct's inputs

	// loop continuations are known at entry; everything else is patched at
	// the construct's end.
	loopPC int
	loopMC int

	branchFixups []int // metadata offsets of branch targets awaiting the end continuation
	jumpFixups   []int // metadata offsets of (PC, MC) jumps awaiting the end continuation

	entryUnreachable bool
	unreachable      bool
}

func (c *ctrl) arity() int {
	if c.opcode == code.OpLoop {
		return c.ins
	}
	return c.outs
}

type generator struct {
	scope Scope
	fn    Function

	code     []byte
	pc       int
	metadata []byte

	height  int
	metrics Metrics
	ctrls   []ctrl
}

// Compile walks a validated function body once and produces its metadata
// stream.
func Compile(fn Function, scope Scope) (*Body, error) {
	numLocals := len(fn.Signature.ParamTypes)
	for _, entry := range fn.Locals {
		numLocals += int(entry.Count)
	}

	g := generator{
		scope:    scope,
		fn:       fn,
		code:     fn.Code,
		metadata: make([]byte, 0, len(fn.Code)),
		ctrls:    make([]ctrl, 1, 8),
	}
	g.ctrls[0] = ctrl{opcode: code.OpBlock, outs: len(fn.Signature.ReturnTypes)}

	for g.pc < len(g.code) {
		if err := g.instruction(); err != nil {
			return nil, err
		}
	}
	if len(g.ctrls) != 0 {
		return nil, fmt.Errorf("meta: function body is not terminated")
	}

	return &Body{
		Signature: fn.Signature,
		Bytecode:  fn.Code,
		Metadata:  g.metadata,
		NumParams: len(fn.Signature.ParamTypes),
		NumLocals: numLocals,
		Metrics:   g.metrics,
	}, nil
}

func (g *generator) top() *ctrl {
	return &g.ctrls[len(g.ctrls)-1]
}

func (g *generator) push(n int) {
	g.height += n
	if g.height > g.metrics.MaxStackDepth {
		g.metrics.MaxStackDepth = g.height
	}
}

func (g *generator) pop(n int) error {
	g.height -= n
	if len(g.ctrls) != 0 {
		c := g.top()
		if g.height < c.height {
			if !c.unreachable {
				return fmt.Errorf("meta: operand stack underflow at offset %v", g.pc)
			}
			g.height = c.height
		}
	} else if g.height < 0 {
		g.height = 0
	}
	return nil
}

// markUnreachable records that the rest of the current construct cannot be
// reached and resets the tracked height to the construct's floor.
func (g *generator) markUnreachable() {
	c := g.top()
	c.unreachable = true
	g.height = c.height
}

func (g *generator) varUint32() (uint32, error) {
	v, n, err := leb128.GetVarUint32(g.code[g.pc:])
	if err != nil {
		return 0, err
	}
	g.pc += n
	return v, nil
}

func (g *generator) blockType() (ins, outs int, err error) {
	if g.pc >= len(g.code) {
		return 0, 0, io.ErrUnexpectedEOF
	}
	switch g.code[g.pc] {
	case 0x40:
		g.pc++
		return 0, 0, nil
	case 0x7f, 0x7e, 0x7d, 0x7c:
		g.pc++
		return 0, 1, nil
	default:
		typeidx, n, err := leb128.GetVarint64(g.code[g.pc:])
		if err != nil {
			return 0, 0, err
		}
		g.pc += n
		sig, ok := g.scope.Type(uint32(typeidx))
		if !ok {
			return 0, 0, fmt.Errorf("meta: unknown type index %v", typeidx)
		}
		return len(sig.ParamTypes), len(sig.ReturnTypes), nil
	}
}

func (g *generator) pushCtrl(opcode byte, ins, outs int) *ctrl {
	parent := g.top()
	g.ctrls = append(g.ctrls, ctrl{
		opcode:           opcode,
		ins:              ins,
		outs:             outs,
		height:           g.height - ins,
		entryUnreachable: parent.unreachable,
		unreachable:      parent.unreachable,
	})
	if len(g.ctrls) > g.metrics.MaxNesting {
		g.metrics.MaxNesting = len(g.ctrls)
	}
	g.metrics.LabelCount++
	return g.top()
}

// branchTarget emits a branch-target record for a branch to the given label
// index, either fully resolved (loops) or registered for patching at the
// destination's end.
func (g *generator) branchTarget(labelidx int) error {
	if labelidx >= len(g.ctrls) {
		return fmt.Errorf("meta: branch depth %v exceeds nesting at offset %v", labelidx, g.pc)
	}
	dest := &g.ctrls[len(g.ctrls)-1-labelidx]

	keep := dest.arity()
	pop := g.height - dest.height - keep
	if pop < 0 {
		// Only occurs below an unconditional transfer; the record is never
		// executed.
		pop = 0
	}

	off := len(g.metadata)
	g.metadata = append(g.metadata, make([]byte, BranchTargetSize)...)
	t := BranchTarget{Pop: pop, Keep: keep}
	if dest.opcode == code.OpLoop {
		t.PC, t.MC = dest.loopPC, dest.loopMC
	} else {
		dest.branchFixups = append(dest.branchFixups, off)
	}
	putBranchTarget(g.metadata, off, t)
	return nil
}

func (g *generator) instruction() error {
	start := g.pc
	opcode := g.code[g.pc]
	g.pc++
	g.metrics.InstructionCount++

	appendRecord := func(payload ...byte) {
		g.metadata = append(g.metadata, byte(g.pc-start))
		g.metadata = append(g.metadata, payload...)
	}
	var u32 [4]byte
	var u64 [8]byte

	switch opcode {
	case code.OpUnreachable:
		g.markUnreachable()

	case code.OpNop:

	case code.OpBlock:
		ins, outs, err := g.blockType()
		if err != nil {
			return err
		}
		appendRecord()
		g.pushCtrl(code.OpBlock, ins, outs)

	case code.OpLoop:
		ins, outs, err := g.blockType()
		if err != nil {
			return err
		}
		appendRecord()
		c := g.pushCtrl(code.OpLoop, ins, outs)
		c.loopPC, c.loopMC = g.pc, len(g.metadata)
		g.metrics.HasLoops = true

	case code.OpIf:
		if err := g.pop(1); err != nil {
			return err
		}
		ins, outs, err := g.blockType()
		if err != nil {
			return err
		}
		jumpOff := len(g.metadata) + 1
		appendRecord(u64[:8]...)
		c := g.pushCtrl(code.OpIf, ins, outs)
		c.jumpFixups = append(c.jumpFixups, jumpOff)

	case code.OpElse:
		c := g.top()

		// The if record's false-target is the first instruction of the else
		// branch: just past this instruction and its record.
		elsePC, elseMC := g.pc, len(g.metadata)+ElseRecordSize
		for _, off := range c.jumpFixups {
			putJump(g.metadata, off, elsePC, elseMC)
		}
		c.jumpFixups = c.jumpFixups[:0]

		// The else record itself jumps to the construct's end; patched
		// there.
		c.jumpFixups = append(c.jumpFixups, len(g.metadata)+1)
		appendRecord(u64[:8]...)

		g.height = c.height + c.ins
		c.unreachable = c.entryUnreachable

	case code.OpEnd:
		c := *g.top()
		g.ctrls = g.ctrls[:len(g.ctrls)-1]

		endPC, endMC := start, len(g.metadata)
		for _, off := range c.branchFixups {
			t := ReadBranchTarget(g.metadata, off)
			t.PC, t.MC = endPC, endMC
			putBranchTarget(g.metadata, off, t)
		}
		for _, off := range c.jumpFixups {
			putJump(g.metadata, off, endPC, endMC)
		}

		if len(g.ctrls) == 0 {
			// Function-closing end: the unified exit point.
			if g.pc != len(g.code) {
				return fmt.Errorf("meta: trailing code after function end")
			}
			g.metadata = append(g.metadata, byte(len(g.fn.Signature.ReturnTypes)))
		}
		g.height = c.height + c.outs
		if g.height > g.metrics.MaxStackDepth {
			g.metrics.MaxStackDepth = g.height
		}

	case code.OpBr:
		labelidx, err := g.varUint32()
		if err != nil {
			return err
		}
		if err := g.branchTarget(int(labelidx)); err != nil {
			return err
		}
		g.markUnreachable()

	case code.OpBrIf:
		if err := g.pop(1); err != nil {
			return err
		}
		labelidx, err := g.varUint32()
		if err != nil {
			return err
		}
		g.metadata = append(g.metadata, byte(g.pc-start))
		if err := g.branchTarget(int(labelidx)); err != nil {
			return err
		}

	case code.OpBrTable:
		if err := g.pop(1); err != nil {
			return err
		}
		count, err := g.varUint32()
		if err != nil {
			return err
		}
		labels := make([]uint32, count+1)
		for i := range labels {
			if labels[i], err = g.varUint32(); err != nil {
				return err
			}
		}
		binary.LittleEndian.PutUint32(u32[:], count)
		g.metadata = append(g.metadata, u32[:]...)
		for _, l := range labels {
			if err := g.branchTarget(int(l)); err != nil {
				return err
			}
		}
		g.markUnreachable()

	case code.OpReturn:
		g.metadata = append(g.metadata, byte(len(g.fn.Signature.ReturnTypes)))
		g.markUnreachable()

	case code.OpCall:
		funcidx, err := g.varUint32()
		if err != nil {
			return err
		}
		sig, ok := g.scope.FunctionSignature(funcidx)
		if !ok {
			return fmt.Errorf("meta: unknown function index %v", funcidx)
		}
		binary.LittleEndian.PutUint32(u32[:], funcidx)
		appendRecord(u32[:]...)
		if err := g.pop(len(sig.ParamTypes)); err != nil {
			return err
		}
		g.push(len(sig.ReturnTypes))

	case code.OpCallIndirect:
		// Shape-only: parse the immediates so the cursor stays aligned. The
		// instruction traps before consuming metadata.
		typeidx, err := g.varUint32()
		if err != nil {
			return err
		}
		g.pc++ // table index
		sig, ok := g.scope.Type(typeidx)
		if !ok {
			return fmt.Errorf("meta: unknown type index %v", typeidx)
		}
		if err := g.pop(len(sig.ParamTypes) + 1); err != nil {
			return err
		}
		g.push(len(sig.ReturnTypes))

	case code.OpDrop:
		if err := g.pop(1); err != nil {
			return err
		}
	case code.OpSelect:
		if err := g.pop(3); err != nil {
			return err
		}
		g.push(1)

	case code.OpLocalGet, code.OpLocalSet, code.OpLocalTee:
		localidx, err := g.varUint32()
		if err != nil {
			return err
		}
		binary.LittleEndian.PutUint32(u32[:], localidx)
		appendRecord(u32[:]...)
		switch opcode {
		case code.OpLocalGet:
			g.push(1)
		case code.OpLocalSet:
			if err := g.pop(1); err != nil {
				return err
			}
		}

	case code.OpGlobalGet, code.OpGlobalSet:
		// Shape-only; traps at run time.
		if _, err := g.varUint32(); err != nil {
			return err
		}
		if opcode == code.OpGlobalGet {
			g.push(1)
		} else if err := g.pop(1); err != nil {
			return err
		}

	case code.OpMemorySize, code.OpMemoryGrow:
		// Shape-only; traps at run time.
		g.pc++
		if opcode == code.OpMemorySize {
			g.push(1)
		}

	case code.OpI32Const:
		v, n, err := leb128.GetVarint32(g.code[g.pc:])
		if err != nil {
			return err
		}
		g.pc += n
		binary.LittleEndian.PutUint64(u64[:], uint64(int64(v)))
		appendRecord(u64[:]...)
		g.push(1)

	case code.OpI64Const:
		v, n, err := leb128.GetVarint64(g.code[g.pc:])
		if err != nil {
			return err
		}
		g.pc += n
		binary.LittleEndian.PutUint64(u64[:], uint64(v))
		appendRecord(u64[:]...)
		g.push(1)

	case code.OpF32Const:
		bits := binary.LittleEndian.Uint32(g.code[g.pc:])
		g.pc += 4
		binary.LittleEndian.PutUint64(u64[:], uint64(bits))
		appendRecord(u64[:]...)
		g.push(1)

	case code.OpF64Const:
		bits := binary.LittleEndian.Uint64(g.code[g.pc:])
		g.pc += 8
		binary.LittleEndian.PutUint64(u64[:], bits)
		appendRecord(u64[:]...)
		g.push(1)

	case code.OpPrefix:
		subOpcode, err := g.varUint32()
		if err != nil {
			return err
		}
		binary.LittleEndian.PutUint32(u32[:], subOpcode)
		appendRecord(u32[:]...)
		// All assigned 0xfc instructions here are unary conversions.
		if err := g.pop(1); err != nil {
			return err
		}
		g.push(1)

	default:
		pop, pushed, ok := stackEffect(opcode)
		if !ok {
			// Load/store shapes keep the cursor aligned; everything else in
			// the opcode space is reserved and traps at dispatch.
			if n, memory := memargSize(g.code[g.pc:], opcode); memory {
				g.pc += n
				return g.memoryEffect(opcode)
			}
			return nil
		}
		if err := g.pop(pop); err != nil {
			return err
		}
		g.push(pushed)
	}

	return nil
}

func (g *generator) memoryEffect(opcode byte) error {
	switch {
	case opcode >= code.OpI32Load && opcode <= code.OpI64Load32U:
		// 1 pop, 1 push
	case opcode >= code.OpI32Store && opcode <= code.OpI64Store32:
		if err := g.pop(2); err != nil {
			return err
		}
	}
	return nil
}

// memargSize returns the encoded size of a load/store's align+offset
// immediates, or ok=false if the opcode is not a memory access.
func memargSize(body []byte, opcode byte) (n int, ok bool) {
	if opcode < code.OpI32Load || opcode > code.OpI64Store32 {
		return 0, false
	}
	_, alignLen, err := leb128.GetVarUint32(body)
	if err != nil {
		return 0, false
	}
	_, offsetLen, err := leb128.GetVarUint32(body[alignLen:])
	if err != nil {
		return 0, false
	}
	return alignLen + offsetLen, true
}
