package ipint

import (
	"math"

	"github.com/skiff-wasm/skiff/exec"
)

// A frame is one activation of an interpreted function. Its locals and
// operand stack are windows into the owning machine's arena; the pc cursor
// indexes the bytecode and the mc cursor indexes the metadata stream, and the
// two advance in lock-step under the dispatch loop.
type frame struct {
	m  *machine
	fn *function
	fp int

	code     []byte
	metadata []byte
	pc       int
	mc       int

	locals []uint64
	stack  []uint64
}

func (f *frame) trap(t exec.Trap) {
	panic(t)
}

func (f *frame) push(v uint64) {
	f.stack = f.stack[:len(f.stack)+1]
	f.stack[len(f.stack)-1] = v
}

func (f *frame) pop() uint64 {
	v := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	return v
}

func (f *frame) pop2() (v2, v1 uint64) {
	v1, v2 = f.stack[len(f.stack)-2], f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-2]
	return v2, v1
}

func (f *frame) pushI(v int) {
	f.push(uint64(v))
}

func (f *frame) pushU32(v uint32) {
	f.push(uint64(v))
}

func (f *frame) pushU64(v uint64) {
	f.push(v)
}

func (f *frame) pushI32(v int32) {
	f.push(uint64(v))
}

func (f *frame) pushI64(v int64) {
	f.push(uint64(v))
}

func (f *frame) pushF32(v float32) {
	f.push(uint64(math.Float32bits(v)))
}

func (f *frame) pushF64(v float64) {
	f.push(math.Float64bits(v))
}

func (f *frame) pushBool(v bool) {
	i := 0
	if v {
		i = 1
	}
	f.pushI32(int32(i))
}

func (f *frame) popI() int {
	return int(f.pop())
}

func (f *frame) popU32() uint32 {
	return uint32(f.pop())
}

func (f *frame) popU64() uint64 {
	return f.pop()
}

func (f *frame) popI32() int32 {
	return int32(f.pop())
}

func (f *frame) popI64() int64 {
	return int64(f.pop())
}

func (f *frame) popF32() float32 {
	return math.Float32frombits(uint32(f.pop()))
}

func (f *frame) popF64() float64 {
	return math.Float64frombits(f.pop())
}

func (f *frame) pop2U32() (v2, v1 uint32) {
	u2, u1 := f.pop2()
	return uint32(u2), uint32(u1)
}

func (f *frame) pop2U64() (v2, v1 uint64) {
	return f.pop2()
}

func (f *frame) pop2I32() (v2, v1 int32) {
	u2, u1 := f.pop2()
	return int32(u2), int32(u1)
}

func (f *frame) pop2I64() (v2, v1 int64) {
	u2, u1 := f.pop2()
	return int64(u2), int64(u1)
}

func (f *frame) pop2F32() (v2, v1 float32) {
	u2, u1 := f.pop2U32()
	return math.Float32frombits(u2), math.Float32frombits(u1)
}

func (f *frame) pop2F64() (v2, v1 float64) {
	u2, u1 := f.pop2()
	return math.Float64frombits(u2), math.Float64frombits(u1)
}
