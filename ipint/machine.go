// Package ipint implements an in-place interpreter: function bodies execute
// directly from their validated bytecode, with a precomputed metadata stream
// supplying decoded immediates and control-flow continuations so that no
// LEB128 encoding is ever re-parsed during execution.
package ipint

import (
	"github.com/skiff-wasm/skiff/exec"
)

// A machine owns the flat value arena that frames carve their locals and
// operand stacks out of. Machines are single-threaded; concurrent execution
// uses one machine per thread.
type machine struct {
	thread *exec.Thread

	stack  []uint64
	frames []*frame
}

func (m *machine) init(t *exec.Thread) {
	m.thread = t
	m.stack = make([]uint64, 0, 1024)
	m.frames = make([]*frame, 0, 64)
}

func zero64(s []uint64) {
	for i := range s {
		s[i] = 0
	}
}

// frame layout in the arena:
//
// locals (nlocals)       <-- f.fp points here
// stack  (maxStack)      <-- f.stack starts here
//
// The full extent is reserved up front, so the arena's length is always the
// top of the active frame.
func (m *machine) alloc(f *frame, nlocals, maxStack int) {
	maxFrame := nlocals + maxStack

	// Growing the arena moves it, so every live frame's slices have to be
	// rebuilt against the new backing array.
	stack := m.stack
	if cap(stack)-len(stack) < maxFrame {
		x := (maxFrame/1024 + 1) * 1024
		newStack := make([]uint64, len(stack), cap(stack)+x)
		copy(newStack, stack)
		stack = newStack

		for _, live := range m.frames {
			nloc, nstk, cstk := len(live.locals), len(live.stack), cap(live.stack)
			fr := stack[live.fp:]
			live.locals = fr[0:nloc:nloc]
			live.stack = fr[nloc : nloc+nstk : nloc+cstk]
		}
	}

	fp := len(stack)
	fr := stack[fp : fp+maxFrame]
	zero64(fr[:nlocals])
	m.stack = stack[: fp+maxFrame : cap(stack)]

	f.m = m
	f.fp = fp
	f.locals = fr[0:nlocals:nlocals]
	f.stack = fr[nlocals:nlocals:maxFrame]
	m.frames = append(m.frames, f)
}

func (m *machine) free(f *frame) {
	m.stack = m.stack[:f.fp]
	m.frames = m.frames[:len(m.frames)-1]
}
