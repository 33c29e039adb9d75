// Package abi models the native calling convention the interpreter marshals
// values through at every call boundary. The convention assigns integer
// values to integer registers and floating-point values to float registers in
// declaration order; values beyond the register budget spill to consecutive
// stack slots.
package abi

import "github.com/skiff-wasm/skiff/wasm"

// Register budget of the modeled convention.
const (
	NumIntRegs   = 8
	NumFloatRegs = 8
)

// Kind classifies where a value lives during a call.
type Kind uint8

const (
	IntReg Kind = iota
	FloatReg
	StackSlot
)

// A Location names one register or stack slot.
type Location struct {
	Kind  Kind
	Index uint16
}

// A Layout assigns a location to each value in a parameter or return group.
// Layouts are computed once, at metadata-generation time, and are immutable
// afterwards.
type Layout struct {
	Locations  []Location
	IntRegs    int
	FloatRegs  int
	StackSlots int
}

// LayoutFor computes the layout for a group of values in declaration order.
func LayoutFor(types []wasm.ValueType) Layout {
	l := Layout{Locations: make([]Location, len(types))}
	for i, t := range types {
		switch {
		case t.IsFloat() && l.FloatRegs < NumFloatRegs:
			l.Locations[i] = Location{Kind: FloatReg, Index: uint16(l.FloatRegs)}
			l.FloatRegs++
		case !t.IsFloat() && l.IntRegs < NumIntRegs:
			l.Locations[i] = Location{Kind: IntReg, Index: uint16(l.IntRegs)}
			l.IntRegs++
		default:
			l.Locations[i] = Location{Kind: StackSlot, Index: uint16(l.StackSlots)}
			l.StackSlots++
		}
	}
	return l
}

// A Frame holds the register and stack-slot state exchanged across one call.
// Float registers hold raw IEEE bits, matching the interpreter's uniform slot
// representation.
type Frame struct {
	Ints   [NumIntRegs]uint64
	Floats [NumFloatRegs]uint64
	Stack  []uint64
}

// NewFrame returns a frame with enough stack slots for both the parameter and
// return layouts.
func NewFrame(params, returns Layout) *Frame {
	slots := params.StackSlots
	if returns.StackSlots > slots {
		slots = returns.StackSlots
	}
	f := &Frame{}
	if slots > 0 {
		f.Stack = make([]uint64, slots)
	}
	return f
}

// Store places v at the given location.
func (f *Frame) Store(l Location, v uint64) {
	switch l.Kind {
	case IntReg:
		f.Ints[l.Index] = v
	case FloatReg:
		f.Floats[l.Index] = v
	default:
		f.Stack[l.Index] = v
	}
}

// Load reads the value at the given location.
func (f *Frame) Load(l Location) uint64 {
	switch l.Kind {
	case IntReg:
		return f.Ints[l.Index]
	case FloatReg:
		return f.Floats[l.Index]
	default:
		return f.Stack[l.Index]
	}
}

// StoreAll distributes values into the frame per the layout. It is the
// marshaling direction used for arguments before a call and for results
// before a return.
func (f *Frame) StoreAll(layout Layout, values []uint64) {
	for i, loc := range layout.Locations {
		f.Store(loc, values[i])
	}
}

// LoadAll gathers values out of the frame per the layout, in declaration
// order.
func (f *Frame) LoadAll(layout Layout, values []uint64) {
	for i, loc := range layout.Locations {
		values[i] = f.Load(loc)
	}
}
