package wasm

import "fmt"

// ValueType represents the type of a numeric value.
type ValueType uint8

const (
	ValueTypeI32 ValueType = 0x7f
	ValueTypeI64 ValueType = 0x7e
	ValueTypeF32 ValueType = 0x7d
	ValueTypeF64 ValueType = 0x7c
)

func (t ValueType) String() string {
	switch t {
	case ValueTypeI32:
		return "i32"
	case ValueTypeI64:
		return "i64"
	case ValueTypeF32:
		return "f32"
	case ValueTypeF64:
		return "f64"
	default:
		return fmt.Sprintf("<unknown value type %#x>", uint8(t))
	}
}

// IsFloat returns true if t is a floating-point value type.
func (t ValueType) IsFloat() bool {
	return t == ValueTypeF32 || t == ValueTypeF64
}

// FunctionSig describes the parameter and result types of a function.
type FunctionSig struct {
	ParamTypes  []ValueType
	ReturnTypes []ValueType
}

func (f FunctionSig) Equals(other FunctionSig) bool {
	if len(f.ParamTypes) != len(other.ParamTypes) || len(f.ReturnTypes) != len(other.ReturnTypes) {
		return false
	}
	for i, t := range f.ParamTypes {
		if t != other.ParamTypes[i] {
			return false
		}
	}
	for i, t := range f.ReturnTypes {
		if t != other.ReturnTypes[i] {
			return false
		}
	}
	return true
}

func (f FunctionSig) String() string {
	return fmt.Sprintf("%v -> %v", f.ParamTypes, f.ReturnTypes)
}

// A LocalEntry declares a run of locals of a single type.
type LocalEntry struct {
	Count uint32
	Type  ValueType
}
