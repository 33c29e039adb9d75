package exec

import (
	"runtime"
	"strings"
)

// A Trap is the reason code for an unrecoverable fault. Traps abort the
// current activation by panicking; the public entry points recover them and
// surface them to the host as errors.
type Trap string

func (t Trap) Error() string {
	return string(t)
}

// TrapIntegerOverflow indicates an integer overflow.
var TrapIntegerOverflow = Trap("integer overflow")

// TrapInvalidConversionToInteger indicates an invalid conversion from a
// floating-point value to an integer.
var TrapInvalidConversionToInteger = Trap("invalid conversion to integer")

// TrapIntegerDivideByZero indicates an attempt to divide by zero.
var TrapIntegerDivideByZero = Trap("integer divide by zero")

// TrapCallStackExhausted indicates call stack exhaustion.
var TrapCallStackExhausted = Trap("call stack exhausted")

// TrapUnreachable indicates execution of unreachable code.
var TrapUnreachable = Trap("unreachable")

// TrapReservedOpcode indicates execution of an opcode that the bytecode
// format does not assign.
var TrapReservedOpcode = Trap("reserved opcode")

// TrapUnimplementedInstruction indicates execution of an instruction the
// format assigns but this engine does not implement. These fault immediately
// rather than silently doing nothing.
var TrapUnimplementedInstruction = Trap("unimplemented instruction")

// TrapUnresolvedFunction indicates that a callee could not be resolved or
// compiled.
var TrapUnresolvedFunction = Trap("unresolved function")

// TranslateRuntimeError translates Go runtime errors into traps.
func TranslateRuntimeError(err runtime.Error) (Trap, bool) {
	switch {
	case err == nil:
		return "", false
	case strings.HasPrefix(err.Error(), "runtime error: integer divide by zero"):
		return TrapIntegerDivideByZero, true
	default:
		return "", false
	}
}

// Recover translates the result of a call to recover() into either nil, a
// trap, or a re-panic. Use it at the boundary between the interpreter and the
// host:
//
//	defer func() { err = exec.Recover(recover()) }()
func Recover(x interface{}) error {
	switch v := x.(type) {
	case nil:
		return nil
	case Trap:
		return v
	case runtime.Error:
		if trap, ok := TranslateRuntimeError(v); ok {
			return trap
		}
	}
	panic(x)
}
