package meta

import (
	"fmt"

	"github.com/skiff-wasm/skiff/wasm/code"
	"github.com/skiff-wasm/skiff/wasm/leb128"
)

// Walk visits every instruction of a compiled body in bytecode order,
// reporting the cursor pair at which the dispatch engine would observe it.
// It is intended for listing and analysis tools; the interpreter itself
// never walks linearly.
func Walk(b *Body, visit func(pc, mc int, opcode byte) error) error {
	pc, mc, depth := 0, 0, 1
	for pc < len(b.Bytecode) {
		opcode := b.Bytecode[pc]
		if err := visit(pc, mc, opcode); err != nil {
			return err
		}

		encLen, recLen, err := instructionSize(b.Bytecode[pc:], opcode, depth == 1)
		if err != nil {
			return fmt.Errorf("meta: walk at offset %v: %w", pc, err)
		}
		switch opcode {
		case code.OpBlock, code.OpLoop, code.OpIf:
			depth++
		case code.OpEnd:
			depth--
		}
		pc += encLen
		mc += recLen
	}
	return nil
}

// instructionSize returns the encoded length of the instruction at the start
// of body and the size of its metadata record.
func instructionSize(body []byte, opcode byte, atFunctionDepth bool) (encLen, recLen int, err error) {
	immLen := func(n int, err error) error {
		encLen = 1 + n
		return err
	}

	switch opcode {
	case code.OpBlock, code.OpLoop, code.OpIf:
		n, err := blockTypeSize(body[1:])
		if err != nil {
			return 0, 0, err
		}
		encLen = 1 + n
		switch opcode {
		case code.OpIf:
			recLen = IfRecordSize
		default:
			recLen = SkipRecordSize
		}
	case code.OpElse:
		encLen, recLen = 1, ElseRecordSize
	case code.OpEnd:
		encLen = 1
		if atFunctionDepth {
			recLen = ReturnRecordSize
		}
	case code.OpReturn:
		encLen, recLen = 1, ReturnRecordSize
	case code.OpBr:
		_, n, err := leb128.GetVarUint32(body[1:])
		if err := immLen(n, err); err != nil {
			return 0, 0, err
		}
		recLen = BrRecordSize
	case code.OpBrIf:
		_, n, err := leb128.GetVarUint32(body[1:])
		if err := immLen(n, err); err != nil {
			return 0, 0, err
		}
		recLen = BrIfRecordSize
	case code.OpBrTable:
		count, n, err := leb128.GetVarUint32(body[1:])
		if err != nil {
			return 0, 0, err
		}
		encLen = 1 + n
		for i := 0; i <= int(count); i++ {
			_, n, err = leb128.GetVarUint32(body[encLen:])
			if err != nil {
				return 0, 0, err
			}
			encLen += n
		}
		recLen = BrTableHeaderSize + (int(count)+1)*BranchTargetSize
	case code.OpCall:
		_, n, err := leb128.GetVarUint32(body[1:])
		if err := immLen(n, err); err != nil {
			return 0, 0, err
		}
		recLen = CallRecordSize
	case code.OpCallIndirect:
		_, n, err := leb128.GetVarUint32(body[1:])
		if err != nil {
			return 0, 0, err
		}
		encLen = 1 + n + 1
	case code.OpLocalGet, code.OpLocalSet, code.OpLocalTee:
		_, n, err := leb128.GetVarUint32(body[1:])
		if err := immLen(n, err); err != nil {
			return 0, 0, err
		}
		recLen = LocalRecordSize
	case code.OpGlobalGet, code.OpGlobalSet:
		_, n, err := leb128.GetVarUint32(body[1:])
		if err := immLen(n, err); err != nil {
			return 0, 0, err
		}
	case code.OpMemorySize, code.OpMemoryGrow:
		encLen = 2
	case code.OpI32Const:
		_, n, err := leb128.GetVarint32(body[1:])
		if err := immLen(n, err); err != nil {
			return 0, 0, err
		}
		recLen = ConstRecordSize
	case code.OpI64Const:
		_, n, err := leb128.GetVarint64(body[1:])
		if err := immLen(n, err); err != nil {
			return 0, 0, err
		}
		recLen = ConstRecordSize
	case code.OpF32Const:
		encLen, recLen = 5, ConstRecordSize
	case code.OpF64Const:
		encLen, recLen = 9, ConstRecordSize
	case code.OpPrefix:
		_, n, err := leb128.GetVarUint32(body[1:])
		if err := immLen(n, err); err != nil {
			return 0, 0, err
		}
		recLen = PrefixRecordSize
	default:
		if n, ok := memargSize(body[1:], opcode); ok {
			encLen = 1 + n
		} else {
			encLen = 1
		}
	}
	return encLen, recLen, nil
}

func blockTypeSize(body []byte) (int, error) {
	switch body[0] {
	case 0x40, 0x7f, 0x7e, 0x7d, 0x7c:
		return 1, nil
	default:
		_, n, err := leb128.GetVarint64(body)
		return n, err
	}
}
