package code

import (
	"encoding/binary"
	"io"

	"github.com/skiff-wasm/skiff/wasm/leb128"
)

func encodeBlockType(w io.Writer, instr Instruction) error {
	// Value-typed block types are a single byte; anything else is a type
	// index.
	if instr.Immediate&0x8000000000000000 != 0 {
		_, err := w.Write([]byte{byte(instr.Immediate)})
		return err
	}

	_, err := leb128.WriteVarint64(w, int64(instr.Immediate))
	return err
}

func encodeInstruction(w io.Writer, instr Instruction) error {
	if _, err := w.Write([]byte{instr.Opcode}); err != nil {
		return err
	}

	switch instr.Opcode {
	case OpBlock, OpLoop, OpIf:
		return encodeBlockType(w, instr)

	case OpBr, OpBrIf, OpCall, OpLocalGet, OpLocalSet, OpLocalTee, OpGlobalGet, OpGlobalSet:
		_, err := leb128.WriteVarUint32(w, uint32(instr.Immediate))
		return err

	case OpBrTable:
		if _, err := leb128.WriteVarUint32(w, uint32(len(instr.Labels))); err != nil {
			return err
		}
		for _, l := range instr.Labels {
			if _, err := leb128.WriteVarUint32(w, uint32(l)); err != nil {
				return err
			}
		}
		_, err := leb128.WriteVarUint32(w, uint32(instr.Immediate))
		return err

	case OpI32Const:
		_, err := leb128.WriteVarint64(w, int64(int32(instr.Immediate)))
		return err
	case OpI64Const:
		_, err := leb128.WriteVarint64(w, int64(instr.Immediate))
		return err
	case OpF32Const:
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(instr.Immediate))
		_, err := w.Write(buf[:])
		return err
	case OpF64Const:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], instr.Immediate)
		_, err := w.Write(buf[:])
		return err

	case OpPrefix:
		_, err := leb128.WriteVarUint32(w, uint32(instr.Immediate))
		return err

	default:
		// Single-byte encoding; already done.
		return nil
	}
}

// Encode writes a function body to w. The body must be terminated by an end
// instruction.
func Encode(w io.Writer, body []Instruction) error {
	for i := range body {
		if err := encodeInstruction(w, body[i]); err != nil {
			return err
		}
	}
	if len(body) == 0 || body[len(body)-1].Opcode != OpEnd {
		return io.ErrUnexpectedEOF
	}
	return nil
}

// Body assembles a function body into its byte encoding. It panics on
// malformed input and is intended for tests and tooling.
func Body(body ...Instruction) []byte {
	var buf writerBuffer
	if err := Encode(&buf, body); err != nil {
		panic(err)
	}
	return buf
}

type writerBuffer []byte

func (b *writerBuffer) Write(p []byte) (int, error) {
	*b = append(*b, p...)
	return len(p), nil
}
