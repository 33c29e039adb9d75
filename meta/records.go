// Package meta defines the metadata stream consumed by the in-place
// interpreter and the generator that produces it.
//
// The metadata stream is a byte sequence aligned, in order, with the
// instructions of a function's bytecode: each instruction that carries
// variable-length or computed operands gets one fixed-layout record, so the
// interpreter never re-parses LEB128 encodings during execution. Instructions
// with no immediates get no record. The producer (Compile) and the consumer
// (the dispatch engine) advance through the two streams in lock-step: the
// bytecode cursor by each instruction's encoded length, the metadata cursor
// by its record's length.
package meta

import "encoding/binary"

// Record layouts. All multi-byte fields are little-endian. Where a record
// begins with a length byte, the byte holds the instruction's encoded
// bytecode length, which the dispatch engine adds to the bytecode cursor.
const (
	// skip record (block, loop): [len u8]
	SkipRecordSize = 1

	// const record (i32/i64/f32/f64.const): [len u8][value u64]. Integer
	// values are stored sign-extended; float values as raw bits.
	ConstRecordSize = 9

	// local record (local.get/set/tee): [len u8][index u32]
	LocalRecordSize = 5

	// if record: [len u8][elsePC u32][elseMC u32]. The target is taken when
	// the condition is zero; it addresses the first instruction of the else
	// branch, or the construct's end when there is none.
	IfRecordSize = 9

	// else record: [len u8][endPC u32][endMC u32]. Executed only on
	// fallthrough from a taken then-branch; always jumps to the target.
	ElseRecordSize = 9

	// branch target: [targetPC u32][targetMC u32][pop u16][keep u16]. The
	// layout shared by br, br_if, and every br_table entry.
	BranchTargetSize = 12

	// br record: a bare branch target.
	BrRecordSize = BranchTargetSize

	// br_if record: [len u8] + branch target. The length byte drives the
	// not-taken fallthrough.
	BrIfRecordSize = 1 + BranchTargetSize

	// br_table header: [count u32], followed by count+1 branch targets; the
	// last is the default. No length byte: a br_table always branches.
	BrTableHeaderSize = 4

	// call record: [len u8][funcidx u32]
	CallRecordSize = 5

	// return record (return, function-closing end): [count u8], the number
	// of declared return values.
	ReturnRecordSize = 1

	// prefix record (0xfc instructions): [len u8][subopcode u32]
	PrefixRecordSize = 5
)

// A BranchTarget is the decoded form of a control-target descriptor: the
// continuation cursor pair plus the stack fixup to apply when the branch is
// taken. Transferring control discards pop slots underneath the top keep
// slots.
type BranchTarget struct {
	PC   int
	MC   int
	Pop  int
	Keep int
}

// ReadBranchTarget decodes the branch target at metadata offset mc.
func ReadBranchTarget(metadata []byte, mc int) BranchTarget {
	return BranchTarget{
		PC:   int(binary.LittleEndian.Uint32(metadata[mc:])),
		MC:   int(binary.LittleEndian.Uint32(metadata[mc+4:])),
		Pop:  int(binary.LittleEndian.Uint16(metadata[mc+8:])),
		Keep: int(binary.LittleEndian.Uint16(metadata[mc+10:])),
	}
}

// ReadJump decodes the (PC, MC) pair of an if or else record at metadata
// offset mc (past the length byte).
func ReadJump(metadata []byte, mc int) (pc, jumpMC int) {
	return int(binary.LittleEndian.Uint32(metadata[mc:])),
		int(binary.LittleEndian.Uint32(metadata[mc+4:]))
}

func putBranchTarget(metadata []byte, off int, t BranchTarget) {
	binary.LittleEndian.PutUint32(metadata[off:], uint32(t.PC))
	binary.LittleEndian.PutUint32(metadata[off+4:], uint32(t.MC))
	binary.LittleEndian.PutUint16(metadata[off+8:], uint16(t.Pop))
	binary.LittleEndian.PutUint16(metadata[off+10:], uint16(t.Keep))
}

func putJump(metadata []byte, off int, pc, mc int) {
	binary.LittleEndian.PutUint32(metadata[off:], uint32(pc))
	binary.LittleEndian.PutUint32(metadata[off+4:], uint32(mc))
}
