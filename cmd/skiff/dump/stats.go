package dump

import (
	"encoding/csv"
	"io"

	"github.com/jszwec/csvutil"
	"github.com/willf/bitset"

	"github.com/skiff-wasm/skiff/container"
	"github.com/skiff-wasm/skiff/meta"
	"github.com/skiff-wasm/skiff/wasm/code"
)

// rows:
// - function
//     - export, in/out, nlocals, max stack, max nesting, # labels, # instructions, instruction breakdown
func dumpStats(w io.Writer, file *container.File) error {
	type row struct {
		Function         string `csv:"function"`
		Funcidx          int    `csv:"funcidx"`
		In               int    `csv:"in"`
		Out              int    `csv:"out"`
		LocalCount       int    `csv:"local count"`
		MaxStack         int    `csv:"max stack"`
		MaxNesting       int    `csv:"max nesting"`
		LabelCount       int    `csv:"label count"`
		InstructionCount int    `csv:"instruction count"`
		DistinctOpcodes  int    `csv:"distinct opcodes"`
		HasLoops         bool   `csv:"has loops"`
		Control          int    `csv:"control"`
		Branch           int    `csv:"branch"`
		Call             int    `csv:"call"`
		Local            int    `csv:"local"`
		Const            int    `csv:"const"`
		Compare          int    `csv:"compare"`
		Arith            int    `csv:"arith"`
		Convert          int    `csv:"convert"`
		Unimplemented    int    `csv:"unimplemented"`
		MetadataBytes    int    `csv:"metadata bytes"`
		BytecodeBytes    int    `csv:"bytecode bytes"`
	}

	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	encoder := csvutil.NewEncoder(csvWriter)

	s := newFileScope(file)
	for i := range file.Functions {
		body, err := s.compile(i)
		if err != nil {
			return err
		}

		funcidx := len(file.Imports) + i
		r := row{
			Function:         exportName(file, funcidx),
			Funcidx:          funcidx,
			In:               len(body.Signature.ParamTypes),
			Out:              len(body.Signature.ReturnTypes),
			LocalCount:       body.NumLocals,
			MaxStack:         body.Metrics.MaxStackDepth,
			MaxNesting:       body.Metrics.MaxNesting,
			LabelCount:       body.Metrics.LabelCount,
			InstructionCount: body.Metrics.InstructionCount,
			HasLoops:         body.Metrics.HasLoops,
			MetadataBytes:    len(body.Metadata),
			BytecodeBytes:    len(body.Bytecode),
		}

		seen := bitset.New(256)
		err = meta.Walk(body, func(pc, mc int, opcode byte) error {
			seen.Set(uint(opcode))
			switch {
			case opcode <= code.OpEnd:
				r.Control++
			case opcode >= code.OpBr && opcode <= code.OpBrTable:
				r.Branch++
			case opcode == code.OpReturn:
				r.Control++
			case opcode == code.OpCall || opcode == code.OpCallIndirect:
				r.Call++
			case opcode >= code.OpLocalGet && opcode <= code.OpGlobalSet:
				r.Local++
			case opcode >= code.OpI32Load && opcode <= code.OpMemoryGrow:
				r.Unimplemented++
			case opcode >= code.OpI32Const && opcode <= code.OpF64Const:
				r.Const++
			case opcode >= code.OpI32Eqz && opcode <= code.OpF64Ge:
				r.Compare++
			case opcode >= code.OpI32Clz && opcode <= code.OpF64Copysign:
				r.Arith++
			case opcode >= code.OpI32WrapI64 && opcode <= code.OpI64Extend32S:
				r.Convert++
			case opcode == code.OpPrefix:
				r.Convert++
			}
			return nil
		})
		if err != nil {
			return err
		}
		r.DistinctOpcodes = int(seen.Count())

		if err := encoder.Encode(r); err != nil {
			return err
		}
	}
	return nil
}
