package dump

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/skiff-wasm/skiff/container"
	"github.com/skiff-wasm/skiff/meta"
	"github.com/skiff-wasm/skiff/wasm"
	"github.com/skiff-wasm/skiff/wasm/code"
)

// fileScope adapts a bundle's tables to the metadata generator.
type fileScope struct {
	file *container.File
	sigs []wasm.FunctionSig
}

func newFileScope(file *container.File) *fileScope {
	s := &fileScope{file: file, sigs: make([]wasm.FunctionSig, len(file.Types))}
	for i := range file.Types {
		s.sigs[i] = wasm.FunctionSig{
			ParamTypes:  valueTypes(file.Types[i].Params),
			ReturnTypes: valueTypes(file.Types[i].Returns),
		}
	}
	return s
}

func valueTypes(raw []uint8) []wasm.ValueType {
	types := make([]wasm.ValueType, len(raw))
	for i, t := range raw {
		types[i] = wasm.ValueType(t)
	}
	return types
}

func (s *fileScope) FunctionSignature(funcidx uint32) (wasm.FunctionSig, bool) {
	if int(funcidx) < len(s.file.Imports) {
		return s.Type(s.file.Imports[funcidx].Type)
	}
	i := int(funcidx) - len(s.file.Imports)
	if i >= len(s.file.Functions) {
		return wasm.FunctionSig{}, false
	}
	return s.Type(s.file.Functions[i].Type)
}

func (s *fileScope) Type(typeidx uint32) (wasm.FunctionSig, bool) {
	if int(typeidx) >= len(s.sigs) {
		return wasm.FunctionSig{}, false
	}
	return s.sigs[int(typeidx)], true
}

func (s *fileScope) compile(i int) (*meta.Body, error) {
	fn := s.file.Functions[i]
	sig, ok := s.Type(fn.Type)
	if !ok {
		return nil, fmt.Errorf("function %v: unknown type index %v", i, fn.Type)
	}
	locals := make([]wasm.LocalEntry, len(fn.Locals))
	for j, l := range fn.Locals {
		locals[j] = wasm.LocalEntry{Count: l.Count, Type: wasm.ValueType(l.Type)}
	}
	return meta.Compile(meta.Function{Signature: sig, Locals: locals, Code: fn.Code}, s)
}

// exportName returns the export naming funcidx, if any.
func exportName(file *container.File, funcidx int) string {
	for name, idx := range file.Exports {
		if int(idx) == funcidx {
			return name
		}
	}
	return ""
}

func dumpListing(w io.Writer, file *container.File) error {
	s := newFileScope(file)
	for i := range file.Functions {
		body, err := s.compile(i)
		if err != nil {
			return err
		}

		funcidx := len(file.Imports) + i
		if name := exportName(file, funcidx); name != "" {
			fmt.Fprintf(w, "func %v (%v) %v\n", funcidx, name, body.Signature.String())
		} else {
			fmt.Fprintf(w, "func %v %v\n", funcidx, body.Signature.String())
		}

		err = meta.Walk(body, func(pc, mc int, opcode byte) error {
			switch opcode {
			case code.OpI32Const, code.OpI64Const:
				v := binary.LittleEndian.Uint64(body.Metadata[mc+1:])
				fmt.Fprintf(w, "  %06x %06x %s %v\n", pc, mc, code.Name(opcode), int64(v))
			case code.OpLocalGet, code.OpLocalSet, code.OpLocalTee, code.OpCall:
				v := binary.LittleEndian.Uint32(body.Metadata[mc+1:])
				fmt.Fprintf(w, "  %06x %06x %s %v\n", pc, mc, code.Name(opcode), v)
			default:
				fmt.Fprintf(w, "  %06x %06x %s\n", pc, mc, code.Name(opcode))
			}
			return nil
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	return nil
}

func Command() *cobra.Command {
	var stats bool

	command := &cobra.Command{
		Use:   "dump [path to bundle]",
		Short: "Dump bundle listings and statistics",
		Long:  "Dump a bundle's functions with their metadata cursors, or per-function statistics as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("expected exactly one argument")
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			file, err := container.Decode(bufio.NewReader(f))
			if err != nil {
				return err
			}

			w := bufio.NewWriter(os.Stdout)
			defer w.Flush()

			if stats {
				return dumpStats(w, file)
			}
			return dumpListing(w, file)
		},
	}

	command.Flags().BoolVar(&stats, "stats", false, "dump per-function statistics as CSV")

	return command
}
