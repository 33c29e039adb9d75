// Package container defines the bundle format the skiff CLI loads modules
// from: a CBOR document holding a module's type table, imports, validated
// function bodies, and named exports.
package container

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/skiff-wasm/skiff/exec"
	"github.com/skiff-wasm/skiff/ipint"
	"github.com/skiff-wasm/skiff/wasm"
)

// Version is the current bundle format version.
const Version = 1

// A Signature is a function signature with its value types in wire form.
type Signature struct {
	Params  []uint8 `cbor:"params"`
	Returns []uint8 `cbor:"returns"`
}

// A Local is a run-length encoded local declaration.
type Local struct {
	Count uint32 `cbor:"count"`
	Type  uint8  `cbor:"type"`
}

// A Function is one function body. Type indexes the bundle's type table.
type Function struct {
	Type   uint32  `cbor:"type"`
	Locals []Local `cbor:"locals"`
	Code   []byte  `cbor:"code"`
}

// An Import names a host function the module requires, in index order.
type Import struct {
	Name string `cbor:"name"`
	Type uint32 `cbor:"type"`
}

// A File is a decoded bundle.
type File struct {
	Version   uint32            `cbor:"version"`
	Types     []Signature       `cbor:"types"`
	Imports   []Import          `cbor:"imports"`
	Functions []Function        `cbor:"functions"`
	Exports   map[string]uint32 `cbor:"exports"`
}

// Encode writes f to w in bundle form.
func Encode(w io.Writer, f *File) error {
	return cbor.NewEncoder(w).Encode(f)
}

// Decode reads a bundle from r and checks its version.
func Decode(r io.Reader) (*File, error) {
	var f File
	if err := cbor.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("container: decoding bundle: %w", err)
	}
	if f.Version != Version {
		return nil, fmt.Errorf("container: unsupported bundle version %v", f.Version)
	}
	return &f, nil
}

func (s *Signature) signature() wasm.FunctionSig {
	sig := wasm.FunctionSig{
		ParamTypes:  make([]wasm.ValueType, len(s.Params)),
		ReturnTypes: make([]wasm.ValueType, len(s.Returns)),
	}
	for i, t := range s.Params {
		sig.ParamTypes[i] = wasm.ValueType(t)
	}
	for i, t := range s.Returns {
		sig.ReturnTypes[i] = wasm.ValueType(t)
	}
	return sig
}

// Definition converts a decoded bundle into an instantiable module
// definition, resolving each named import against the provided host
// functions.
func (f *File) Definition(hosts map[string]exec.Function) (*ipint.ModuleDefinition, error) {
	def := ipint.ModuleDefinition{
		Types:   make([]wasm.FunctionSig, len(f.Types)),
		Exports: f.Exports,
	}
	for i := range f.Types {
		def.Types[i] = f.Types[i].signature()
	}

	def.Imports = make([]exec.Function, len(f.Imports))
	for i, imp := range f.Imports {
		host, ok := hosts[imp.Name]
		if !ok {
			return nil, fmt.Errorf("container: unresolved import %q", imp.Name)
		}
		if int(imp.Type) >= len(def.Types) {
			return nil, fmt.Errorf("container: import %q: unknown type index %v", imp.Name, imp.Type)
		}
		if !host.GetSignature().Equals(def.Types[imp.Type]) {
			return nil, fmt.Errorf("container: import %q: signature mismatch", imp.Name)
		}
		def.Imports[i] = host
	}

	def.Functions = make([]ipint.FunctionDefinition, len(f.Functions))
	for i, fn := range f.Functions {
		if int(fn.Type) >= len(def.Types) {
			return nil, fmt.Errorf("container: function %v: unknown type index %v", i, fn.Type)
		}
		locals := make([]wasm.LocalEntry, len(fn.Locals))
		for j, l := range fn.Locals {
			locals[j] = wasm.LocalEntry{Count: l.Count, Type: wasm.ValueType(l.Type)}
		}
		def.Functions[i] = ipint.FunctionDefinition{
			Signature: def.Types[fn.Type],
			Locals:    locals,
			Code:      fn.Code,
		}
	}
	return &def, nil
}
