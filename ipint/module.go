package ipint

import (
	"fmt"
	"sync"

	"github.com/skiff-wasm/skiff/abi"
	"github.com/skiff-wasm/skiff/exec"
	"github.com/skiff-wasm/skiff/meta"
	"github.com/skiff-wasm/skiff/wasm"
)

// A FunctionDefinition is one validated function body awaiting execution.
type FunctionDefinition struct {
	Signature wasm.FunctionSig
	Locals    []wasm.LocalEntry
	Code      []byte
}

// A ModuleDefinition describes a module to instantiate: its type table, its
// imported functions in index order, its own function bodies, and its named
// exports (values are function indices in the combined import+local space).
type ModuleDefinition struct {
	Types     []wasm.FunctionSig
	Imports   []exec.Function
	Functions []FunctionDefinition
	Exports   map[string]uint32
}

// A Module is an instantiated set of executable functions. Function bodies
// are compiled to their metadata streams lazily, on first resolution, and at
// most once.
type Module struct {
	types     []wasm.FunctionSig
	imports   []exec.Function
	functions []function
	exports   map[string]uint32
}

// NewModule instantiates a module definition. Bodies are not compiled here;
// compilation happens on first call to each function.
func NewModule(def *ModuleDefinition) *Module {
	m := &Module{
		types:   def.Types,
		imports: def.Imports,
		exports: def.Exports,
	}
	m.functions = make([]function, len(def.Functions))
	for i, fd := range def.Functions {
		m.functions[i] = function{
			module:       m,
			index:        uint32(len(def.Imports) + i),
			signature:    fd.Signature,
			locals:       fd.Locals,
			bytecode:     fd.Code,
			paramLayout:  abi.LayoutFor(fd.Signature.ParamTypes),
			returnLayout: abi.LayoutFor(fd.Signature.ReturnTypes),
		}
	}
	return m
}

// ResolveFunction resolves a function index to a callable entry point,
// compiling the body's metadata stream on first resolution.
func (m *Module) ResolveFunction(funcidx uint32) (exec.Function, error) {
	if int(funcidx) < len(m.imports) {
		return m.imports[funcidx], nil
	}
	i := int(funcidx) - len(m.imports)
	if i >= len(m.functions) {
		return nil, exec.ErrFunctionNotFound
	}
	fn := &m.functions[i]
	if err := fn.ensure(); err != nil {
		return nil, err
	}
	return fn, nil
}

// ExportedFunction resolves a named export.
func (m *Module) ExportedFunction(name string) (exec.Function, error) {
	funcidx, ok := m.exports[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", exec.ErrFunctionNotFound, name)
	}
	return m.ResolveFunction(funcidx)
}

// scope adapts a module's tables to the metadata generator.
type scope struct {
	m *Module
}

func (s scope) FunctionSignature(funcidx uint32) (wasm.FunctionSig, bool) {
	if int(funcidx) < len(s.m.imports) {
		return s.m.imports[funcidx].GetSignature(), true
	}
	i := int(funcidx) - len(s.m.imports)
	if i >= len(s.m.functions) {
		return wasm.FunctionSig{}, false
	}
	return s.m.functions[i].signature, true
}

func (s scope) Type(typeidx uint32) (wasm.FunctionSig, bool) {
	if int(typeidx) >= len(s.m.types) {
		return wasm.FunctionSig{}, false
	}
	return s.m.types[int(typeidx)], true
}

// A function is one interpreted function. It satisfies exec.Function, so
// calls into it from any caller marshal through the modeled calling
// convention.
type function struct {
	module    *Module
	index     uint32
	signature wasm.FunctionSig
	locals    []wasm.LocalEntry
	bytecode  []byte

	paramLayout  abi.Layout
	returnLayout abi.Layout

	once       sync.Once
	body       *meta.Body
	compileErr error
}

// ensure compiles the function's metadata stream exactly once.
func (fn *function) ensure() error {
	fn.once.Do(func() {
		fn.body, fn.compileErr = meta.Compile(meta.Function{
			Signature: fn.signature,
			Locals:    fn.locals,
			Code:      fn.bytecode,
		}, scope{fn.module})
	})
	return fn.compileErr
}

func (fn *function) GetSignature() wasm.FunctionSig {
	return fn.signature
}

func (fn *function) Layouts() (params, returns abi.Layout) {
	return fn.paramLayout, fn.returnLayout
}

func (fn *function) Invoke(t *exec.Thread, fr *abi.Frame) {
	if err := fn.ensure(); err != nil {
		panic(exec.TrapUnresolvedFunction)
	}
	var m machine
	m.init(t)
	fn.invoke(&m, fr)
}

// invoke runs the function on the given machine. Arguments arrive in fr per
// the parameter layout; results leave in fr per the return layout.
func (fn *function) invoke(m *machine, fr *abi.Frame) {
	m.thread.Enter()

	body := fn.body
	f := frame{
		fn:       fn,
		code:     body.Bytecode,
		metadata: body.Metadata,
	}
	m.alloc(&f, body.NumLocals, body.Metrics.MaxStackDepth)
	fr.LoadAll(fn.paramLayout, f.locals[:body.NumParams])

	if tracer, ok := m.thread.Tracer(); ok {
		f.runTrace(tracer)
	} else {
		f.run()
	}

	fr.StoreAll(fn.returnLayout, f.stack[len(f.stack)-len(fn.returnLayout.Locations):])
	m.free(&f)

	m.thread.Leave()
}
