package container

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skiff-wasm/skiff/exec"
	"github.com/skiff-wasm/skiff/ipint"
	"github.com/skiff-wasm/skiff/wasm"
	"github.com/skiff-wasm/skiff/wasm/code"
)

func addFile() *File {
	return &File{
		Version: Version,
		Types: []Signature{
			{Params: []uint8{uint8(wasm.ValueTypeI32), uint8(wasm.ValueTypeI32)}, Returns: []uint8{uint8(wasm.ValueTypeI32)}},
		},
		Functions: []Function{
			{
				Type: 0,
				Code: code.Body(
					code.LocalGet(0),
					code.LocalGet(1),
					code.I32Add(),
					code.End(),
				),
			},
		},
		Exports: map[string]uint32{"add": 0},
	}
}

func TestRoundTrip(t *testing.T) {
	f := addFile()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, f))

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, f, got)
}

func TestDecodeBadVersion(t *testing.T) {
	f := addFile()
	f.Version = Version + 1

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, f))

	_, err := Decode(&buf)
	assert.Error(t, err)
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte{0xff, 0x00, 0xfe}))
	assert.Error(t, err)
}

func TestDefinition(t *testing.T) {
	def, err := addFile().Definition(nil)
	require.NoError(t, err)

	require.Len(t, def.Types, 1)
	assert.Equal(t, wasm.FunctionSig{
		ParamTypes:  []wasm.ValueType{wasm.ValueTypeI32, wasm.ValueTypeI32},
		ReturnTypes: []wasm.ValueType{wasm.ValueTypeI32},
	}, def.Types[0])

	require.Len(t, def.Functions, 1)
	assert.Equal(t, def.Types[0], def.Functions[0].Signature)
	assert.Equal(t, uint32(0), def.Exports["add"])
}

func TestDefinitionImports(t *testing.T) {
	f := addFile()
	f.Imports = []Import{{Name: "host.add", Type: 0}}
	f.Exports = map[string]uint32{"add": 1}

	sig := wasm.FunctionSig{
		ParamTypes:  []wasm.ValueType{wasm.ValueTypeI32, wasm.ValueTypeI32},
		ReturnTypes: []wasm.ValueType{wasm.ValueTypeI32},
	}
	host := exec.NewGoFunc(sig, func(t *exec.Thread, args []uint64) []uint64 {
		return []uint64{args[0] + args[1]}
	})

	def, err := f.Definition(map[string]exec.Function{"host.add": host})
	require.NoError(t, err)
	require.Len(t, def.Imports, 1)
}

func TestDefinitionUnresolvedImport(t *testing.T) {
	f := addFile()
	f.Imports = []Import{{Name: "host.add", Type: 0}}

	_, err := f.Definition(nil)
	assert.ErrorContains(t, err, "unresolved import")
}

func TestDefinitionImportSignatureMismatch(t *testing.T) {
	f := addFile()
	f.Imports = []Import{{Name: "host.add", Type: 0}}

	sig := wasm.FunctionSig{ReturnTypes: []wasm.ValueType{wasm.ValueTypeI64}}
	host := exec.NewGoFunc(sig, func(t *exec.Thread, args []uint64) []uint64 {
		return []uint64{0}
	})

	_, err := f.Definition(map[string]exec.Function{"host.add": host})
	assert.ErrorContains(t, err, "signature mismatch")
}

func TestDefinitionBadTypeIndex(t *testing.T) {
	f := addFile()
	f.Functions[0].Type = 3

	_, err := f.Definition(nil)
	assert.ErrorContains(t, err, "unknown type index")
}

func TestBundleExecutes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, addFile()))

	f, err := Decode(&buf)
	require.NoError(t, err)

	def, err := f.Definition(nil)
	require.NoError(t, err)

	add, err := ipint.NewModule(def).ExportedFunction("add")
	require.NoError(t, err)

	thread := exec.NewThread(0)
	rets, err := exec.Call(&thread, add, int32(40), int32(2))
	require.NoError(t, err)
	require.Equal(t, []interface{}{int32(42)}, rets)
}
