package disasm

import (
	"math"
	"strings"
	"testing"

	"github.com/chewxy/math32"

	"github.com/vertexdlt/wasmcodec/opcode"
	"github.com/vertexdlt/wasmcodec/wasm"
)

func TestDisassembleEmptyModule(t *testing.T) {
	events := []wasm.Event{
		{Kind: wasm.StateBeginWasm},
		{Kind: wasm.StateEndWasm},
	}
	d := New()
	if err := d.Write(wasm.NewSliceReader(events)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := d.String()
	if !strings.Contains(got, "(module") || !strings.Contains(got, ")") {
		t.Fatalf("got %q", got)
	}
}

func TestDisassembleIdentityFunction(t *testing.T) {
	events := []wasm.Event{
		{Kind: wasm.StateBeginWasm},
		{Kind: wasm.StateBeginSection, Section: wasm.SectionInfo{ID: wasm.SectionType}},
		{Kind: wasm.StateTypeSectionEntry, FunctionType: wasm.FunctionType{
			Params:  []wasm.ValueType{wasm.ValueTypeI32},
			Returns: []wasm.ValueType{wasm.ValueTypeI32},
		}},
		{Kind: wasm.StateEndSection},
		{Kind: wasm.StateBeginSection, Section: wasm.SectionInfo{ID: wasm.SectionFunction}},
		{Kind: wasm.StateFunctionSectionEntry, FunctionEntry: wasm.FunctionEntry{TypeIndex: 0}},
		{Kind: wasm.StateEndSection},
		{Kind: wasm.StateBeginSection, Section: wasm.SectionInfo{ID: wasm.SectionCode}},
		{Kind: wasm.StateBeginFunctionBody},
		{Kind: wasm.StateCodeOperator, Operator: wasm.OperatorInfo{Code: opcode.GetLocal, LocalIndex: 0}},
		{Kind: wasm.StateCodeOperator, Operator: wasm.OperatorInfo{Code: opcode.End}},
		{Kind: wasm.StateEndFunctionBody},
		{Kind: wasm.StateEndSection},
		{Kind: wasm.StateEndWasm},
	}
	d := New()
	if err := d.Write(wasm.NewSliceReader(events)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := d.String()
	if !strings.Contains(got, "(func $func0 (param $var0 i32) (result i32)") {
		t.Fatalf("expected named function signature, got %q", got)
	}
	if !strings.Contains(got, "get_local $var0") {
		t.Fatalf("expected get_local referencing the named parameter, got %q", got)
	}
}

func TestDisassembleConversionOpcodeNameRewrite(t *testing.T) {
	info, ok := opcode.Lookup(opcode.I64ExtendSI32)
	if !ok {
		t.Fatal("missing opcode info")
	}
	got := wasmName(info.Name)
	want := "i64.extend_s/i32"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDisassembleDemoteNameRewrite(t *testing.T) {
	info, _ := opcode.Lookup(opcode.F32DemoteF64)
	got := wasmName(info.Name)
	want := "f32.demote/f64"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDisassembleMemoryOperatorOmitsDefaultAlignment(t *testing.T) {
	events := []wasm.Event{
		{Kind: wasm.StateBeginWasm},
		{Kind: wasm.StateBeginSection, Section: wasm.SectionInfo{ID: wasm.SectionCode}},
		{Kind: wasm.StateBeginFunctionBody},
		{Kind: wasm.StateCodeOperator, Operator: wasm.OperatorInfo{
			Code:   opcode.I32Load,
			Memory: wasm.MemoryImmediate{Flags: 2},
		}},
		{Kind: wasm.StateCodeOperator, Operator: wasm.OperatorInfo{Code: opcode.End}},
		{Kind: wasm.StateEndFunctionBody},
		{Kind: wasm.StateEndSection},
		{Kind: wasm.StateEndWasm},
	}
	d := New()
	if err := d.Write(wasm.NewSliceReader(events)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := d.String()
	if strings.Contains(got, "align=") {
		t.Fatalf("expected default alignment to be elided, got %q", got)
	}
	if !strings.Contains(got, "i32.load") {
		t.Fatalf("expected rewritten i32.load mnemonic, got %q", got)
	}
}

func TestDisassembleIndentTracksBlockNesting(t *testing.T) {
	events := []wasm.Event{
		{Kind: wasm.StateBeginWasm},
		{Kind: wasm.StateBeginSection, Section: wasm.SectionInfo{ID: wasm.SectionCode}},
		{Kind: wasm.StateBeginFunctionBody},
		{Kind: wasm.StateCodeOperator, Operator: wasm.OperatorInfo{Code: opcode.Block, BlockType: wasm.BlockTypeEmpty}},
		{Kind: wasm.StateCodeOperator, Operator: wasm.OperatorInfo{Code: opcode.Nop}},
		{Kind: wasm.StateCodeOperator, Operator: wasm.OperatorInfo{Code: opcode.End}},
		{Kind: wasm.StateCodeOperator, Operator: wasm.OperatorInfo{Code: opcode.End}},
		{Kind: wasm.StateEndFunctionBody},
		{Kind: wasm.StateEndSection},
		{Kind: wasm.StateEndWasm},
	}
	d := New()
	if err := d.Write(wasm.NewSliceReader(events)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(d.String(), "\n"), "\n")
	var nopIndent, blockIndent int
	for _, l := range lines {
		trimmed := strings.TrimLeft(l, " ")
		indent := (len(l) - len(trimmed)) / 2
		if strings.HasPrefix(trimmed, "nop") {
			nopIndent = indent
		}
		if strings.HasPrefix(trimmed, "block") {
			blockIndent = indent
		}
	}
	if nopIndent <= blockIndent {
		t.Fatalf("expected nop (indent %d) to be nested deeper than block (indent %d)", nopIndent, blockIndent)
	}
}

func TestFormatF32CanonicalNaN(t *testing.T) {
	// Canonical f32 NaN: all-ones exponent, only the top mantissa bit set.
	bits := uint32(0x7fc00000)
	got := formatF32(bits)
	if got != "nan" {
		t.Fatalf("got %q, want %q", got, "nan")
	}
}

func TestFormatF32Infinity(t *testing.T) {
	bits := math32.Float32bits(math32.Inf(-1))
	got := formatF32(bits)
	if got != "-infinity" {
		t.Fatalf("got %q, want %q", got, "-infinity")
	}
}

func TestFormatF64CanonicalNaN(t *testing.T) {
	// Canonical f64 NaN. math.NaN() is not used here: its payload is
	// 0x8000000000001, the non-canonical case tested below.
	bits := uint64(0x7ff8000000000000)
	got := formatF64(bits)
	if got != "nan" {
		t.Fatalf("got %q, want %q", got, "nan")
	}
}

func TestFormatF64NonCanonicalNaNCarriesExplicitSign(t *testing.T) {
	positive := math.Float64frombits(0x7ff8000000000001)
	got := formatF64(math.Float64bits(positive))
	if got != "+nan:0x8000000000001" {
		t.Fatalf("got %q, want %q", got, "+nan:0x8000000000001")
	}

	negative := math.Float64frombits(0xfff8000000000001)
	got = formatF64(math.Float64bits(negative))
	if got != "-nan:0x8000000000001" {
		t.Fatalf("got %q, want %q", got, "-nan:0x8000000000001")
	}
}

func TestFormatF64Decimal(t *testing.T) {
	bits := math.Float64bits(1.5)
	got := formatF64(bits)
	if got != "1.5" {
		t.Fatalf("got %q, want %q", got, "1.5")
	}
}
