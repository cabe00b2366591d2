// Package disasm renders a parser event stream as Wat-style text, the same
// event stream the emitter package turns back into bytes (spec §4.5).
//
// Grounded directly on neutrome-labs/ail's Program.Disasm: a single pass
// over a flat instruction stream, decrementing indent before an END-class
// opcode and incrementing it after a START-class one, with a per-opcode
// switch choosing how to render operands.
package disasm

import (
	"fmt"
	"strings"

	"github.com/vertexdlt/wasmcodec/opcode"
	"github.com/vertexdlt/wasmcodec/wasm"
)

// Disassembler accumulates Wat text from a WriteData event stream. Not
// safe for concurrent use (spec §5), mirroring the Emitter.
type Disassembler struct {
	sb     strings.Builder
	indent int

	funcCount   int
	globalCount int
	memoryCount int
	tableCount  int

	// types and funcTypes mirror the module's type/function sections so a
	// later BeginFunctionBody (or a func import) can print a named
	// signature instead of a bare index (spec §4.5).
	types     []wasm.FunctionType
	funcTypes []uint32
	bodyIndex int

	inFunctionBody bool
	localCount     int
}

// New returns a Disassembler with no output yet.
func New() *Disassembler { return &Disassembler{} }

// String returns the Wat text accumulated so far.
func (d *Disassembler) String() string { return d.sb.String() }

// Write drives the Disassembler from reader until it reports no more events.
func (d *Disassembler) Write(reader wasm.BinaryReader) error {
	for reader.Read() {
		if reader.State() == wasm.StateError {
			return reader.Error()
		}
		if err := d.WriteData(reader.Event()); err != nil {
			return err
		}
	}
	return nil
}

func (d *Disassembler) line(format string, args ...interface{}) {
	d.writeIndent()
	fmt.Fprintf(&d.sb, format, args...)
	d.sb.WriteByte('\n')
}

func (d *Disassembler) writeIndent() {
	for i := 0; i < d.indent; i++ {
		d.sb.WriteString("  ")
	}
}

// WriteData advances the Disassembler by exactly one event. Unlike the
// Emitter, the Disassembler does not reject event sequences its FSM finds
// surprising: a pretty-printer renders whatever it is handed, it does not
// validate well-formedness (spec §4.5).
func (d *Disassembler) WriteData(ev wasm.Event) error {
	switch ev.Kind {
	case wasm.StateBeginWasm:
		d.line("(module")
		d.indent++
	case wasm.StateEndWasm:
		d.indent--
		d.line(")")
	case wasm.StateBeginSection:
		d.indent++
	case wasm.StateEndSection:
		d.indent--
	case wasm.StateTypeSectionEntry:
		d.typeSectionEntry(ev.FunctionType)
	case wasm.StateImportSectionEntry:
		d.importSectionEntry(ev.Import)
	case wasm.StateFunctionSectionEntry:
		// No text of its own; recorded so the matching BeginFunctionBody
		// can look up and print the function's signature.
		d.funcTypes = append(d.funcTypes, ev.FunctionEntry.TypeIndex)
	case wasm.StateMemorySectionEntry:
		d.memorySectionEntry(ev.Memory)
	case wasm.StateTableSectionEntry:
		d.tableSectionEntry(ev.Table)
	case wasm.StateExportSectionEntry:
		d.exportSectionEntry(ev.Export)
	case wasm.StateBeginFunctionBody:
		d.beginFunctionBody(ev.FunctionInfo)
	case wasm.StateCodeOperator:
		d.operator(ev.Operator)
	case wasm.StateEndFunctionBody:
		d.indent--
		d.line(")")
		d.inFunctionBody = false
	case wasm.StateBeginDataSectionEntry:
		d.line("(data (;%d;)", ev.DataIndex)
		d.indent++
	case wasm.StateBeginInitExpressionBody:
	case wasm.StateInitExpressionOperator:
		d.operator(ev.Operator)
	case wasm.StateEndInitExpressionBody:
	case wasm.StateDataSectionEntryBody:
		d.line("%q", ev.Data)
	case wasm.StateEndDataSectionEntry:
		d.indent--
		d.line(")")
	}
	return nil
}

func valueTypeName(t wasm.ValueType) string {
	switch t {
	case wasm.ValueTypeI32:
		return "i32"
	case wasm.ValueTypeI64:
		return "i64"
	case wasm.ValueTypeF32:
		return "f32"
	case wasm.ValueTypeF64:
		return "f64"
	default:
		return "unknown"
	}
}

// compactSignature renders a function type's parameters and results as the
// two combined, unnamed clauses spec §4.5 calls for: one `(param ...)`
// listing every parameter type and one `(result ...)` listing every result
// type, rather than one clause per value.
func compactSignature(ft wasm.FunctionType) string {
	var b strings.Builder
	if len(ft.Params) > 0 {
		b.WriteString(" (param")
		for _, p := range ft.Params {
			fmt.Fprintf(&b, " %s", valueTypeName(p))
		}
		b.WriteString(")")
	}
	if len(ft.Returns) > 0 {
		b.WriteString(" (result")
		for _, r := range ft.Returns {
			fmt.Fprintf(&b, " %s", valueTypeName(r))
		}
		b.WriteString(")")
	}
	return b.String()
}

// namedSignature is compactSignature's function-body counterpart: each
// parameter gets its own clause carrying the $var<n> name it shares with
// get_local/set_local/tee_local inside the body (spec §4.5).
func namedSignature(ft wasm.FunctionType) string {
	var b strings.Builder
	for i, p := range ft.Params {
		fmt.Fprintf(&b, " (param $var%d %s)", i, valueTypeName(p))
	}
	if len(ft.Returns) > 0 {
		b.WriteString(" (result")
		for _, r := range ft.Returns {
			fmt.Fprintf(&b, " %s", valueTypeName(r))
		}
		b.WriteString(")")
	}
	return b.String()
}

func (d *Disassembler) typeSectionEntry(ft wasm.FunctionType) {
	name := fmt.Sprintf("$type%d", len(d.types))
	d.types = append(d.types, ft)
	d.line("(type %s (func%s))", name, compactSignature(ft))
}

func (d *Disassembler) importSectionEntry(imp wasm.ImportEntry) {
	switch imp.Kind {
	case wasm.ExternalFunction:
		name := d.nextFuncName()
		var ft wasm.FunctionType
		if int(imp.FuncTypeIndex) < len(d.types) {
			ft = d.types[imp.FuncTypeIndex]
		}
		d.line("(import %s %q %q (func%s))", name, imp.Module, imp.Field, compactSignature(ft))
	case wasm.ExternalMemory:
		d.line("(import %q %q (memory %s))", imp.Module, imp.Field, limitsText(imp.Memory.Limits))
	case wasm.ExternalTable:
		name := d.nextTableName()
		d.line("(import %q %q (table %s %s anyfunc))", imp.Module, imp.Field, name, limitsText(imp.Table.Limits))
	case wasm.ExternalGlobal:
		name := d.nextGlobalName()
		mut := ""
		if imp.Global.Mutable {
			mut = "mut "
		}
		d.line("(import %q %q (global %s (%s%s)))", imp.Module, imp.Field, name, mut, valueTypeName(wasm.ValueType(imp.Global.ContentType)))
	}
}

func limitsText(l wasm.ResizableLimits) string {
	if l.HasMax() {
		return fmt.Sprintf("%d %d", l.Initial, *l.Maximum)
	}
	return fmt.Sprintf("%d", l.Initial)
}

func (d *Disassembler) memorySectionEntry(m wasm.MemoryType) {
	name := d.nextMemoryName()
	d.line("(memory %s %s)", name, limitsText(m.Limits))
}

func (d *Disassembler) tableSectionEntry(t wasm.TableType) {
	name := d.nextTableName()
	d.line("(table %s %s anyfunc)", name, limitsText(t.Limits))
}

func (d *Disassembler) exportSectionEntry(exp wasm.ExportEntry) {
	switch exp.Kind {
	case wasm.ExternalFunction:
		d.line("(export %q $func%d)", exp.Field, exp.Index)
	case wasm.ExternalTable:
		d.line("(export %q (table $table%d))", exp.Field, exp.Index)
	case wasm.ExternalMemory:
		d.line("(export %q memory)", exp.Field)
	case wasm.ExternalGlobal:
		d.line("(export %q (global $global%d))", exp.Field, exp.Index)
	}
}

func (d *Disassembler) beginFunctionBody(info wasm.FunctionInformation) {
	name := d.nextFuncName()
	var ft wasm.FunctionType
	if d.bodyIndex < len(d.funcTypes) {
		if typeIndex := d.funcTypes[d.bodyIndex]; int(typeIndex) < len(d.types) {
			ft = d.types[typeIndex]
		}
	}
	d.bodyIndex++

	d.line("(func %s%s", name, namedSignature(ft))
	d.indent++
	d.inFunctionBody = true
	d.localCount = len(ft.Params)
	for _, l := range info.Locals {
		for i := uint32(0); i < l.Count; i++ {
			d.line("(local %s %s)", d.nextLocalName(), valueTypeName(l.Type))
		}
	}
}

func (d *Disassembler) nextFuncName() string {
	n := d.funcCount
	d.funcCount++
	return fmt.Sprintf("$func%d", n)
}

func (d *Disassembler) nextGlobalName() string {
	n := d.globalCount
	d.globalCount++
	return fmt.Sprintf("$global%d", n)
}

func (d *Disassembler) nextMemoryName() string {
	n := d.memoryCount
	d.memoryCount++
	return fmt.Sprintf("$memory%d", n)
}

func (d *Disassembler) nextTableName() string {
	n := d.tableCount
	d.tableCount++
	return fmt.Sprintf("$table%d", n)
}

func (d *Disassembler) nextLocalName() string {
	n := d.localCount
	d.localCount++
	return fmt.Sprintf("$var%d", n)
}

// operator renders one CodeOperator/InitExpressionOperator event. Indent is
// decremented before an `else`/`end` opcode and incremented after a
// `block`/`loop`/`if`/`else`, per the teacher-of-teachers ail.Disasm shape
// this package is grounded on.
func (d *Disassembler) operator(op wasm.OperatorInfo) {
	info, ok := opcode.Lookup(op.Code)
	name := "unknown"
	if ok {
		name = wasmName(info.Name)
	}

	switch op.Code {
	case opcode.Else, opcode.End:
		d.indent--
		if d.indent < 0 {
			d.indent = 0
		}
	}

	switch op.Code {
	case opcode.Block, opcode.Loop, opcode.If:
		d.line("%s%s", name, blockTypeSuffix(op.BlockType))
	case opcode.Br, opcode.BrIf:
		d.line("%s %d", name, op.BrDepth)
	case opcode.BrTable:
		d.line("%s%s", name, brTableSuffix(op.BrTable))
	case opcode.Call:
		d.line("%s $func%d", name, op.FuncIndex)
	case opcode.CallIndirect:
		d.line("%s (type $type%d)", name, op.TypeIndex)
	case opcode.GetLocal, opcode.SetLocal, opcode.TeeLocal:
		d.line("%s $var%d", name, op.LocalIndex)
	case opcode.GetGlobal, opcode.SetGlobal:
		d.line("%s $global%d", name, op.GlobalIndex)
	case opcode.I32Const:
		d.line("%s %d", name, op.LiteralI32)
	case opcode.I64Const:
		d.line("%s %d", name, decodeI64(op.LiteralI64))
	case opcode.F32Const:
		d.line("%s %s", name, formatF32(op.LiteralF32))
	case opcode.F64Const:
		d.line("%s %s", name, formatF64(op.LiteralF64))
	default:
		if info.Imm == opcode.ImmMemory {
			d.line("%s%s", name, memorySuffix(info, op.Memory))
		} else {
			d.line("%s", name)
		}
	}

	switch op.Code {
	case opcode.Block, opcode.Loop, opcode.If, opcode.Else:
		d.indent++
	}
}

func blockTypeSuffix(bt int8) string {
	if bt == wasm.BlockTypeEmpty {
		return ""
	}
	return " (result " + valueTypeName(wasm.ValueType(bt)) + ")"
}

func brTableSuffix(targets []uint32) string {
	var b strings.Builder
	for _, t := range targets {
		fmt.Fprintf(&b, " %d", t)
	}
	return b.String()
}

func memorySuffix(info opcode.Info, mem wasm.MemoryImmediate) string {
	var b strings.Builder
	if mem.Offset != 0 {
		fmt.Fprintf(&b, " offset=%d", mem.Offset)
	}
	if int8(mem.Flags) != info.DefaultAlign {
		fmt.Fprintf(&b, " align=%d", uint32(1)<<mem.Flags)
	}
	return b.String()
}

func decodeI64(raw wasm.Int64) int64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(raw[i])
	}
	return int64(v)
}

// wasmName rewrites the opcode table's stored underscore-form mnemonic
// into canonical Wat dotted/slash notation: a leading `<type>_` becomes
// `<type>.`, and a trailing `_<type>` (a conversion's source type) becomes
// `/<type>` (spec §4.5). Grounded on the generic rewrite rule wazero's
// internal/wasm/binary/names.go applies when mapping opcode to instruction
// name text.
func wasmName(stored string) string {
	types := []string{"i32", "i64", "f32", "f64"}
	for _, t := range types {
		if strings.HasPrefix(stored, t+"_") {
			rest := strings.TrimPrefix(stored, t+"_")
			return t + "." + rewriteConversionSuffix(rest, types)
		}
	}
	return stored
}

func rewriteConversionSuffix(rest string, types []string) string {
	for _, t := range types {
		if strings.HasSuffix(rest, "_"+t) {
			return strings.TrimSuffix(rest, "_"+t) + "/" + t
		}
	}
	return rest
}
