// Package emitter reproduces the canonical Wasm binary byte stream from a
// sequence of parser events (spec §4.2). It is a streaming writer: every
// section and function body length is only known once its content has
// been written, so the Emitter reserves a fixed-width patchable slot up
// front and back-patches it in place rather than buffering the whole
// module before emitting a single byte (spec §9).
//
// Grounded on the teacher's vm.Frame/vm.Block pattern of a small struct
// holding named integer bookkeeping fields (vm/frame.go, vm/block.go), and
// on the general shape of a streaming Wasm byte writer shown by
// onflow/cadence's runtime/compiler/wasm/writer.go and wazero's
// internal/wasm/binary/encoder_test.go.
package emitter

import (
	"github.com/vertexdlt/wasmcodec/leb128"
	"github.com/vertexdlt/wasmcodec/opcode"
	"github.com/vertexdlt/wasmcodec/wasm"
)

// Emitter drives a single Wasm module's worth of binary output from a
// WriteData/Write event stream. Once EndWasm has fired, Bytes() returns the
// finalized module and the Emitter is back in its initial state, ready for
// another BeginWasm. Not safe for concurrent use (spec §5).
type Emitter struct {
	w     *leb128.Writer
	state State

	sectionStart      int
	sectionSizeBytes  int
	entriesCount      uint32
	entriesCountBytes int

	bodyStart     int
	bodySizeBytes int
	endWritten    bool

	initExpressionAfterState State

	data []byte
}

// New returns an Emitter ready to accept a BeginWasm event.
func New() *Emitter {
	return &Emitter{w: leb128.NewWriter(), state: StateInitial}
}

// Bytes returns the finalized module produced by the last completed
// BeginWasm…EndWasm cycle, or nil if EndWasm has not yet fired.
func (e *Emitter) Bytes() []byte { return e.data }

// Write drives the Emitter from reader until it reports no more events.
func (e *Emitter) Write(reader wasm.BinaryReader) error {
	for reader.Read() {
		if reader.State() == wasm.StateError {
			return reader.Error()
		}
		if err := e.WriteData(reader.Event()); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) fail(expected, eventName string) error {
	current := e.state
	e.state = StateError
	return &StateError{State: current, Expected: expected, Event: eventName}
}

// WriteData advances the Emitter by exactly one event (spec §4.2's
// transition table). It is the unit the FSM invariant (spec §3) is stated
// over: at every event boundary e.state alone determines which event
// kinds are legal.
func (e *Emitter) WriteData(ev wasm.Event) error {
	switch ev.Kind {
	case wasm.StateBeginWasm:
		return e.beginWasm()
	case wasm.StateEndWasm:
		return e.endWasm()
	case wasm.StateBeginSection:
		return e.beginSection(ev.Section)
	case wasm.StateEndSection:
		return e.endSection()
	case wasm.StateTypeSectionEntry:
		return e.typeSectionEntry(ev.FunctionType)
	case wasm.StateImportSectionEntry:
		return e.importSectionEntry(ev.Import)
	case wasm.StateFunctionSectionEntry:
		return e.functionSectionEntry(ev.FunctionEntry)
	case wasm.StateMemorySectionEntry:
		return e.memorySectionEntry(ev.Memory)
	case wasm.StateExportSectionEntry:
		return e.exportSectionEntry(ev.Export)
	case wasm.StateBeginFunctionBody:
		return e.beginFunctionBody(ev.FunctionInfo)
	case wasm.StateCodeOperator:
		return e.codeOperator(ev.Operator)
	case wasm.StateEndFunctionBody:
		return e.endFunctionBody()
	case wasm.StateBeginDataSectionEntry:
		return e.beginDataSectionEntry(ev.DataIndex)
	case wasm.StateBeginInitExpressionBody:
		return e.beginInitExpression()
	case wasm.StateInitExpressionOperator:
		return e.initExprOperator(ev.Operator)
	case wasm.StateEndInitExpressionBody:
		return e.endInitExpression()
	case wasm.StateDataSectionEntryBody:
		return e.dataSectionEntryBody(ev.Data)
	case wasm.StateEndDataSectionEntry:
		return e.endDataSectionEntry()
	default:
		return e.fail("a recognized event kind", "unknown event")
	}
}

func (e *Emitter) beginWasm() error {
	if e.state != StateInitial {
		return e.fail(StateInitial.String(), "BeginWasm")
	}
	e.w.WriteByte(0x00)
	e.w.Write([]byte("asm"))
	e.w.Write([]byte{byte(wasm.Version), 0x00, 0x00, 0x00})
	e.state = StateWasm
	return nil
}

func (e *Emitter) endWasm() error {
	if e.state != StateWasm {
		return e.fail(StateWasm.String(), "EndWasm")
	}
	data := make([]byte, e.w.Len())
	copy(data, e.w.Bytes())
	e.data = data
	e.w = leb128.NewWriter()
	e.state = StateInitial
	return nil
}

func (e *Emitter) beginSection(info wasm.SectionInfo) error {
	if e.state != StateWasm {
		return e.fail(StateWasm.String(), "BeginSection")
	}
	target, ok := sectionState(info.ID)
	if !ok {
		e.state = StateError
		return ErrUnknownSectionID
	}
	e.w.WriteByte(byte(info.ID))
	e.sectionSizeBytes = leb128.WritePatchableVarUint32(e.w)
	e.sectionStart = e.w.Len()
	e.entriesCountBytes = leb128.WritePatchableVarUint32(e.w)
	e.entriesCount = 0
	e.state = target
	return nil
}

func (e *Emitter) endSection() error {
	switch e.state {
	case StateTypeSection, StateImportSection, StateFunctionSection,
		StateTableSection, StateMemorySection, StateGlobalSection,
		StateExportSection, StateStartSection, StateElementSection,
		StateCodeSection, StateDataSection:
	default:
		return e.fail("an open section", "EndSection")
	}
	e.w.PatchVarUint32(e.entriesCountBytes, e.entriesCount)
	e.w.PatchVarUint32(e.sectionSizeBytes, uint32(e.w.Len()-e.sectionStart))
	e.state = StateWasm
	return nil
}

func (e *Emitter) typeSectionEntry(ft wasm.FunctionType) error {
	if e.state != StateTypeSection {
		return e.fail(StateTypeSection.String(), "TypeSectionEntry")
	}
	leb128.WriteVarInt32(e.w, int32(ft.Form))
	leb128.WriteVarUint32(e.w, uint32(len(ft.Params)))
	for _, p := range ft.Params {
		leb128.WriteVarInt32(e.w, int32(p))
	}
	leb128.WriteVarUint32(e.w, uint32(len(ft.Returns)))
	for _, r := range ft.Returns {
		leb128.WriteVarInt32(e.w, int32(r))
	}
	e.entriesCount++
	return nil
}

func (e *Emitter) writeResizableLimits(l wasm.ResizableLimits) {
	if l.HasMax() {
		leb128.WriteVarUint32(e.w, 1)
		leb128.WriteVarUint32(e.w, l.Initial)
		leb128.WriteVarUint32(e.w, *l.Maximum)
	} else {
		leb128.WriteVarUint32(e.w, 0)
		leb128.WriteVarUint32(e.w, l.Initial)
	}
}

func (e *Emitter) writeTableType(t wasm.TableType) {
	leb128.WriteVarInt32(e.w, int32(t.ElementType))
	e.writeResizableLimits(t.Limits)
}

func (e *Emitter) writeMemoryType(m wasm.MemoryType) {
	e.writeResizableLimits(m.Limits)
}

func (e *Emitter) writeGlobalType(g wasm.GlobalType) {
	leb128.WriteVarInt32(e.w, int32(g.ContentType))
	if g.Mutable {
		leb128.WriteVarUint32(e.w, 1)
	} else {
		leb128.WriteVarUint32(e.w, 0)
	}
}

func (e *Emitter) importSectionEntry(imp wasm.ImportEntry) error {
	if e.state != StateImportSection {
		return e.fail(StateImportSection.String(), "ImportSectionEntry")
	}
	leb128.WriteString(e.w, []byte(imp.Module))
	leb128.WriteString(e.w, []byte(imp.Field))
	e.w.WriteByte(byte(imp.Kind))
	switch imp.Kind {
	case wasm.ExternalFunction:
		leb128.WriteVarUint32(e.w, imp.FuncTypeIndex)
	case wasm.ExternalTable:
		e.writeTableType(imp.Table)
	case wasm.ExternalMemory:
		e.writeMemoryType(imp.Memory)
	case wasm.ExternalGlobal:
		e.writeGlobalType(imp.Global)
	default:
		e.state = StateError
		return ErrUnknownImportKind
	}
	e.entriesCount++
	return nil
}

func (e *Emitter) functionSectionEntry(fe wasm.FunctionEntry) error {
	if e.state != StateFunctionSection {
		return e.fail(StateFunctionSection.String(), "FunctionSectionEntry")
	}
	leb128.WriteVarUint32(e.w, fe.TypeIndex)
	e.entriesCount++
	return nil
}

func (e *Emitter) memorySectionEntry(m wasm.MemoryType) error {
	if e.state != StateMemorySection {
		return e.fail(StateMemorySection.String(), "MemorySectionEntry")
	}
	e.writeMemoryType(m)
	e.entriesCount++
	return nil
}

func (e *Emitter) exportSectionEntry(exp wasm.ExportEntry) error {
	if e.state != StateExportSection {
		return e.fail(StateExportSection.String(), "ExportSectionEntry")
	}
	leb128.WriteString(e.w, []byte(exp.Field))
	switch exp.Kind {
	case wasm.ExternalFunction, wasm.ExternalTable, wasm.ExternalMemory, wasm.ExternalGlobal:
		e.w.WriteByte(byte(exp.Kind))
	default:
		e.state = StateError
		return ErrUnknownExportKind
	}
	leb128.WriteVarUint32(e.w, exp.Index)
	e.entriesCount++
	return nil
}

func (e *Emitter) beginFunctionBody(info wasm.FunctionInformation) error {
	if e.state != StateCodeSection {
		return e.fail(StateCodeSection.String(), "BeginFunctionBody")
	}
	e.entriesCount++
	e.bodySizeBytes = leb128.WritePatchableVarUint32(e.w)
	e.bodyStart = e.w.Len()
	e.endWritten = false
	leb128.WriteVarUint32(e.w, uint32(len(info.Locals)))
	for _, l := range info.Locals {
		leb128.WriteVarUint32(e.w, l.Count)
		leb128.WriteVarInt32(e.w, int32(l.Type))
	}
	e.state = StateFunctionBody
	return nil
}

func (e *Emitter) codeOperator(op wasm.OperatorInfo) error {
	if e.state != StateFunctionBody {
		return e.fail(StateFunctionBody.String(), "CodeOperator")
	}
	if err := e.writeOperator(op); err != nil {
		e.state = StateError
		return err
	}
	e.endWritten = op.Code == opcode.End
	return nil
}

func (e *Emitter) endFunctionBody() error {
	if e.state != StateFunctionBody {
		return e.fail(StateFunctionBody.String(), "EndFunctionBody")
	}
	if !e.endWritten {
		e.state = StateError
		return ErrMissingEnd
	}
	e.w.PatchVarUint32(e.bodySizeBytes, uint32(e.w.Len()-e.bodyStart))
	e.state = StateCodeSection
	return nil
}

func (e *Emitter) beginDataSectionEntry(index uint32) error {
	if e.state != StateDataSection {
		return e.fail(StateDataSection.String(), "BeginDataSectionEntry")
	}
	e.entriesCount++
	leb128.WriteVarUint32(e.w, index)
	e.state = StateDataSectionEntry
	return nil
}

func (e *Emitter) beginInitExpression() error {
	if e.state != StateDataSectionEntry {
		return e.fail(StateDataSectionEntry.String(), "BeginInitExpressionBody")
	}
	e.initExpressionAfterState = StateDataSectionEntryBody
	e.endWritten = false
	e.state = StateInitExpression
	return nil
}

func (e *Emitter) initExprOperator(op wasm.OperatorInfo) error {
	if e.state != StateInitExpression {
		return e.fail(StateInitExpression.String(), "InitExpressionOperator")
	}
	if err := e.writeOperator(op); err != nil {
		e.state = StateError
		return err
	}
	e.endWritten = op.Code == opcode.End
	return nil
}

func (e *Emitter) endInitExpression() error {
	if e.state != StateInitExpression {
		return e.fail(StateInitExpression.String(), "EndInitExpressionBody")
	}
	if !e.endWritten {
		e.state = StateError
		return ErrMissingEnd
	}
	e.state = e.initExpressionAfterState
	return nil
}

func (e *Emitter) dataSectionEntryBody(data []byte) error {
	if e.state != StateDataSectionEntryBody {
		return e.fail(StateDataSectionEntryBody.String(), "DataSectionEntryBody")
	}
	leb128.WriteString(e.w, data)
	e.state = StateDataSectionEntryEnd
	return nil
}

func (e *Emitter) endDataSectionEntry() error {
	if e.state != StateDataSectionEntryEnd {
		return e.fail(StateDataSectionEntryEnd.String(), "EndDataSectionEntry")
	}
	e.state = StateDataSection
	return nil
}

// writeOperator encodes one operator's code byte and immediates per the
// per-opcode table in package opcode (spec §4.4). Shared between
// CodeOperator and InitExpressionOperator handling since both states
// write the same operator codec, just into different framing contexts.
func (e *Emitter) writeOperator(op wasm.OperatorInfo) error {
	info, ok := opcode.Lookup(op.Code)
	if !ok {
		return ErrUnknownOpcode
	}
	e.w.WriteByte(byte(op.Code))
	switch info.Imm {
	case opcode.ImmNone:
	case opcode.ImmBlockType:
		leb128.WriteVarInt32(e.w, int32(op.BlockType))
	case opcode.ImmBrDepth:
		leb128.WriteVarUint32(e.w, op.BrDepth)
	case opcode.ImmBrTable:
		leb128.WriteVarUint32(e.w, uint32(len(op.BrTable)-1))
		for _, target := range op.BrTable {
			leb128.WriteVarUint32(e.w, target)
		}
	case opcode.ImmFuncIndex:
		leb128.WriteVarUint32(e.w, op.FuncIndex)
	case opcode.ImmCallIndirect:
		leb128.WriteVarUint32(e.w, op.TypeIndex)
		leb128.WriteVarUint32(e.w, 0)
	case opcode.ImmLocalIndex:
		leb128.WriteVarUint32(e.w, op.LocalIndex)
	case opcode.ImmGlobalIndex:
		leb128.WriteVarUint32(e.w, op.GlobalIndex)
	case opcode.ImmMemory:
		leb128.WriteVarUint32(e.w, op.Memory.Flags)
		leb128.WriteVarUint32(e.w, op.Memory.Offset)
	case opcode.ImmReserved0:
		leb128.WriteVarUint32(e.w, 0)
	case opcode.ImmI32Const:
		leb128.WriteVarInt32(e.w, op.LiteralI32)
	case opcode.ImmI64Const:
		leb128.WriteVarInt64(e.w, op.LiteralI64)
	case opcode.ImmF32Const:
		leb128.WriteFloat32(e.w, op.LiteralF32)
	case opcode.ImmF64Const:
		leb128.WriteFloat64(e.w, op.LiteralF64)
	}
	return nil
}
