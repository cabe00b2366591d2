// This module's own wasm package deliberately has no production binary
// parser (spec §1, §6): wasm.SliceReader only replays a pre-built event
// slice. To give the CLI something real to point at a .wasm file, decoding
// is delegated to go-interpreter/wagon's wasm.ReadModule, the same decoder
// the teacher's vm_test.go cross-checks against, and the result is
// translated into this module's own event vocabulary so the Emitter and
// Disassembler below are driven exactly as they would be by a native
// parser.
//
// Grounded on wagon's cmd/wasm-dump (field-by-field Module walk) and its
// vendored wasm/section.go and wasm/types.go for the exact shape of each
// section and entry.
package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	wagon "github.com/go-interpreter/wagon/wasm"

	"github.com/vertexdlt/wasmcodec/leb128"
	"github.com/vertexdlt/wasmcodec/opcode"
	"github.com/vertexdlt/wasmcodec/wasm"
)

// eventsFromModule walks a decoded wagon module and produces the event
// sequence an Emitter or Disassembler would be driven through. Only the
// section kinds this module implements (type, import, function, memory,
// export, code, data) are translated; table/global/start/element sections
// are silently skipped, matching the Emitter's own scope (spec §4.2, §9
// open question 4).
func eventsFromModule(m *wagon.Module) ([]wasm.Event, error) {
	var events []wasm.Event
	events = append(events, wasm.Event{Kind: wasm.StateBeginWasm, Header: wasm.ModuleHeader{Magic: wasm.Magic, Version: m.Version}})

	if m.Types != nil {
		events = append(events, wasm.Event{Kind: wasm.StateBeginSection, Section: wasm.SectionInfo{ID: wasm.SectionType}})
		for _, sig := range m.Types.Entries {
			events = append(events, wasm.Event{Kind: wasm.StateTypeSectionEntry, FunctionType: convertFunctionSig(sig)})
		}
		events = append(events, wasm.Event{Kind: wasm.StateEndSection})
	}

	if m.Import != nil {
		events = append(events, wasm.Event{Kind: wasm.StateBeginSection, Section: wasm.SectionInfo{ID: wasm.SectionImport}})
		for _, imp := range m.Import.Entries {
			entry, err := convertImportEntry(imp)
			if err != nil {
				return nil, err
			}
			events = append(events, wasm.Event{Kind: wasm.StateImportSectionEntry, Import: entry})
		}
		events = append(events, wasm.Event{Kind: wasm.StateEndSection})
	}

	if m.Function != nil {
		events = append(events, wasm.Event{Kind: wasm.StateBeginSection, Section: wasm.SectionInfo{ID: wasm.SectionFunction}})
		for _, t := range m.Function.Types {
			events = append(events, wasm.Event{Kind: wasm.StateFunctionSectionEntry, FunctionEntry: wasm.FunctionEntry{TypeIndex: t}})
		}
		events = append(events, wasm.Event{Kind: wasm.StateEndSection})
	}

	if m.Memory != nil {
		events = append(events, wasm.Event{Kind: wasm.StateBeginSection, Section: wasm.SectionInfo{ID: wasm.SectionMemory}})
		for _, mem := range m.Memory.Entries {
			events = append(events, wasm.Event{Kind: wasm.StateMemorySectionEntry, Memory: wasm.MemoryType{Limits: convertLimits(mem.Limits)}})
		}
		events = append(events, wasm.Event{Kind: wasm.StateEndSection})
	}

	if m.Export != nil {
		events = append(events, wasm.Event{Kind: wasm.StateBeginSection, Section: wasm.SectionInfo{ID: wasm.SectionExport}})
		for _, exp := range m.Export.Entries {
			events = append(events, wasm.Event{Kind: wasm.StateExportSectionEntry, Export: wasm.ExportEntry{
				Field: exp.FieldStr,
				Kind:  wasm.ExternalKind(exp.Kind),
				Index: exp.Index,
			}})
		}
		events = append(events, wasm.Event{Kind: wasm.StateEndSection})
	}

	if m.Code != nil {
		events = append(events, wasm.Event{Kind: wasm.StateBeginSection, Section: wasm.SectionInfo{ID: wasm.SectionCode}})
		for _, body := range m.Code.Bodies {
			bodyEvents, err := convertFunctionBody(body)
			if err != nil {
				return nil, err
			}
			events = append(events, bodyEvents...)
		}
		events = append(events, wasm.Event{Kind: wasm.StateEndSection})
	}

	if m.Data != nil {
		events = append(events, wasm.Event{Kind: wasm.StateBeginSection, Section: wasm.SectionInfo{ID: wasm.SectionData}})
		for _, seg := range m.Data.Entries {
			segEvents, err := convertDataSegment(seg)
			if err != nil {
				return nil, err
			}
			events = append(events, segEvents...)
		}
		events = append(events, wasm.Event{Kind: wasm.StateEndSection})
	}

	events = append(events, wasm.Event{Kind: wasm.StateEndWasm})
	return events, nil
}

func convertValueType(t wagon.ValueType) wasm.ValueType { return wasm.ValueType(int8(t)) }

func convertFunctionSig(sig wagon.FunctionSig) wasm.FunctionType {
	params := make([]wasm.ValueType, len(sig.ParamTypes))
	for i, p := range sig.ParamTypes {
		params[i] = convertValueType(p)
	}
	returns := make([]wasm.ValueType, len(sig.ReturnTypes))
	for i, r := range sig.ReturnTypes {
		returns[i] = convertValueType(r)
	}
	return wasm.FunctionType{Form: sig.Form, Params: params, Returns: returns}
}

func convertLimits(l wagon.ResizableLimits) wasm.ResizableLimits {
	out := wasm.ResizableLimits{Initial: l.Initial}
	if l.Flags&0x1 != 0 {
		max := l.Maximum
		out.Maximum = &max
	}
	return out
}

func convertImportEntry(imp wagon.ImportEntry) (wasm.ImportEntry, error) {
	entry := wasm.ImportEntry{
		Module: imp.ModuleName,
		Field:  imp.FieldName,
		Kind:   wasm.ExternalKind(imp.Kind),
	}
	switch t := imp.Type.(type) {
	case wagon.FuncImport:
		entry.FuncTypeIndex = t.Type
	case wagon.TableImport:
		entry.Table = wasm.TableType{ElementType: int8(t.Type.ElementType), Limits: convertLimits(t.Type.Limits)}
	case wagon.MemoryImport:
		entry.Memory = wasm.MemoryType{Limits: convertLimits(t.Type.Limits)}
	case wagon.GlobalVarImport:
		entry.Global = wasm.GlobalType{ContentType: int8(t.Type.Type), Mutable: t.Type.Mutable}
	default:
		return entry, fmt.Errorf("wasm2wat: unsupported import entry type %T", imp.Type)
	}
	return entry, nil
}

func convertFunctionBody(body wagon.FunctionBody) ([]wasm.Event, error) {
	var events []wasm.Event
	locals := make([]wasm.Local, len(body.Locals))
	for i, l := range body.Locals {
		locals[i] = wasm.Local{Count: l.Count, Type: convertValueType(l.Type)}
	}
	events = append(events, wasm.Event{Kind: wasm.StateBeginFunctionBody, FunctionInfo: wasm.FunctionInformation{Locals: locals}})

	ops, err := decodeOperators(body.Code)
	if err != nil {
		return nil, err
	}
	// wagon strips the function body's trailing end byte when reading,
	// so it must be replayed here for the Emitter's end-operator
	// discipline (spec §7: MissingEndOperator) and the Disassembler's
	// indent bookkeeping to see it.
	ops = append(ops, wasm.OperatorInfo{Code: opcode.End})
	for _, op := range ops {
		events = append(events, wasm.Event{Kind: wasm.StateCodeOperator, Operator: op})
	}
	events = append(events, wasm.Event{Kind: wasm.StateEndFunctionBody})
	return events, nil
}

func convertDataSegment(seg wagon.DataSegment) ([]wasm.Event, error) {
	var events []wasm.Event
	events = append(events, wasm.Event{Kind: wasm.StateBeginDataSectionEntry, DataIndex: seg.Index})
	events = append(events, wasm.Event{Kind: wasm.StateBeginInitExpressionBody})

	ops, err := decodeOperators(seg.Offset)
	if err != nil {
		return nil, err
	}
	for _, op := range ops {
		events = append(events, wasm.Event{Kind: wasm.StateInitExpressionOperator, Operator: op})
	}
	events = append(events, wasm.Event{Kind: wasm.StateEndInitExpressionBody})
	events = append(events, wasm.Event{Kind: wasm.StateDataSectionEntryBody, Data: seg.Data})
	events = append(events, wasm.Event{Kind: wasm.StateEndDataSectionEntry})
	return events, nil
}

// decodeOperators walks a raw Wasm code stream one opcode at a time,
// reading each operator's immediates according to the shared opcode table
// (package opcode) so this decoder and the Emitter's writeOperator agree
// on the shape of every immediate (spec §4.4).
func decodeOperators(code []byte) ([]wasm.OperatorInfo, error) {
	r := bytes.NewReader(code)
	var ops []wasm.OperatorInfo
	for r.Len() > 0 {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		oc := opcode.Opcode(b)
		info, ok := opcode.Lookup(oc)
		if !ok {
			return nil, fmt.Errorf("wasm2wat: unknown opcode %#x", b)
		}
		op := wasm.OperatorInfo{Code: oc}
		if err := readImmediate(r, info, &op); err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func readImmediate(r *bytes.Reader, info opcode.Info, op *wasm.OperatorInfo) error {
	switch info.Imm {
	case opcode.ImmNone:
		return nil
	case opcode.ImmBlockType:
		v, err := leb128.ReadInt32(r)
		op.BlockType = int8(v)
		return err
	case opcode.ImmBrDepth:
		v, err := leb128.ReadUint32(r)
		op.BrDepth = v
		return err
	case opcode.ImmBrTable:
		count, err := leb128.ReadUint32(r)
		if err != nil {
			return err
		}
		targets := make([]uint32, count+1)
		for i := range targets {
			if targets[i], err = leb128.ReadUint32(r); err != nil {
				return err
			}
		}
		op.BrTable = targets
		return nil
	case opcode.ImmFuncIndex:
		v, err := leb128.ReadUint32(r)
		op.FuncIndex = v
		return err
	case opcode.ImmCallIndirect:
		v, err := leb128.ReadUint32(r)
		if err != nil {
			return err
		}
		op.TypeIndex = v
		_, err = leb128.ReadUint32(r)
		return err
	case opcode.ImmLocalIndex:
		v, err := leb128.ReadUint32(r)
		op.LocalIndex = v
		return err
	case opcode.ImmGlobalIndex:
		v, err := leb128.ReadUint32(r)
		op.GlobalIndex = v
		return err
	case opcode.ImmMemory:
		flags, err := leb128.ReadUint32(r)
		if err != nil {
			return err
		}
		offset, err := leb128.ReadUint32(r)
		if err != nil {
			return err
		}
		op.Memory = wasm.MemoryImmediate{Flags: flags, Offset: offset}
		return nil
	case opcode.ImmReserved0:
		_, err := leb128.ReadUint32(r)
		return err
	case opcode.ImmI32Const:
		v, err := leb128.ReadInt32(r)
		op.LiteralI32 = v
		return err
	case opcode.ImmI64Const:
		v, err := leb128.ReadInt64(r)
		op.LiteralI64 = int64ToRaw(v)
		return err
	case opcode.ImmF32Const:
		var raw [4]byte
		if _, err := io.ReadFull(r, raw[:]); err != nil {
			return err
		}
		op.LiteralF32 = binary.LittleEndian.Uint32(raw[:])
		return nil
	case opcode.ImmF64Const:
		var raw [8]byte
		if _, err := io.ReadFull(r, raw[:]); err != nil {
			return err
		}
		op.LiteralF64 = binary.LittleEndian.Uint64(raw[:])
		return nil
	default:
		return fmt.Errorf("wasm2wat: unhandled immediate kind %d", info.Imm)
	}
}

func int64ToRaw(v int64) wasm.Int64 {
	var raw wasm.Int64
	binary.LittleEndian.PutUint64(raw[:], uint64(v))
	return raw
}
