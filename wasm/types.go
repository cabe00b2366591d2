// Package wasm holds the value types shared by the Emitter and the
// Disassembler: the decoded section/body payloads a streaming Wasm binary
// parser hands downstream, and the BinaryReader collaborator interface
// both sinks are driven through.
//
// Modeled directly on the teacher's wasm.Module value types
// (wasm/module.go), generalized from "whole module decoded up front" to
// "one section/body entry at a time", which is what an event-driven parser
// hands its consumers.
package wasm

import "github.com/vertexdlt/wasmcodec/opcode"

// Magic is the 4-byte Wasm module header, little-endian as a uint32.
const Magic uint32 = 0x6d736100

// Version is the only Wasm binary version this module understands.
const Version uint32 = 0x1

// SectionID identifies a top-level module section.
type SectionID uint8

const (
	SectionCustom SectionID = iota
	SectionType
	SectionImport
	SectionFunction
	SectionTable
	SectionMemory
	SectionGlobal
	SectionExport
	SectionStart
	SectionElement
	SectionCode
	SectionData
)

// ValueType is a Wasm value type tag, encoded as a signed LEB128 byte.
type ValueType int8

const (
	ValueTypeI32 ValueType = -0x01
	ValueTypeI64 ValueType = -0x02
	ValueTypeF32 ValueType = -0x03
	ValueTypeF64 ValueType = -0x04
)

// BlockTypeEmpty is the signed encoding for a block with no result type.
const BlockTypeEmpty int8 = -0x40

// FuncTypeForm is the signed form byte that begins a function type entry.
const FuncTypeForm int8 = -0x20

// ExternalKind identifies what an import or export entry refers to.
type ExternalKind uint8

const (
	ExternalFunction ExternalKind = iota
	ExternalTable
	ExternalMemory
	ExternalGlobal
)

// ModuleHeader is the payload of BeginWasm.
type ModuleHeader struct {
	Magic   uint32
	Version uint32
}

// SectionInfo is the payload of BeginSection.
type SectionInfo struct {
	ID   SectionID
	Name []byte // only meaningful when ID == SectionCustom
}

// FunctionType is a type-section entry.
type FunctionType struct {
	Form    int8
	Params  []ValueType
	Returns []ValueType
}

// ResizableLimits bounds a table or memory.
type ResizableLimits struct {
	Initial uint32
	Maximum *uint32
}

// HasMax reports whether the limits carry a maximum.
func (l ResizableLimits) HasMax() bool { return l.Maximum != nil }

// TableType is a table import/declaration descriptor.
type TableType struct {
	ElementType int8
	Limits      ResizableLimits
}

// MemoryType is a memory import/declaration descriptor.
type MemoryType struct {
	Limits ResizableLimits
}

// GlobalType is a global import/declaration descriptor.
type GlobalType struct {
	ContentType int8
	Mutable     bool
}

// ImportEntry is an import-section entry.
type ImportEntry struct {
	Module, Field string
	Kind          ExternalKind
	FuncTypeIndex uint32
	Table         TableType
	Memory        MemoryType
	Global        GlobalType
}

// ExportEntry is an export-section entry.
type ExportEntry struct {
	Field string
	Kind  ExternalKind
	Index uint32
}

// FunctionEntry is a function-section entry (one per declared function body).
type FunctionEntry struct {
	TypeIndex uint32
}

// Local is one (count, type) run of declared local slots in a function body.
type Local struct {
	Count uint32
	Type  ValueType
}

// FunctionInformation is the payload of BeginFunctionBody.
type FunctionInformation struct {
	Locals []Local
}

// MemoryImmediate is the {flags, offset} immediate pair of a load/store.
type MemoryImmediate struct {
	Flags  uint32
	Offset uint32
}

// Int64 holds the decoded value of an i64.const immediate as raw
// little-endian bytes, the shape a LEB128 reader naturally produces
// without a round trip through a named numeric type.
type Int64 [8]byte

// OperatorInfo is the payload of a CodeOperator / InitExprOperator event.
// Exactly the fields required by Code are meaningful; callers must consult
// the opcode table (package opcode) to know which.
type OperatorInfo struct {
	Code Opcode

	BlockType   int8
	BrDepth     uint32
	BrTable     []uint32 // last entry is the default target
	FuncIndex   uint32
	TypeIndex   uint32
	LocalIndex  uint32
	GlobalIndex uint32
	Memory      MemoryImmediate

	LiteralI32 int32
	LiteralI64 Int64
	LiteralF32 uint32 // raw IEEE-754 bits
	LiteralF64 uint64 // raw IEEE-754 bits
}

// Opcode is re-exported from package opcode so callers constructing events
// don't need a second import for the common case.
type Opcode = opcode.Opcode
