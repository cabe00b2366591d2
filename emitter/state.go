package emitter

import "github.com/vertexdlt/wasmcodec/wasm"

// State is the Emitter's current FSM state (spec §4.2). A closed sum type
// modeled as a Go int enum with a total String method, per spec §9's
// design note: "model it as a closed sum and write a total match at each
// event-handler entry. Do not use a stack."
type State int

const (
	StateInitial State = iota
	StateError
	StateWasm
	StateTypeSection
	StateImportSection
	StateFunctionSection
	StateTableSection
	StateMemorySection
	StateGlobalSection
	StateExportSection
	StateStartSection
	StateElementSection
	StateCodeSection
	StateDataSection
	StateFunctionBody
	StateDataSectionEntry
	StateDataSectionEntryBody
	StateDataSectionEntryEnd
	StateInitExpression
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "Initial"
	case StateError:
		return "Error"
	case StateWasm:
		return "Wasm"
	case StateTypeSection:
		return "TypeSection"
	case StateImportSection:
		return "ImportSection"
	case StateFunctionSection:
		return "FunctionSection"
	case StateTableSection:
		return "TableSection"
	case StateMemorySection:
		return "MemorySection"
	case StateGlobalSection:
		return "GlobalSection"
	case StateExportSection:
		return "ExportSection"
	case StateStartSection:
		return "StartSection"
	case StateElementSection:
		return "ElementSection"
	case StateCodeSection:
		return "CodeSection"
	case StateDataSection:
		return "DataSection"
	case StateFunctionBody:
		return "FunctionBody"
	case StateDataSectionEntry:
		return "DataSectionEntry"
	case StateDataSectionEntryBody:
		return "DataSectionEntryBody"
	case StateDataSectionEntryEnd:
		return "DataSectionEntryEnd"
	case StateInitExpression:
		return "InitExpression"
	default:
		return "<unknown state>"
	}
}

// sectionState returns the FSM state entered by BeginSection(id), and
// whether the Emitter implements that section at all. Table, Global,
// Start and Element sections are left unimplemented by design (spec §4.2:
// "The current design rejects Custom and Start/Element/Table/Global
// sections in BeginSection"); see DESIGN.md for why this module keeps that
// restriction rather than extending it speculatively.
func sectionState(id wasm.SectionID) (State, bool) {
	switch id {
	case wasm.SectionType:
		return StateTypeSection, true
	case wasm.SectionImport:
		return StateImportSection, true
	case wasm.SectionFunction:
		return StateFunctionSection, true
	case wasm.SectionMemory:
		return StateMemorySection, true
	case wasm.SectionExport:
		return StateExportSection, true
	case wasm.SectionCode:
		return StateCodeSection, true
	case wasm.SectionData:
		return StateDataSection, true
	default:
		return StateError, false
	}
}
