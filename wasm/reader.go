package wasm

import "errors"

// ReaderState is the external BinaryReader's current event tag (spec §6.1).
type ReaderState uint8

const (
	StateBeginWasm ReaderState = iota
	StateEndWasm
	StateBeginSection
	StateEndSection
	StateTypeSectionEntry
	StateImportSectionEntry
	StateFunctionSectionEntry
	StateTableSectionEntry
	StateMemorySectionEntry
	StateExportSectionEntry
	StateBeginGlobalSectionEntry
	StateEndGlobalSectionEntry
	StateBeginElementSectionEntry
	StateElementSectionEntryBody
	StateEndElementSectionEntry
	StateBeginFunctionBody
	StateEndFunctionBody
	StateCodeOperator
	StateBeginDataSectionEntry
	StateDataSectionEntryBody
	StateEndDataSectionEntry
	StateBeginInitExpressionBody
	StateInitExpressionOperator
	StateEndInitExpressionBody
	StateError
)

// Event is one parser event: a state tag plus whichever payload that tag
// carries. Exactly one payload field is populated per Kind; sinks are
// expected to know, from Kind, which field to read (spec §9: "model the
// event as a tagged record; do not rely on dynamic down-casting").
type Event struct {
	Kind ReaderState

	Header        ModuleHeader
	Section       SectionInfo
	FunctionType  FunctionType
	Import        ImportEntry
	FunctionEntry FunctionEntry
	Table         TableType
	Memory        MemoryType
	Export        ExportEntry
	FunctionInfo  FunctionInformation
	Operator      OperatorInfo
	DataIndex     uint32 // BeginDataSectionEntry
	Data          []byte // DataSectionEntryBody

	Err error // StateError
}

// ErrNeedMoreBytes is returned by a BinaryReader's Read when the
// underlying byte source has been exhausted for the current call but more
// input is expected to arrive (spec §6.1: "read() ... returns false when
// more bytes are needed"). wasm.SliceReader never returns it since it is
// replaying a complete, in-memory event slice.
var ErrNeedMoreBytes = errors.New("wasm: need more bytes")

// BinaryReader is the external streaming parser collaborator both the
// Emitter and the Disassembler are driven through (spec §6.1). This module
// does not implement a production BinaryReader: a real one decodes raw
// Wasm bytes into Events. SliceReader, below, is a minimal fixture used to
// exercise the two sinks in tests without a real parser.
type BinaryReader interface {
	// Read advances to the next event, returning false only when no event
	// could be produced (EOF or ErrNeedMoreBytes via State()/Error()).
	Read() bool
	// State returns the tag of the event last produced by Read.
	State() ReaderState
	// Event returns the full payload of the event last produced by Read.
	Event() Event
	// Error returns the parser's failure value when State() == StateError.
	Error() error
	// HasMoreBytes reports whether the underlying source has unread input.
	HasMoreBytes() bool
	// SkipSection seeks past the remainder of the current section.
	SkipSection()
}

// SliceReader replays a fixed, pre-built []Event as a BinaryReader. It is
// the fixture used throughout this module's tests and by cmd/wasm2wat to
// replay the events its bridge builds from a decoded module; it is not a
// parser (spec §1 explicitly places the
// parser out of scope) — it only stands in for one so the Emitter and
// Disassembler are exercisable from a known event sequence.
//
// Modeled on the teacher's util.ByteReader: a slice plus a cursor, with no
// buffering or lookahead beyond the next element.
type SliceReader struct {
	events []Event
	pos    int
}

// NewSliceReader builds a SliceReader that replays events in order.
func NewSliceReader(events []Event) *SliceReader {
	return &SliceReader{events: events, pos: -1}
}

func (r *SliceReader) Read() bool {
	if r.pos+1 >= len(r.events) {
		return false
	}
	r.pos++
	return true
}

func (r *SliceReader) State() ReaderState {
	if r.pos < 0 || r.pos >= len(r.events) {
		return StateError
	}
	return r.events[r.pos].Kind
}

func (r *SliceReader) Event() Event {
	if r.pos < 0 || r.pos >= len(r.events) {
		return Event{Kind: StateError, Err: errors.New("wasm: read past end of slice reader")}
	}
	return r.events[r.pos]
}

func (r *SliceReader) Error() error {
	if r.State() != StateError {
		return nil
	}
	return r.Event().Err
}

func (r *SliceReader) HasMoreBytes() bool {
	return r.pos+1 < len(r.events)
}

func (r *SliceReader) SkipSection() {
	depth := 0
	for r.Read() {
		switch r.State() {
		case StateBeginSection:
			depth++
		case StateEndSection:
			depth--
			if depth <= 0 {
				return
			}
		}
	}
}
