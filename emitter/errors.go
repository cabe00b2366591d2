package emitter

import "errors"

// StateError reports that an event arrived while the Emitter's FSM was in
// a state that does not accept it (spec §7: StateViolation). Grounded on
// the teacher's two-tier error design (vm/error.go): a typed error for
// conditions that carry structured context, alongside plain sentinel
// errors for everything else.
type StateError struct {
	State    State
	Expected string
	Event    string
}

func (e *StateError) Error() string {
	return "emitter: unexpected state " + e.State.String() +
		": " + e.Event + " requires " + e.Expected
}

// Sentinel errors not carrying extra structured context, mirroring the
// teacher's vm/error.go split between ExecError and plain errors.New
// values.
var (
	// ErrMissingEnd is StateViolation's sibling, MissingEndOperator (spec
	// §7): EndFunctionBody/EndInitExpression arrived but the last operator
	// written was not `end`.
	ErrMissingEnd = errors.New("emitter: function body or init expression closed without a trailing end operator")

	// ErrUnknownImportKind is raised when an ImportEntry's Kind is outside
	// the defined ExternalKind range.
	ErrUnknownImportKind = errors.New("emitter: unknown import kind")

	// ErrUnknownExportKind is raised when an ExportEntry's Kind is outside
	// the defined ExternalKind range.
	ErrUnknownExportKind = errors.New("emitter: unknown export kind")

	// ErrUnknownSectionID is raised by BeginSection for a section id this
	// Emitter does not implement. Per spec §4.2 and §9 open question 4,
	// Custom sections and Table/Global/Start/Element sections are rejected
	// by design; see DESIGN.md for the resolution adopted here.
	ErrUnknownSectionID = errors.New("emitter: unsupported section id")

	// ErrUnknownOpcode is raised when WriteData is given an OperatorInfo
	// whose Code is not in the opcode table.
	ErrUnknownOpcode = errors.New("emitter: unknown opcode")

	// ErrPatchOverflow names §9 open question 3: a patched count or size
	// that would not fit the 5-byte canonical slot. No code path returns
	// it: PatchVarUint32 takes a uint32, which always fits in 5 bytes.
	ErrPatchOverflow = errors.New("emitter: value does not fit in a 5-byte patchable slot")
)
