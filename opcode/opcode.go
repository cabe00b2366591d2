// Package opcode holds the single source of truth for Wasm MVP operator
// codes: the mnemonic printed by the disassembler, the shape of the
// immediates the emitter and disassembler must read or write, and (for
// memory operators) the natural alignment elided from textual output.
//
// The teacher VM switches on raw opcode bytes and byte ranges ad hoc
// (vm/vm.go: "opcode.I32Add <= op && op <= opcode.I32Rotr"); this package
// collects the same opcode space into one data-driven table so the emitter
// and disassembler consult a shared definition instead of duplicating it.
package opcode

// Opcode is a single Wasm MVP operator code.
type Opcode byte

const (
	Unreachable Opcode = 0x00
	Nop         Opcode = 0x01
	Block       Opcode = 0x02
	Loop        Opcode = 0x03
	If          Opcode = 0x04
	Else        Opcode = 0x05
	End         Opcode = 0x0B
	Br          Opcode = 0x0C
	BrIf        Opcode = 0x0D
	BrTable     Opcode = 0x0E
	Return      Opcode = 0x0F
	Call        Opcode = 0x10
	CallIndirect Opcode = 0x11
	Drop        Opcode = 0x1A
	Select      Opcode = 0x1B

	GetLocal  Opcode = 0x20
	SetLocal  Opcode = 0x21
	TeeLocal  Opcode = 0x22
	GetGlobal Opcode = 0x23
	SetGlobal Opcode = 0x24

	I32Load    Opcode = 0x28
	I64Load    Opcode = 0x29
	F32Load    Opcode = 0x2A
	F64Load    Opcode = 0x2B
	I32Load8S  Opcode = 0x2C
	I32Load8U  Opcode = 0x2D
	I32Load16S Opcode = 0x2E
	I32Load16U Opcode = 0x2F
	I64Load8S  Opcode = 0x30
	I64Load8U  Opcode = 0x31
	I64Load16S Opcode = 0x32
	I64Load16U Opcode = 0x33
	I64Load32S Opcode = 0x34
	I64Load32U Opcode = 0x35
	I32Store   Opcode = 0x36
	I64Store   Opcode = 0x37
	F32Store   Opcode = 0x38
	F64Store   Opcode = 0x39
	I32Store8  Opcode = 0x3A
	I32Store16 Opcode = 0x3B
	I64Store8  Opcode = 0x3C
	I64Store16 Opcode = 0x3D
	I64Store32 Opcode = 0x3E

	CurrentMemory Opcode = 0x3F
	GrowMemory    Opcode = 0x40

	I32Const Opcode = 0x41
	I64Const Opcode = 0x42
	F32Const Opcode = 0x43
	F64Const Opcode = 0x44

	I32Eqz  Opcode = 0x45
	I32Eq   Opcode = 0x46
	I32Ne   Opcode = 0x47
	I32LtS  Opcode = 0x48
	I32LtU  Opcode = 0x49
	I32GtS  Opcode = 0x4A
	I32GtU  Opcode = 0x4B
	I32LeS  Opcode = 0x4C
	I32LeU  Opcode = 0x4D
	I32GeS  Opcode = 0x4E
	I32GeU  Opcode = 0x4F

	I64Eqz Opcode = 0x50
	I64Eq  Opcode = 0x51
	I64Ne  Opcode = 0x52
	I64LtS Opcode = 0x53
	I64LtU Opcode = 0x54
	I64GtS Opcode = 0x55
	I64GtU Opcode = 0x56
	I64LeS Opcode = 0x57
	I64LeU Opcode = 0x58
	I64GeS Opcode = 0x59
	I64GeU Opcode = 0x5A

	F32Eq Opcode = 0x5B
	F32Ne Opcode = 0x5C
	F32Lt Opcode = 0x5D
	F32Gt Opcode = 0x5E
	F32Le Opcode = 0x5F
	F32Ge Opcode = 0x60

	F64Eq Opcode = 0x61
	F64Ne Opcode = 0x62
	F64Lt Opcode = 0x63
	F64Gt Opcode = 0x64
	F64Le Opcode = 0x65
	F64Ge Opcode = 0x66

	I32Clz    Opcode = 0x67
	I32Ctz    Opcode = 0x68
	I32Popcnt Opcode = 0x69
	I32Add    Opcode = 0x6A
	I32Sub    Opcode = 0x6B
	I32Mul    Opcode = 0x6C
	I32DivS   Opcode = 0x6D
	I32DivU   Opcode = 0x6E
	I32RemS   Opcode = 0x6F
	I32RemU   Opcode = 0x70
	I32And    Opcode = 0x71
	I32Or     Opcode = 0x72
	I32Xor    Opcode = 0x73
	I32Shl    Opcode = 0x74
	I32ShrS   Opcode = 0x75
	I32ShrU   Opcode = 0x76
	I32Rotl   Opcode = 0x77
	I32Rotr   Opcode = 0x78

	I64Clz    Opcode = 0x79
	I64Ctz    Opcode = 0x7A
	I64Popcnt Opcode = 0x7B
	I64Add    Opcode = 0x7C
	I64Sub    Opcode = 0x7D
	I64Mul    Opcode = 0x7E
	I64DivS   Opcode = 0x7F
	I64DivU   Opcode = 0x80
	I64RemS   Opcode = 0x81
	I64RemU   Opcode = 0x82
	I64And    Opcode = 0x83
	I64Or     Opcode = 0x84
	I64Xor    Opcode = 0x85
	I64Shl    Opcode = 0x86
	I64ShrS   Opcode = 0x87
	I64ShrU   Opcode = 0x88
	I64Rotl   Opcode = 0x89
	I64Rotr   Opcode = 0x8A

	F32Abs      Opcode = 0x8B
	F32Neg      Opcode = 0x8C
	F32Ceil     Opcode = 0x8D
	F32Floor    Opcode = 0x8E
	F32Trunc    Opcode = 0x8F
	F32Nearest  Opcode = 0x90
	F32Sqrt     Opcode = 0x91
	F32Add      Opcode = 0x92
	F32Sub      Opcode = 0x93
	F32Mul      Opcode = 0x94
	F32Div      Opcode = 0x95
	F32Min      Opcode = 0x96
	F32Max      Opcode = 0x97
	F32Copysign Opcode = 0x98

	F64Abs      Opcode = 0x99
	F64Neg      Opcode = 0x9A
	F64Ceil     Opcode = 0x9B
	F64Floor    Opcode = 0x9C
	F64Trunc    Opcode = 0x9D
	F64Nearest  Opcode = 0x9E
	F64Sqrt     Opcode = 0x9F
	F64Add      Opcode = 0xA0
	F64Sub      Opcode = 0xA1
	F64Mul      Opcode = 0xA2
	F64Div      Opcode = 0xA3
	F64Min      Opcode = 0xA4
	F64Max      Opcode = 0xA5
	F64Copysign Opcode = 0xA6

	I32WrapI64        Opcode = 0xA7
	I32TruncSF32      Opcode = 0xA8
	I32TruncUF32      Opcode = 0xA9
	I32TruncSF64      Opcode = 0xAA
	I32TruncUF64      Opcode = 0xAB
	I64ExtendSI32     Opcode = 0xAC
	I64ExtendUI32     Opcode = 0xAD
	I64TruncSF32      Opcode = 0xAE
	I64TruncUF32      Opcode = 0xAF
	I64TruncSF64      Opcode = 0xB0
	I64TruncUF64      Opcode = 0xB1
	F32ConvertSI32    Opcode = 0xB2
	F32ConvertUI32    Opcode = 0xB3
	F32ConvertSI64    Opcode = 0xB4
	F32ConvertUI64    Opcode = 0xB5
	F32DemoteF64      Opcode = 0xB6
	F64ConvertSI32    Opcode = 0xB7
	F64ConvertUI32    Opcode = 0xB8
	F64ConvertSI64    Opcode = 0xB9
	F64ConvertUI64    Opcode = 0xBA
	F64PromoteF32     Opcode = 0xBB
	I32ReinterpretF32 Opcode = 0xBC
	I64ReinterpretF64 Opcode = 0xBD
	F32ReinterpretI32 Opcode = 0xBE
	F64ReinterpretI64 Opcode = 0xBF
)

// ImmKind identifies the shape of the immediate(s) that follow an opcode
// byte, per spec §4.4.
type ImmKind uint8

const (
	ImmNone ImmKind = iota
	ImmBlockType
	ImmBrDepth
	ImmBrTable
	ImmFuncIndex
	ImmCallIndirect // typeIndex + reserved 0 byte
	ImmLocalIndex
	ImmGlobalIndex
	ImmMemory  // flags + offset
	ImmReserved0 // current_memory / grow_memory: a single reserved varuint 0
	ImmI32Const
	ImmI64Const
	ImmF32Const
	ImmF64Const
)

// Info describes one opcode: its canonical underscore-form name (rewritten
// by the disassembler into dotted/slash Wat notation) and its immediate
// shape. DefaultAlign is the log2 natural alignment for memory operators,
// -1 for every other opcode.
type Info struct {
	Name         string
	Imm          ImmKind
	DefaultAlign int8
}

// Table maps every opcode this module understands to its Info.
var Table = map[Opcode]Info{
	Unreachable:  {"unreachable", ImmNone, -1},
	Nop:          {"nop", ImmNone, -1},
	Block:        {"block", ImmBlockType, -1},
	Loop:         {"loop", ImmBlockType, -1},
	If:           {"if", ImmBlockType, -1},
	Else:         {"else", ImmNone, -1},
	End:          {"end", ImmNone, -1},
	Br:           {"br", ImmBrDepth, -1},
	BrIf:         {"br_if", ImmBrDepth, -1},
	BrTable:      {"br_table", ImmBrTable, -1},
	Return:       {"return", ImmNone, -1},
	Call:         {"call", ImmFuncIndex, -1},
	CallIndirect: {"call_indirect", ImmCallIndirect, -1},
	Drop:         {"drop", ImmNone, -1},
	Select:       {"select", ImmNone, -1},

	GetLocal:  {"get_local", ImmLocalIndex, -1},
	SetLocal:  {"set_local", ImmLocalIndex, -1},
	TeeLocal:  {"tee_local", ImmLocalIndex, -1},
	GetGlobal: {"get_global", ImmGlobalIndex, -1},
	SetGlobal: {"set_global", ImmGlobalIndex, -1},

	I32Load:    {"i32_load", ImmMemory, 2},
	I64Load:    {"i64_load", ImmMemory, 3},
	F32Load:    {"f32_load", ImmMemory, 2},
	F64Load:    {"f64_load", ImmMemory, 3},
	I32Load8S:  {"i32_load8_s", ImmMemory, 0},
	I32Load8U:  {"i32_load8_u", ImmMemory, 0},
	I32Load16S: {"i32_load16_s", ImmMemory, 1},
	I32Load16U: {"i32_load16_u", ImmMemory, 1},
	I64Load8S:  {"i64_load8_s", ImmMemory, 0},
	I64Load8U:  {"i64_load8_u", ImmMemory, 0},
	I64Load16S: {"i64_load16_s", ImmMemory, 1},
	I64Load16U: {"i64_load16_u", ImmMemory, 1},
	I64Load32S: {"i64_load32_s", ImmMemory, 2},
	I64Load32U: {"i64_load32_u", ImmMemory, 2},
	I32Store:   {"i32_store", ImmMemory, 2},
	I64Store:   {"i64_store", ImmMemory, 3},
	F32Store:   {"f32_store", ImmMemory, 2},
	F64Store:   {"f64_store", ImmMemory, 3},
	I32Store8:  {"i32_store8", ImmMemory, 0},
	I32Store16: {"i32_store16", ImmMemory, 1},
	I64Store8:  {"i64_store8", ImmMemory, 0},
	I64Store16: {"i64_store16", ImmMemory, 1},
	I64Store32: {"i64_store32", ImmMemory, 2},

	CurrentMemory: {"current_memory", ImmReserved0, -1},
	GrowMemory:    {"grow_memory", ImmReserved0, -1},

	I32Const: {"i32_const", ImmI32Const, -1},
	I64Const: {"i64_const", ImmI64Const, -1},
	F32Const: {"f32_const", ImmF32Const, -1},
	F64Const: {"f64_const", ImmF64Const, -1},

	I32Eqz: {"i32_eqz", ImmNone, -1},
	I32Eq:  {"i32_eq", ImmNone, -1},
	I32Ne:  {"i32_ne", ImmNone, -1},
	I32LtS: {"i32_lt_s", ImmNone, -1},
	I32LtU: {"i32_lt_u", ImmNone, -1},
	I32GtS: {"i32_gt_s", ImmNone, -1},
	I32GtU: {"i32_gt_u", ImmNone, -1},
	I32LeS: {"i32_le_s", ImmNone, -1},
	I32LeU: {"i32_le_u", ImmNone, -1},
	I32GeS: {"i32_ge_s", ImmNone, -1},
	I32GeU: {"i32_ge_u", ImmNone, -1},

	I64Eqz: {"i64_eqz", ImmNone, -1},
	I64Eq:  {"i64_eq", ImmNone, -1},
	I64Ne:  {"i64_ne", ImmNone, -1},
	I64LtS: {"i64_lt_s", ImmNone, -1},
	I64LtU: {"i64_lt_u", ImmNone, -1},
	I64GtS: {"i64_gt_s", ImmNone, -1},
	I64GtU: {"i64_gt_u", ImmNone, -1},
	I64LeS: {"i64_le_s", ImmNone, -1},
	I64LeU: {"i64_le_u", ImmNone, -1},
	I64GeS: {"i64_ge_s", ImmNone, -1},
	I64GeU: {"i64_ge_u", ImmNone, -1},

	F32Eq: {"f32_eq", ImmNone, -1},
	F32Ne: {"f32_ne", ImmNone, -1},
	F32Lt: {"f32_lt", ImmNone, -1},
	F32Gt: {"f32_gt", ImmNone, -1},
	F32Le: {"f32_le", ImmNone, -1},
	F32Ge: {"f32_ge", ImmNone, -1},

	F64Eq: {"f64_eq", ImmNone, -1},
	F64Ne: {"f64_ne", ImmNone, -1},
	F64Lt: {"f64_lt", ImmNone, -1},
	F64Gt: {"f64_gt", ImmNone, -1},
	F64Le: {"f64_le", ImmNone, -1},
	F64Ge: {"f64_ge", ImmNone, -1},

	I32Clz:    {"i32_clz", ImmNone, -1},
	I32Ctz:    {"i32_ctz", ImmNone, -1},
	I32Popcnt: {"i32_popcnt", ImmNone, -1},
	I32Add:    {"i32_add", ImmNone, -1},
	I32Sub:    {"i32_sub", ImmNone, -1},
	I32Mul:    {"i32_mul", ImmNone, -1},
	I32DivS:   {"i32_div_s", ImmNone, -1},
	I32DivU:   {"i32_div_u", ImmNone, -1},
	I32RemS:   {"i32_rem_s", ImmNone, -1},
	I32RemU:   {"i32_rem_u", ImmNone, -1},
	I32And:    {"i32_and", ImmNone, -1},
	I32Or:     {"i32_or", ImmNone, -1},
	I32Xor:    {"i32_xor", ImmNone, -1},
	I32Shl:    {"i32_shl", ImmNone, -1},
	I32ShrS:   {"i32_shr_s", ImmNone, -1},
	I32ShrU:   {"i32_shr_u", ImmNone, -1},
	I32Rotl:   {"i32_rotl", ImmNone, -1},
	I32Rotr:   {"i32_rotr", ImmNone, -1},

	I64Clz:    {"i64_clz", ImmNone, -1},
	I64Ctz:    {"i64_ctz", ImmNone, -1},
	I64Popcnt: {"i64_popcnt", ImmNone, -1},
	I64Add:    {"i64_add", ImmNone, -1},
	I64Sub:    {"i64_sub", ImmNone, -1},
	I64Mul:    {"i64_mul", ImmNone, -1},
	I64DivS:   {"i64_div_s", ImmNone, -1},
	I64DivU:   {"i64_div_u", ImmNone, -1},
	I64RemS:   {"i64_rem_s", ImmNone, -1},
	I64RemU:   {"i64_rem_u", ImmNone, -1},
	I64And:    {"i64_and", ImmNone, -1},
	I64Or:     {"i64_or", ImmNone, -1},
	I64Xor:    {"i64_xor", ImmNone, -1},
	I64Shl:    {"i64_shl", ImmNone, -1},
	I64ShrS:   {"i64_shr_s", ImmNone, -1},
	I64ShrU:   {"i64_shr_u", ImmNone, -1},
	I64Rotl:   {"i64_rotl", ImmNone, -1},
	I64Rotr:   {"i64_rotr", ImmNone, -1},

	F32Abs:      {"f32_abs", ImmNone, -1},
	F32Neg:      {"f32_neg", ImmNone, -1},
	F32Ceil:     {"f32_ceil", ImmNone, -1},
	F32Floor:    {"f32_floor", ImmNone, -1},
	F32Trunc:    {"f32_trunc", ImmNone, -1},
	F32Nearest:  {"f32_nearest", ImmNone, -1},
	F32Sqrt:     {"f32_sqrt", ImmNone, -1},
	F32Add:      {"f32_add", ImmNone, -1},
	F32Sub:      {"f32_sub", ImmNone, -1},
	F32Mul:      {"f32_mul", ImmNone, -1},
	F32Div:      {"f32_div", ImmNone, -1},
	F32Min:      {"f32_min", ImmNone, -1},
	F32Max:      {"f32_max", ImmNone, -1},
	F32Copysign: {"f32_copysign", ImmNone, -1},

	F64Abs:      {"f64_abs", ImmNone, -1},
	F64Neg:      {"f64_neg", ImmNone, -1},
	F64Ceil:     {"f64_ceil", ImmNone, -1},
	F64Floor:    {"f64_floor", ImmNone, -1},
	F64Trunc:    {"f64_trunc", ImmNone, -1},
	F64Nearest:  {"f64_nearest", ImmNone, -1},
	F64Sqrt:     {"f64_sqrt", ImmNone, -1},
	F64Add:      {"f64_add", ImmNone, -1},
	F64Sub:      {"f64_sub", ImmNone, -1},
	F64Mul:      {"f64_mul", ImmNone, -1},
	F64Div:      {"f64_div", ImmNone, -1},
	F64Min:      {"f64_min", ImmNone, -1},
	F64Max:      {"f64_max", ImmNone, -1},
	F64Copysign: {"f64_copysign", ImmNone, -1},

	I32WrapI64:        {"i32_wrap_i64", ImmNone, -1},
	I32TruncSF32:      {"i32_trunc_s_f32", ImmNone, -1},
	I32TruncUF32:      {"i32_trunc_u_f32", ImmNone, -1},
	I32TruncSF64:      {"i32_trunc_s_f64", ImmNone, -1},
	I32TruncUF64:      {"i32_trunc_u_f64", ImmNone, -1},
	I64ExtendSI32:     {"i64_extend_s_i32", ImmNone, -1},
	I64ExtendUI32:     {"i64_extend_u_i32", ImmNone, -1},
	I64TruncSF32:      {"i64_trunc_s_f32", ImmNone, -1},
	I64TruncUF32:      {"i64_trunc_u_f32", ImmNone, -1},
	I64TruncSF64:      {"i64_trunc_s_f64", ImmNone, -1},
	I64TruncUF64:      {"i64_trunc_u_f64", ImmNone, -1},
	F32ConvertSI32:    {"f32_convert_s_i32", ImmNone, -1},
	F32ConvertUI32:    {"f32_convert_u_i32", ImmNone, -1},
	F32ConvertSI64:    {"f32_convert_s_i64", ImmNone, -1},
	F32ConvertUI64:    {"f32_convert_u_i64", ImmNone, -1},
	F32DemoteF64:      {"f32_demote_f64", ImmNone, -1},
	F64ConvertSI32:    {"f64_convert_s_i32", ImmNone, -1},
	F64ConvertUI32:    {"f64_convert_u_i32", ImmNone, -1},
	F64ConvertSI64:    {"f64_convert_s_i64", ImmNone, -1},
	F64ConvertUI64:    {"f64_convert_u_i64", ImmNone, -1},
	F64PromoteF32:     {"f64_promote_f32", ImmNone, -1},
	I32ReinterpretF32: {"i32_reinterpret_f32", ImmNone, -1},
	I64ReinterpretF64: {"i64_reinterpret_f64", ImmNone, -1},
	F32ReinterpretI32: {"f32_reinterpret_i32", ImmNone, -1},
	F64ReinterpretI64: {"f64_reinterpret_i64", ImmNone, -1},
}

// Lookup returns the Info for op and whether it is known.
func Lookup(op Opcode) (Info, bool) {
	info, ok := Table[op]
	return info, ok
}
