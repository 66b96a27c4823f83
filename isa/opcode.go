package isa

import (
	"slices"
	"strings"
	"sync"
)

// Opcode is a Ripple machine opcode.
type Opcode byte

const (
	NOP   = Opcode(0x00)
	ADD   = Opcode(0x01)
	SUB   = Opcode(0x02)
	AND   = Opcode(0x03)
	OR    = Opcode(0x04)
	XOR   = Opcode(0x05)
	SLL   = Opcode(0x06)
	SRL   = Opcode(0x07)
	SLT   = Opcode(0x08)
	SLTU  = Opcode(0x09)
	ADDI  = Opcode(0x0A)
	ANDI  = Opcode(0x0B)
	ORI   = Opcode(0x0C)
	XORI  = Opcode(0x0D)
	LI    = Opcode(0x0E)
	SLLI  = Opcode(0x0F)
	SRLI  = Opcode(0x10)
	LOAD  = Opcode(0x11)
	STORE = Opcode(0x12)
	JAL   = Opcode(0x13)
	JALR  = Opcode(0x14)
	BEQ   = Opcode(0x15)
	BNE   = Opcode(0x16)
	BLT   = Opcode(0x17)
	BGE   = Opcode(0x18)
	BRK   = Opcode(0x19)
	MUL   = Opcode(0x1A)
	DIV   = Opcode(0x1B)
	MOD   = Opcode(0x1C)
	MULI  = Opcode(0x1D)
	DIVI  = Opcode(0x1E)
	MODI  = Opcode(0x1F)
)

// Format is the operand-slot interpretation of an opcode.
type Format int

const (
	FORMAT_R  = Format(0) // rd, rs, rt
	FORMAT_I  = Format(1) // rd, rs, imm
	FORMAT_I1 = Format(2) // rd, imm
	FORMAT_I2 = Format(3) // rd, imm, imm
	FORMAT_J  = Format(4) // bank-local address
)

type opcodeInfo struct {
	name   string
	format Format
}

// opcodeMap is the canonical opcode table.
var opcodeMap = map[Opcode]opcodeInfo{
	NOP:   {"NOP", FORMAT_R},
	ADD:   {"ADD", FORMAT_R},
	SUB:   {"SUB", FORMAT_R},
	AND:   {"AND", FORMAT_R},
	OR:    {"OR", FORMAT_R},
	XOR:   {"XOR", FORMAT_R},
	SLL:   {"SLL", FORMAT_R},
	SRL:   {"SRL", FORMAT_R},
	SLT:   {"SLT", FORMAT_R},
	SLTU:  {"SLTU", FORMAT_R},
	ADDI:  {"ADDI", FORMAT_I},
	ANDI:  {"ANDI", FORMAT_I},
	ORI:   {"ORI", FORMAT_I},
	XORI:  {"XORI", FORMAT_I},
	LI:    {"LI", FORMAT_I1},
	SLLI:  {"SLLI", FORMAT_I},
	SRLI:  {"SRLI", FORMAT_I},
	LOAD:  {"LOAD", FORMAT_I},
	STORE: {"STORE", FORMAT_I},
	JAL:   {"JAL", FORMAT_J},
	JALR:  {"JALR", FORMAT_R},
	BEQ:   {"BEQ", FORMAT_I},
	BNE:   {"BNE", FORMAT_I},
	BLT:   {"BLT", FORMAT_I},
	BGE:   {"BGE", FORMAT_I},
	BRK:   {"BRK", FORMAT_R},
	MUL:   {"MUL", FORMAT_R},
	DIV:   {"DIV", FORMAT_R},
	MOD:   {"MOD", FORMAT_R},
	MULI:  {"MULI", FORMAT_I},
	DIVI:  {"DIVI", FORMAT_I},
	MODI:  {"MODI", FORMAT_I},
}

// regOverride marks opcodes whose operand slots deviate from their format's
// default register layout. LOAD and STORE are table-classified FORMAT_I but
// carry registers in all three slots.
var regOverride = map[Opcode][3]bool{
	LOAD:  {true, true, true},
	STORE: {true, true, true},
}

// formatRegs is the default register layout per format.
var formatRegs = map[Format][3]bool{
	FORMAT_R:  {true, true, true},
	FORMAT_I:  {true, true, false},
	FORMAT_I1: {true, false, false},
	FORMAT_I2: {true, false, false},
	FORMAT_J:  {false, false, false},
}

// Valid reports whether op is a defined opcode.
func (op Opcode) Valid() (ok bool) {
	_, ok = opcodeMap[op]
	return
}

// String returns the opcode mnemonic, or "UNKNOWN" for undefined values.
func (op Opcode) String() (name string) {
	info, ok := opcodeMap[op]
	if !ok {
		return "UNKNOWN"
	}
	return info.name
}

// Format returns the operand format of the opcode.
func (op Opcode) Format() Format {
	return opcodeMap[op].format
}

// RegOperands reports which of the three operand slots hold register
// indexes, applying the per-opcode overrides on top of the format defaults.
func (op Opcode) RegOperands() (regs [3]bool) {
	regs, ok := regOverride[op]
	if ok {
		return
	}
	regs = formatRegs[op.Format()]
	return
}

var mnemonicMap = sync.OnceValue(func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeMap))
	for op, info := range opcodeMap {
		m[info.name] = op
	}
	return m
})

// OpcodeFromString looks a mnemonic up, case-insensitively.
func OpcodeFromString(name string) (op Opcode, ok bool) {
	op, ok = mnemonicMap()[strings.ToUpper(name)]
	return
}

var mnemonicList = sync.OnceValue(func() []string {
	names := make([]string, 0, len(opcodeMap))
	for _, info := range opcodeMap {
		names = append(names, info.name)
	}
	slices.Sort(names)
	return names
})

// Mnemonics returns the sorted list of all opcode mnemonics.
func Mnemonics() []string {
	return slices.Clone(mnemonicList())
}
