package isa

// opcodeDesc is the one-line semantics of each opcode, for reference
// listings.
var opcodeDesc = map[Opcode]string{
	NOP:   "No operation",
	ADD:   "rd = rs1 + rs2",
	SUB:   "rd = rs1 - rs2",
	AND:   "rd = rs1 & rs2",
	OR:    "rd = rs1 | rs2",
	XOR:   "rd = rs1 ^ rs2",
	SLL:   "rd = rs1 << rs2",
	SRL:   "rd = rs1 >> rs2",
	SLT:   "rd = (rs1 < rs2) ? 1 : 0 (signed)",
	SLTU:  "rd = (rs1 < rs2) ? 1 : 0 (unsigned)",
	ADDI:  "rd = rs + imm",
	ANDI:  "rd = rs & imm",
	ORI:   "rd = rs | imm",
	XORI:  "rd = rs ^ imm",
	LI:    "rd = imm",
	SLLI:  "rd = rs << imm",
	SRLI:  "rd = rs >> imm",
	LOAD:  "rd = memory[bank][addr]",
	STORE: "memory[bank][addr] = rs",
	JAL:   "RA = PC + 1; PC = target",
	JALR:  "rd = PC + 1; PC = rs + target",
	BEQ:   "if (rs1 == rs2) PC = offset",
	BNE:   "if (rs1 != rs2) PC = offset",
	BLT:   "if (rs1 < rs2) PC = offset",
	BGE:   "if (rs1 >= rs2) PC = offset",
	BRK:   "Break to debugger",
	MUL:   "rd = rs1 * rs2",
	DIV:   "rd = rs1 / rs2",
	MOD:   "rd = rs1 % rs2",
	MULI:  "rd = rs * imm",
	DIVI:  "rd = rs / imm",
	MODI:  "rd = rs % imm",
}

// Describe returns the one-line semantics of the opcode.
func (op Opcode) Describe() string {
	return opcodeDesc[op]
}

// OperandHint returns the operand shape of the opcode for reference
// listings, empty for opcodes taking no operands.
func (op Opcode) OperandHint() string {
	switch op {
	case NOP, BRK:
		return ""
	case JALR:
		return "rd, bank, target"
	case LOAD:
		return "rd, bank, addr"
	case STORE:
		return "rs, bank, addr"
	case BEQ, BNE, BLT, BGE:
		return "rs1, rs2, label"
	case LI:
		return "rd, imm"
	case JAL:
		return "target"
	}

	switch op.Format() {
	case FORMAT_R:
		return "rd, rs1, rs2"
	default:
		return "rd, rs, imm"
	}
}
