// Package dis renders encoded instructions back into assembly text. The
// renderer is total: any word pattern produces a line, with undefined
// opcodes falling back to a raw hex dump.
package dis

import (
	"fmt"
	"strings"

	"github.com/ripplevm/rasm/isa"
)

// operand renders one operand slot as a register name when the slot is a
// register per the opcode's format, decimal otherwise. Out-of-range
// register indices fall back to decimal.
func operand(word uint16, isReg bool) string {
	if isReg {
		reg := isa.Register(word)
		if reg.Valid() {
			return reg.String()
		}
	}
	return fmt.Sprintf("%d", word)
}

// Instruction disassembles a single instruction.
func Instruction(inst isa.Instruction) string {
	if inst.IsHalt() {
		return "HALT"
	}
	if inst.IsBreak() {
		return "BRK"
	}

	op := isa.Opcode(inst.Opcode)
	if !op.Valid() {
		return fmt.Sprintf("UNKNOWN %02x %02x %04x %04x %04x",
			inst.Opcode, inst.Word0, inst.Word1, inst.Word2, inst.Word3)
	}

	words := [3]uint16{inst.Word1, inst.Word2, inst.Word3}

	var operands []string
	switch op.Format() {
	case isa.FORMAT_J:
		if inst.Word2 != 0 {
			operands = []string{operand(inst.Word2, false), operand(inst.Word3, false)}
		} else {
			operands = []string{operand(inst.Word3, false)}
		}
	case isa.FORMAT_I1, isa.FORMAT_I2:
		operands = []string{operand(inst.Word1, true), operand(inst.Word2, false)}
		if inst.Word3 != 0 {
			operands = append(operands, operand(inst.Word3, false))
		}
	default:
		regs := op.RegOperands()
		for n, word := range words {
			operands = append(operands, operand(word, regs[n]))
		}
	}

	if len(operands) == 0 {
		return op.String()
	}
	return op.String() + " " + strings.Join(operands, ", ")
}

// Listing disassembles a whole instruction stream as a bank-annotated
// listing.
func Listing(instructions []isa.Instruction, bankSize uint16) string {
	var out strings.Builder
	for n, inst := range instructions {
		addr := uint32(n) * uint32(isa.InstructionSize)
		bank := addr / uint32(bankSize)
		offset := addr % uint32(bankSize)
		fmt.Fprintf(&out, "%02d:%02d  %v\n", bank, offset, Instruction(inst))
	}
	return out.String()
}
