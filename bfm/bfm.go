// Package bfm renders instruction streams as the macro DSL consumed by the
// logic-simulation build of the Ripple CPU. Instructions become @cmd(...)
// invocations, the data segment becomes an @lane memory initializer, and the
// whole program nests inside @prg(...).
package bfm

import (
	"fmt"
	"strings"

	"github.com/ripplevm/rasm/isa"
)

// Formatter renders programs in the macro DSL.
type Formatter struct{}

// New creates a Formatter.
func New() *Formatter {
	return &Formatter{}
}

// opMacro names the opcode macro for an instruction. The all-zero NOP
// renders as the HALT macro, and STORE's macro name is truncated to fit the
// DSL's four-letter convention.
func opMacro(inst isa.Instruction) string {
	if inst.IsHalt() {
		return "@OP_HALT"
	}
	op := isa.Opcode(inst.Opcode)
	if op == isa.STORE {
		return "@OP_STOR"
	}
	if !op.Valid() {
		return fmt.Sprintf("0x%02X", inst.Opcode)
	}
	return "@OP_" + op.String()
}

// operand renders one operand word: register slots as #NAME macros,
// literal slots as decimal.
func operand(word uint16, isReg bool) string {
	if isReg {
		reg := isa.Register(word)
		if reg.Valid() {
			return "#" + reg.String()
		}
	}
	return fmt.Sprintf("%d", word)
}

// Instruction renders one instruction as a @cmd invocation. The first
// instruction of a program uses the @program_start macro instead.
func (fm *Formatter) Instruction(inst isa.Instruction, first bool) string {
	cmd := "@cmd"
	if first {
		cmd = "@program_start"
	}

	op := isa.Opcode(inst.Opcode)
	regs := op.RegOperands()
	if op == isa.NOP || op == isa.BRK {
		// NOP and BRK carry no meaningful operands; render literals.
		regs = [3]bool{}
	}
	words := [3]uint16{inst.Word1, inst.Word2, inst.Word3}

	var operands [3]string
	for n, word := range words {
		operands[n] = operand(word, regs[n])
	}

	return fmt.Sprintf("%v(%-10v, %-4v, %-4v, %v)",
		cmd, opMacro(inst), operands[0], operands[1], operands[2])
}

// Program renders the instruction stream, terminated by @program_end.
// Comments, keyed by instruction index, append after the invocation.
func (fm *Formatter) Program(instructions []isa.Instruction, comments map[int]string) string {
	var lines []string
	for n, inst := range instructions {
		text := fm.Instruction(inst, n == 0)
		if comment, ok := comments[n]; ok {
			text += "        // " + comment
		}
		lines = append(lines, text)
	}
	lines = append(lines, "@program_end")

	return strings.Join(lines, "\n")
}

// dataValue renders one data byte. High values render as hex, as do round
// multiples of 16; printable ASCII renders as a quoted character.
func dataValue(b byte) string {
	switch {
	case b >= 128:
		return fmt.Sprintf("0x%02X", b)
	case b > 15 && b%16 == 0:
		return fmt.Sprintf("0x%02X", b)
	case b == '\'':
		return `'\''`
	case b == '\\':
		return `'\\'`
	case b >= 32 && b <= 126:
		return fmt.Sprintf("'%c'", b)
	default:
		return fmt.Sprintf("%d", b)
	}
}

// Data renders the data segment as an @lane memory initializer walking the
// values into consecutive words.
func (fm *Formatter) Data(data []byte) string {
	values := make([]string, len(data))
	for n, b := range data {
		values[n] = dataValue(b)
	}

	return strings.Join([]string{
		"@lane(#L_MEM,",
		fmt.Sprintf("  {for(s in {%v}, @set(s) @nextword)}", strings.Join(values, ",")),
		")",
	}, "\n")
}

// Full renders a complete @prg block: the data segment (or @nop when
// empty), then the instruction stream. A non-empty header renders as a
// leading comment line.
func (fm *Formatter) Full(instructions []isa.Instruction, data []byte, comments map[int]string, header string) string {
	var lines []string

	if header != "" {
		lines = append(lines, "// "+header, "")
	}

	lines = append(lines, "@prg(")

	if len(data) > 0 {
		lines = append(lines, "  // Memory")
		for _, line := range strings.Split(fm.Data(data), "\n") {
			if line == ")" {
				line = "),"
			}
			lines = append(lines, "  "+line)
		}
		lines = append(lines, "")
	} else {
		lines = append(lines, "  @nop,", "")
	}

	if len(instructions) > 0 {
		lines = append(lines, "  // Program")
		for _, line := range strings.Split(fm.Program(instructions, comments), "\n") {
			lines = append(lines, "  "+line)
		}
	} else {
		lines = append(lines, "  @nop")
	}

	lines = append(lines, ")")

	return strings.Join(lines, "\n")
}

// Standalone wraps the rendered program with caller-supplied header and
// footer template text, indenting the body to sit inside the template's
// enclosing block.
func (fm *Formatter) Standalone(header, footer string, instructions []isa.Instruction, data []byte, title string) string {
	var out strings.Builder

	out.WriteString(header)
	if !strings.HasSuffix(header, "\n") {
		out.WriteByte('\n')
	}

	for _, line := range strings.Split(fm.Full(instructions, data, nil, title), "\n") {
		if line == "" {
			out.WriteByte('\n')
			continue
		}
		out.WriteString("  ")
		out.WriteString(line)
		out.WriteByte('\n')
	}

	out.WriteString(footer)

	return out.String()
}
