package asm

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// VirtualInstruction expands a pseudo-mnemonic into real instruction lines
// before encoding.
type VirtualInstruction interface {
	Name() string
	Expand(operands []string) ([]ParsedLine, error)
}

// VirtualRegistry holds the known virtual instructions, keyed by mnemonic.
type VirtualRegistry struct {
	instructions map[string]VirtualInstruction
}

// NewVirtualRegistry creates a registry with the built-in pseudo
// instructions installed.
func NewVirtualRegistry() (reg *VirtualRegistry) {
	reg = &VirtualRegistry{
		instructions: make(map[string]VirtualInstruction),
	}

	for _, def := range builtinVirtuals {
		reg.Register(def)
	}

	return
}

// Register installs (or replaces) a virtual instruction.
func (reg *VirtualRegistry) Register(vi VirtualInstruction) {
	reg.instructions[strings.ToUpper(vi.Name())] = vi
}

// Get looks a virtual instruction up by mnemonic.
func (reg *VirtualRegistry) Get(name string) (vi VirtualInstruction, ok bool) {
	vi, ok = reg.instructions[strings.ToUpper(name)]
	return
}

// Names returns the sorted mnemonics of all registered virtual instructions.
func (reg *VirtualRegistry) Names() (names []string) {
	for name := range reg.instructions {
		names = append(names, name)
	}
	slices.Sort(names)
	return
}

// virtualDef is a name plus expansion function; all built-ins use it.
type virtualDef struct {
	name   string
	expand func(operands []string) ([]ParsedLine, error)
}

func (def virtualDef) Name() string { return def.name }

func (def virtualDef) Expand(operands []string) ([]ParsedLine, error) {
	return def.expand(operands)
}

func line(mnemonic string, operands ...string) ParsedLine {
	return ParsedLine{Mnemonic: mnemonic, Operands: operands}
}

func wantArity(name string, want int, operands []string) error {
	if len(operands) != want {
		return ErrOperandArity{Mnemonic: name, Want: fmt.Sprintf("%d", want), Got: len(operands)}
	}
	return nil
}

var builtinVirtuals = []virtualDef{
	{"MOVE", func(ops []string) ([]ParsedLine, error) {
		if err := wantArity("MOVE", 2, ops); err != nil {
			return nil, err
		}
		return []ParsedLine{line("ADD", ops[0], ops[1], "R0")}, nil
	}},
	{"PUSH", func(ops []string) ([]ParsedLine, error) {
		if err := wantArity("PUSH", 1, ops); err != nil {
			return nil, err
		}
		return []ParsedLine{
			line("ADDI", "SP", "SP", "-1"),
			line("STORE", ops[0], "SB", "SP"),
		}, nil
	}},
	{"POP", func(ops []string) ([]ParsedLine, error) {
		if err := wantArity("POP", 1, ops); err != nil {
			return nil, err
		}
		return []ParsedLine{
			line("LOAD", ops[0], "SB", "SP"),
			line("ADDI", "SP", "SP", "1"),
		}, nil
	}},
	{"CALL", func(ops []string) ([]ParsedLine, error) {
		if err := wantArity("CALL", 1, ops); err != nil {
			return nil, err
		}
		return []ParsedLine{line("JAL", ops[0])}, nil
	}},
	{"RET", func(ops []string) ([]ParsedLine, error) {
		if err := wantArity("RET", 0, ops); err != nil {
			return nil, err
		}
		return []ParsedLine{line("JALR", "R0", "R0", "RA")}, nil
	}},
	{"INC", func(ops []string) ([]ParsedLine, error) {
		if err := wantArity("INC", 1, ops); err != nil {
			return nil, err
		}
		return []ParsedLine{line("ADDI", ops[0], ops[0], "1")}, nil
	}},
	{"DEC", func(ops []string) ([]ParsedLine, error) {
		if err := wantArity("DEC", 1, ops); err != nil {
			return nil, err
		}
		return []ParsedLine{line("ADDI", ops[0], ops[0], "-1")}, nil
	}},
	{"NEG", func(ops []string) ([]ParsedLine, error) {
		if err := wantArity("NEG", 1, ops); err != nil {
			return nil, err
		}
		return []ParsedLine{line("SUB", ops[0], "R0", ops[0])}, nil
	}},
	{"NOT", func(ops []string) ([]ParsedLine, error) {
		if err := wantArity("NOT", 1, ops); err != nil {
			return nil, err
		}
		return []ParsedLine{line("XORI", ops[0], ops[0], "0xFFFF")}, nil
	}},
	{"SUBI", func(ops []string) ([]ParsedLine, error) {
		if err := wantArity("SUBI", 3, ops); err != nil {
			return nil, err
		}
		value, err := strconv.ParseInt(ops[2], 0, 32)
		if err != nil {
			return nil, ErrParseNumber(ops[2])
		}
		// Subtraction by adding the 16-bit complement.
		imm := (65536 - value) % 65536
		return []ParsedLine{line("ADDI", ops[0], ops[1], fmt.Sprintf("%d", imm))}, nil
	}},
}
