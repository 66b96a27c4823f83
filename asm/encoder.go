package asm

import (
	"strconv"
	"strings"

	"github.com/ripplevm/rasm/isa"
)

// Encoder turns a validated (opcode, operand-list) pair into an encoded
// instruction, enforcing per-format arity and numeric-range rules.
type Encoder struct {
	MaxImmediate uint32 // largest encodable immediate
	BankSize     uint16 // bank size, bounds J-format targets
}

// NewEncoder creates an Encoder with the given immediate bound and bank size.
func NewEncoder(maxImmediate uint32, bankSize uint16) *Encoder {
	return &Encoder{
		MaxImmediate: maxImmediate,
		BankSize:     bankSize,
	}
}

// Encode encodes op with its raw operand tokens.
func (enc *Encoder) Encode(op isa.Opcode, operands []string) (inst isa.Instruction, err error) {
	switch op.Format() {
	case isa.FORMAT_R:
		return enc.encodeR(op, operands)
	case isa.FORMAT_I:
		return enc.encodeI(op, operands)
	case isa.FORMAT_I1, isa.FORMAT_I2:
		return enc.encodeLI(op, operands)
	case isa.FORMAT_J:
		return enc.encodeJ(op, operands)
	}

	err = ErrMnemonicUnknown(op.String())
	return
}

func (enc *Encoder) encodeR(op isa.Opcode, operands []string) (inst isa.Instruction, err error) {
	// NOP with no operands is the HALT encoding; BRK with no operands is
	// the debugger-break encoding. Both are all-zero words.
	if (op == isa.NOP || op == isa.BRK) && len(operands) == 0 {
		inst = isa.NewInstruction(op, 0, 0, 0)
		return
	}

	// JALR accepts a 2-operand form with the middle register defaulted to
	// the zero register.
	if op == isa.JALR && len(operands) == 2 {
		operands = []string{operands[0], "R0", operands[1]}
	}

	if len(operands) != 3 {
		err = ErrOperandArity{Mnemonic: op.String(), Want: "3", Got: len(operands)}
		return
	}

	var regs [3]uint16
	for n, operand := range operands {
		var reg isa.Register
		reg, err = enc.ParseRegister(operand)
		if err != nil {
			return
		}
		regs[n] = uint16(reg)
	}

	inst = isa.NewInstruction(op, regs[0], regs[1], regs[2])
	return
}

func (enc *Encoder) encodeI(op isa.Opcode, operands []string) (inst isa.Instruction, err error) {
	if len(operands) != 3 {
		err = ErrOperandArity{Mnemonic: op.String(), Want: "3", Got: len(operands)}
		return
	}

	var words [3]uint16
	regs := op.RegOperands()
	for n, operand := range operands {
		if regs[n] {
			var reg isa.Register
			reg, err = enc.ParseRegister(operand)
			if err != nil {
				// LOAD/STORE bank and address slots also accept
				// numeric values (label fixup placeholders).
				if n > 0 && (op == isa.LOAD || op == isa.STORE) {
					words[n], err = enc.ParseImmediate(operand)
				}
				if err != nil {
					return
				}
				continue
			}
			words[n] = uint16(reg)
			continue
		}
		words[n], err = enc.ParseImmediate(operand)
		if err != nil {
			return
		}
	}

	inst = isa.NewInstruction(op, words[0], words[1], words[2])
	return
}

// encodeLI handles LI's I1 form (rd, imm) and its irregular I2 wide form
// (rd, immHigh, immLow).
func (enc *Encoder) encodeLI(op isa.Opcode, operands []string) (inst isa.Instruction, err error) {
	if len(operands) != 2 && len(operands) != 3 {
		err = ErrOperandArity{Mnemonic: op.String(), Want: "2 or 3", Got: len(operands)}
		return
	}

	reg, err := enc.ParseRegister(operands[0])
	if err != nil {
		return
	}

	imm, err := enc.ParseImmediate(operands[1])
	if err != nil {
		return
	}

	var low uint16
	if len(operands) == 3 {
		low, err = enc.ParseImmediate(operands[2])
		if err != nil {
			return
		}
	}

	inst = isa.NewInstruction(op, uint16(reg), imm, low)
	return
}

func (enc *Encoder) encodeJ(op isa.Opcode, operands []string) (inst isa.Instruction, err error) {
	if len(operands) != 1 {
		err = ErrOperandArity{Mnemonic: op.String(), Want: "1", Got: len(operands)}
		return
	}

	value, err := parseNumber(operands[0])
	if err != nil {
		return
	}
	if value >= uint32(enc.BankSize) {
		err = ErrBankRange{Value: value, BankSize: enc.BankSize}
		return
	}

	inst = isa.NewInstruction(op, 0, 0, uint16(value))
	return
}

// ParseRegister resolves a register name to its index.
func (enc *Encoder) ParseRegister(operand string) (reg isa.Register, err error) {
	reg, ok := isa.RegisterFromString(operand)
	if !ok {
		err = ErrRegisterInvalid(operand)
	}
	return
}

// ParseImmediate parses a numeric operand and checks it against the
// configured immediate bound. Negative decimal values wrap to 16-bit two's
// complement.
func (enc *Encoder) ParseImmediate(operand string) (imm uint16, err error) {
	if strings.HasPrefix(operand, "-") {
		var value int64
		value, err = strconv.ParseInt(operand, 10, 32)
		if err != nil {
			err = ErrParseNumber(operand)
			return
		}
		imm = uint16(value)
		return
	}

	value, err := parseNumber(operand)
	if err != nil {
		return
	}
	if value > enc.MaxImmediate {
		err = ErrImmediateRange{Value: value, Max: enc.MaxImmediate}
		return
	}

	imm = uint16(value)
	return
}

// parseNumber parses an unsigned decimal, 0x hex, or 0b binary literal.
func parseNumber(operand string) (value uint32, err error) {
	base := 10
	digits := operand
	switch {
	case strings.HasPrefix(operand, "0x"), strings.HasPrefix(operand, "0X"):
		base = 16
		digits = operand[2:]
	case strings.HasPrefix(operand, "0b"), strings.HasPrefix(operand, "0B"):
		base = 2
		digits = operand[2:]
	}

	v64, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		err = ErrParseNumber(operand)
		return
	}

	value = uint32(v64)
	return
}

// isNumber reports whether operand parses as a numeric literal.
func isNumber(operand string) bool {
	if strings.HasPrefix(operand, "-") {
		_, err := strconv.ParseInt(operand, 10, 32)
		return err == nil
	}
	_, err := parseNumber(operand)
	return err == nil
}
