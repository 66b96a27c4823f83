package asm

import (
	"errors"

	"github.com/ripplevm/rasm/translate"
)

var f = translate.From

var (
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrStringUnquoted  = errors.New(f("string literal not quoted"))
)

// ErrSyntax wraps any per-line failure with the line number and raw text.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrOperandArity reports a wrong operand count for an opcode's format.
type ErrOperandArity struct {
	Mnemonic string
	Want     string
	Got      int
}

func (err ErrOperandArity) Error() string {
	return f("%v requires %v operands, got %d", err.Mnemonic, err.Want, err.Got)
}

// ErrImmediateRange reports an immediate outside the configured bound.
type ErrImmediateRange struct {
	Value uint32
	Max   uint32
}

func (err ErrImmediateRange) Error() string {
	return f("immediate value %d exceeds maximum %d", err.Value, err.Max)
}

// ErrBankRange reports a bank-local address outside the bank.
type ErrBankRange struct {
	Value    uint32
	BankSize uint16
}

func (err ErrBankRange) Error() string {
	return f("bank-local address %d outside bank of %d words", err.Value, err.BankSize)
}

// ErrBranchCrossBank reports a branch whose target lives outside the bank
// of the branch instruction itself. Branches carry only a bank-local
// offset, so such control flow must go through JAL instead.
type ErrBranchCrossBank struct {
	Label    string
	From, To uint16
}

func (err ErrBranchCrossBank) Error() string {
	return f("branch to '%v' crosses banks (bank %d to bank %d)", err.Label, err.From, err.To)
}

// ErrLabelOperands reports an instruction naming more than one label; only
// a single operand per instruction can be fixed up.
type ErrLabelOperands struct {
	First  string
	Second string
}

func (err ErrLabelOperands) Error() string {
	return f("instruction references both '%v' and '%v', only one label operand is allowed", err.First, err.Second)
}

type ErrLabelDuplicate string

func (err ErrLabelDuplicate) Error() string {
	return f("label '%v' already defined", string(err))
}

type ErrMnemonicUnknown string

func (err ErrMnemonicUnknown) Error() string {
	return f("unknown instruction: %v", string(err))
}

type ErrDirectiveUnknown string

func (err ErrDirectiveUnknown) Error() string {
	return f("unknown directive: .%v", string(err))
}

type ErrRegisterInvalid string

func (err ErrRegisterInvalid) Error() string {
	return f("invalid register: %v", string(err))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character literal", string(err))
}
