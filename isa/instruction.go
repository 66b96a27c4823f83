package isa

// Memory geometry and encoding defaults.
const (
	DefaultBankSize     = uint16(16)    // words per bank
	InstructionSize     = uint16(4)     // words per instruction
	DefaultMaxImmediate = uint32(65535) // largest encodable immediate
	DefaultDataOffset   = uint16(2)     // data bytes reserved for VM special values
)

// Instruction is one encoded machine instruction: an opcode plus three
// operand words. Word0 duplicates the opcode byte in the stored encoding.
// Instances are immutable once produced by the encoder; the linker patches
// operand words only through its relocation pass.
type Instruction struct {
	Opcode byte   `json:"opcode"`
	Word0  byte   `json:"word0"`
	Word1  uint16 `json:"word1"`
	Word2  uint16 `json:"word2"`
	Word3  uint16 `json:"word3"`
}

// NewInstruction builds an instruction for op with the given operand words.
func NewInstruction(op Opcode, word1, word2, word3 uint16) Instruction {
	return Instruction{
		Opcode: byte(op),
		Word0:  byte(op),
		Word1:  word1,
		Word2:  word2,
		Word3:  word3,
	}
}

// IsHalt reports the HALT convention: NOP with all-zero operands.
func (inst Instruction) IsHalt() bool {
	return Opcode(inst.Opcode) == NOP && inst.Word1 == 0 && inst.Word2 == 0 && inst.Word3 == 0
}

// IsBreak reports the debugger break convention: BRK with all-zero operands.
func (inst Instruction) IsBreak() bool {
	return Opcode(inst.Opcode) == BRK && inst.Word1 == 0 && inst.Word2 == 0 && inst.Word3 == 0
}
