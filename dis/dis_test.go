package dis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ripplevm/rasm/isa"
)

func TestInstruction(t *testing.T) {
	assert := assert.New(t)

	for _, tc := range []struct {
		inst isa.Instruction
		text string
	}{
		{isa.NewInstruction(isa.NOP, 0, 0, 0), "HALT"},
		{isa.NewInstruction(isa.BRK, 0, 0, 0), "BRK"},
		{isa.NewInstruction(isa.ADD, 15, 16, 17), "ADD T0, T1, T2"},
		{isa.NewInstruction(isa.ADDI, 15, 15, 0xFFFF), "ADDI T0, T0, 65535"},
		{isa.NewInstruction(isa.LI, 7, 65, 0), "LI A0, 65"},
		{isa.NewInstruction(isa.LI, 7, 1, 2), "LI A0, 1, 2"},
		{isa.NewInstruction(isa.JAL, 0, 0, 12), "JAL 12"},
		{isa.NewInstruction(isa.JAL, 0, 1, 4), "JAL 1, 4"},
		{isa.NewInstruction(isa.BEQ, 15, 0, 8), "BEQ T0, R0, 8"},
		{isa.NewInstruction(isa.LOAD, 15, 28, 29), "LOAD T0, SB, SP"},
	} {
		assert.Equal(tc.text, Instruction(tc.inst), tc.text)
	}
}

func TestInstructionUnknown(t *testing.T) {
	assert := assert.New(t)

	inst := isa.Instruction{Opcode: 0x7F, Word0: 0x7F, Word1: 1, Word2: 2, Word3: 3}
	assert.Equal("UNKNOWN 7f 7f 0001 0002 0003", Instruction(inst))

	// Out-of-range register slots fall back to decimal.
	assert.Equal("ADD 40, T1, T2", Instruction(isa.NewInstruction(isa.ADD, 40, 16, 17)))
}

func TestListing(t *testing.T) {
	assert := assert.New(t)

	text := Listing([]isa.Instruction{
		isa.NewInstruction(isa.LI, 15, 5, 0),
		isa.NewInstruction(isa.NOP, 0, 0, 0),
		isa.NewInstruction(isa.ADD, 15, 15, 15),
		isa.NewInstruction(isa.ADD, 15, 15, 15),
		isa.NewInstruction(isa.ADD, 15, 15, 15),
	}, isa.DefaultBankSize)

	assert.Equal(`00:00  LI T0, 5
00:04  HALT
00:08  ADD T0, T0, T0
00:12  ADD T0, T0, T0
01:00  ADD T0, T0, T0
`, text)
}
