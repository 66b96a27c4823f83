package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ripplevm/rasm/isa"
)

func testEncoder() *Encoder {
	return NewEncoder(isa.DefaultMaxImmediate, isa.DefaultBankSize)
}

func TestEncodeRegister(t *testing.T) {
	assert := assert.New(t)

	enc := testEncoder()

	inst, err := enc.Encode(isa.ADD, []string{"T0", "T1", "T2"})
	assert.NoError(err)
	assert.Equal(isa.NewInstruction(isa.ADD, 15, 16, 17), inst)

	_, err = enc.Encode(isa.ADD, []string{"T0", "T1"})
	assert.ErrorContains(err, "requires 3 operands")

	_, err = enc.Encode(isa.ADD, []string{"T0", "T1", "T9"})
	assert.ErrorContains(err, "invalid register")
}

func TestEncodeHaltAndBreak(t *testing.T) {
	assert := assert.New(t)

	enc := testEncoder()

	inst, err := enc.Encode(isa.NOP, nil)
	assert.NoError(err)
	assert.True(inst.IsHalt())

	inst, err = enc.Encode(isa.BRK, nil)
	assert.NoError(err)
	assert.True(inst.IsBreak())
}

func TestEncodeJALRShortForm(t *testing.T) {
	assert := assert.New(t)

	enc := testEncoder()

	inst, err := enc.Encode(isa.JALR, []string{"RA", "T0"})
	assert.NoError(err)
	assert.Equal(isa.NewInstruction(isa.JALR, uint16(isa.RA), uint16(isa.R0), uint16(isa.T0)), inst)

	full, err := enc.Encode(isa.JALR, []string{"RA", "R0", "T0"})
	assert.NoError(err)
	assert.Equal(inst, full)
}

func TestEncodeImmediate(t *testing.T) {
	assert := assert.New(t)

	enc := testEncoder()

	inst, err := enc.Encode(isa.ADDI, []string{"T0", "T0", "0x10"})
	assert.NoError(err)
	assert.Equal(uint16(16), inst.Word3)

	inst, err = enc.Encode(isa.ADDI, []string{"T0", "T0", "-1"})
	assert.NoError(err)
	assert.Equal(uint16(0xFFFF), inst.Word3)

	// The range check is exact: the maximum itself still encodes.
	inst, err = enc.Encode(isa.ADDI, []string{"T0", "T0", "65535"})
	assert.NoError(err)
	assert.Equal(uint16(0xFFFF), inst.Word3)

	_, err = enc.Encode(isa.ADDI, []string{"T0", "T0", "65536"})
	assert.ErrorContains(err, "exceeds maximum")

	_, err = enc.Encode(isa.ADDI, []string{"T0", "T0", "70000"})
	assert.ErrorContains(err, "exceeds maximum")

	_, err = enc.Encode(isa.ADDI, []string{"T0", "T0", "fish"})
	assert.ErrorContains(err, "not a number")
}

func TestEncodeLoadImmediate(t *testing.T) {
	assert := assert.New(t)

	enc := testEncoder()

	inst, err := enc.Encode(isa.LI, []string{"A0", "257"})
	assert.NoError(err)
	assert.Equal(isa.NewInstruction(isa.LI, uint16(isa.A0), 257, 0), inst)

	// Wide form carries high and low halves.
	inst, err = enc.Encode(isa.LI, []string{"A0", "1", "2"})
	assert.NoError(err)
	assert.Equal(isa.NewInstruction(isa.LI, uint16(isa.A0), 1, 2), inst)

	_, err = enc.Encode(isa.LI, []string{"A0"})
	assert.ErrorContains(err, "requires 2 or 3 operands")
}

func TestEncodeLoadStore(t *testing.T) {
	assert := assert.New(t)

	enc := testEncoder()

	inst, err := enc.Encode(isa.STORE, []string{"T0", "SB", "SP"})
	assert.NoError(err)
	assert.Equal(isa.NewInstruction(isa.STORE, uint16(isa.T0), uint16(isa.SB), uint16(isa.SP)), inst)

	// Bank and address slots accept numeric placeholders.
	inst, err = enc.Encode(isa.LOAD, []string{"T0", "0", "42"})
	assert.NoError(err)
	assert.Equal(isa.NewInstruction(isa.LOAD, uint16(isa.T0), 0, 42), inst)

	_, err = enc.Encode(isa.LOAD, []string{"7", "0", "42"})
	assert.ErrorContains(err, "invalid register")
}

func TestEncodeJump(t *testing.T) {
	assert := assert.New(t)

	enc := testEncoder()

	inst, err := enc.Encode(isa.JAL, []string{"12"})
	assert.NoError(err)
	assert.Equal(isa.NewInstruction(isa.JAL, 0, 0, 12), inst)

	// The last word of the bank is still a valid target.
	inst, err = enc.Encode(isa.JAL, []string{"15"})
	assert.NoError(err)
	assert.Equal(uint16(15), inst.Word3)

	_, err = enc.Encode(isa.JAL, []string{"16"})
	assert.ErrorContains(err, "outside bank")
}

func TestParseNumberBases(t *testing.T) {
	assert := assert.New(t)

	for _, tc := range []struct {
		text  string
		value uint32
	}{
		{"10", 10},
		{"0x10", 16},
		{"0X10", 16},
		{"0b101", 5},
		{"0", 0},
	} {
		value, err := parseNumber(tc.text)
		assert.NoError(err, tc.text)
		assert.Equal(tc.value, value, tc.text)
	}

	assert.True(isNumber("-5"))
	assert.False(isNumber("loop"))
}
