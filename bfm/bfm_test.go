package bfm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ripplevm/rasm/isa"
)

func TestInstruction(t *testing.T) {
	assert := assert.New(t)

	fm := New()

	text := fm.Instruction(isa.NewInstruction(isa.ADD, 15, 16, 17), false)
	assert.Equal("@cmd(@OP_ADD   , #T0 , #T1 , #T2)", text)

	text = fm.Instruction(isa.NewInstruction(isa.LI, 7, 65, 0), true)
	assert.Equal("@program_start(@OP_LI    , #A0 , 65  , 0)", text)

	text = fm.Instruction(isa.NewInstruction(isa.NOP, 0, 0, 0), false)
	assert.Equal("@cmd(@OP_HALT  , 0   , 0   , 0)", text)

	// STORE's macro keeps the four-letter name, with registers in all
	// three slots.
	text = fm.Instruction(isa.NewInstruction(isa.STORE, 15, 28, 29), false)
	assert.Equal("@cmd(@OP_STOR  , #T0 , #SB , #SP)", text)

	// Branch targets are literals.
	text = fm.Instruction(isa.NewInstruction(isa.BNE, 15, 0, 4), false)
	assert.Equal("@cmd(@OP_BNE   , #T0 , #R0 , 4)", text)
}

func TestDataValues(t *testing.T) {
	assert := assert.New(t)

	for _, tc := range []struct {
		value byte
		text  string
	}{
		{65, "'A'"},
		{200, "0xC8"},
		{32, "0x20"}, // multiple of 16 beats printable space
		{16, "0x10"},
		{15, "15"},
		{10, "10"},
		{0, "0"},
		{'\'', `'\''`},
		{'\\', `'\\'`},
		{255, "0xFF"},
	} {
		assert.Equal(tc.text, dataValue(tc.value), "value %d", tc.value)
	}
}

func TestData(t *testing.T) {
	assert := assert.New(t)

	text := New().Data([]byte{'H', 'i', 0})
	assert.Equal(`@lane(#L_MEM,
  {for(s in {'H','i',0}, @set(s) @nextword)}
)`, text)
}

func TestProgram(t *testing.T) {
	assert := assert.New(t)

	fm := New()
	text := fm.Program([]isa.Instruction{
		isa.NewInstruction(isa.LI, 15, 5, 0),
		isa.NewInstruction(isa.NOP, 0, 0, 0),
	}, map[int]string{0: "counter"})

	assert.Equal(`@program_start(@OP_LI    , #T0 , 5   , 0)        // counter
@cmd(@OP_HALT  , 0   , 0   , 0)
@program_end`, text)
}

func TestFull(t *testing.T) {
	assert := assert.New(t)

	fm := New()
	text := fm.Full([]isa.Instruction{
		isa.NewInstruction(isa.NOP, 0, 0, 0),
	}, []byte{65}, nil, "demo")

	assert.Equal(`// demo

@prg(
  // Memory
  @lane(#L_MEM,
    {for(s in {'A'}, @set(s) @nextword)}
  ),

  // Program
  @program_start(@OP_HALT  , 0   , 0   , 0)
  @program_end
)`, text)
}

func TestFullEmptyData(t *testing.T) {
	assert := assert.New(t)

	text := New().Full([]isa.Instruction{isa.NewInstruction(isa.NOP, 0, 0, 0)}, nil, nil, "")
	assert.Equal(`@prg(
  @nop,

  // Program
  @program_start(@OP_HALT  , 0   , 0   , 0)
  @program_end
)`, text)
}

func TestStandalone(t *testing.T) {
	assert := assert.New(t)

	text := New().Standalone("#define DEBUG 0\n", "#footer\n", nil, nil, "")
	assert.Equal(`#define DEBUG 0
  @prg(
    @nop,

    @nop
  )
#footer
`, text)
}
