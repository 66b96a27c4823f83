package asm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLine(t *testing.T) {
	assert := assert.New(t)

	p := &Parser{CaseInsensitive: true}

	line := p.ParseLine("loop: add r5, r6, r7 ; comment", 3)
	assert.Equal("loop", line.Label)
	assert.Equal("ADD", line.Mnemonic)
	assert.Equal([]string{"r5", "r6", "r7"}, line.Operands)
	assert.Equal(3, line.LineNo)

	line = p.ParseLine("   ; comment only", 4)
	assert.True(line.Empty())

	line = p.ParseLine(".data", 5)
	assert.Equal("data", line.Directive)
	assert.Empty(line.DirectiveArgs)

	line = p.ParseLine("msg: .asciiz \"hi, there\"", 6)
	assert.Equal("msg", line.Label)
	assert.Equal("asciiz", line.Directive)
	assert.Equal([]string{`"hi, there"`}, line.DirectiveArgs)

	line = p.ParseLine("bare:", 7)
	assert.Equal("bare", line.Label)
	assert.Equal("", line.Mnemonic)
}

func TestParseComments(t *testing.T) {
	assert := assert.New(t)

	p := &Parser{CaseInsensitive: true}

	for _, text := range []string{
		"nop ; semicolon",
		"nop # hash",
		"nop // slashes",
	} {
		line := p.ParseLine(text, 1)
		assert.Equal("NOP", line.Mnemonic, text)
		assert.Empty(line.Operands, text)
	}
}

func TestParseStream(t *testing.T) {
	assert := assert.New(t)

	source := `
	; leading comment
	.equ COUNT 4

start:	li t0, COUNT
	nop
`
	p := &Parser{CaseInsensitive: true}
	lines, err := p.Parse(strings.NewReader(source))
	assert.NoError(err)
	assert.Len(lines, 3)
	assert.Equal("equ", lines[0].Directive)
	assert.Equal([]string{"COUNT", "4"}, lines[0].DirectiveArgs)
	assert.Equal("start", lines[1].Label)
	assert.Equal("LI", lines[1].Mnemonic)
	assert.Equal(6, lines[2].LineNo)
}

func TestParseMacroArgs(t *testing.T) {
	assert := assert.New(t)

	args := ParseMacroArgs("OP_ADD, #R5, #R6, #R7")
	assert.Equal([]string{"OP_ADD", "#R5", "#R6", "#R7"}, args)

	args = ParseMacroArgs("#L_MEM, {for(s in {1, 2, 3}, @set(s) @nextword)}")
	assert.Equal([]string{"#L_MEM", "{for(s in {1, 2, 3}, @set(s) @nextword)}"}, args)

	args = ParseMacroArgs(`@cmd(OP_LI, #R5, 'a', 0), tail`)
	assert.Equal([]string{`@cmd(OP_LI, #R5, 'a', 0)`, "tail"}, args)

	assert.Empty(ParseMacroArgs("   "))
}
