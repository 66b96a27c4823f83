// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ripplevm/rasm/isa"
)

func assemble(t *testing.T, source string) *Object {
	t.Helper()

	asm := NewAssembler(DefaultOptions())
	obj, err := asm.Assemble(strings.NewReader(source))
	assert.NoError(t, err)
	assert.NotNil(t, obj)

	return obj
}

func TestAssembleBasic(t *testing.T) {
	assert := assert.New(t)

	obj := assemble(t, `
start:	li t0, 5
loop:	addi t0, t0, -1
	bne t0, r0, loop
	halt
`)

	assert.Empty(obj.Errors)
	assert.Len(obj.Instructions, 4)
	assert.Equal("start", obj.EntryPoint)

	assert.Equal(Label{Name: "start", Bank: 0, Offset: 0, AbsoluteAddress: 0}, obj.Labels["start"])
	assert.Equal(Label{Name: "loop", Bank: 0, Offset: 4, AbsoluteAddress: 4}, obj.Labels["loop"])

	// Backward branch patched to the bank-local offset of "loop".
	assert.Equal(uint16(4), obj.Instructions[2].Word3)
	assert.Equal(Reference{Label: "loop", Kind: RefBranch}, obj.Relocations[2])
	assert.Empty(obj.Unresolved)

	assert.True(obj.Instructions[3].IsHalt())
}

func TestAssembleCommentsInert(t *testing.T) {
	assert := assert.New(t)

	// Comment text is stripped before any rewriting, so expressions and
	// quotes after the comment marker never reach the assembler.
	obj := assemble(t, `
	nop ; costs $(unknown) cycles
	li t0, 'A' // say "hi"
`)

	assert.Empty(obj.Errors)
	assert.Len(obj.Instructions, 2)
	assert.Equal(uint16(65), obj.Instructions[1].Word2)
}

func TestAssembleForwardReference(t *testing.T) {
	assert := assert.New(t)

	obj := assemble(t, `
	jal done
	nop
	nop
	nop
	nop
done:	halt
`)

	assert.Empty(obj.Errors)
	// Five instructions fill bank 0; "done" starts bank 1.
	assert.Equal(Label{Name: "done", Bank: 1, Offset: 4, AbsoluteAddress: 20}, obj.Labels["done"])
	assert.Equal(uint16(1), obj.Instructions[0].Word2)
	assert.Equal(uint16(4), obj.Instructions[0].Word3)
	assert.Equal(Reference{Label: "done", Kind: RefAbsolute}, obj.Relocations[0])
}

func TestAssembleBranchCrossBank(t *testing.T) {
	assert := assert.New(t)

	// Branches carry only a bank-local offset. A target in another bank
	// cannot be encoded and must be reported, not truncated.
	obj := assemble(t, `
	beq r0, r0, far
	nop
	nop
	nop
far:	halt
`)

	assert.Len(obj.Errors, 1)
	assert.Contains(obj.Errors[0], "crosses banks")
	assert.Contains(obj.Errors[0], "far")
	assert.Empty(obj.Unresolved)
	assert.Empty(obj.Relocations)
}

func TestAssembleDataSection(t *testing.T) {
	assert := assert.New(t)

	obj := assemble(t, `
.data
msg:	.asciiz "Hi"
val:	.word 0x1234
.code
start:	li a0, msg
	load t0, 0, val
`)

	assert.Empty(obj.Errors)
	assert.Equal(uint32(2), obj.DataLabels["msg"])
	assert.Equal(uint32(5), obj.DataLabels["val"])
	assert.Equal(ByteList{'H', 'i', 0, 0x34, 0x12}, obj.MemoryData)

	// LI takes a data address in its immediate slot.
	assert.Equal(uint16(2), obj.Instructions[0].Word2)
	assert.Equal(Reference{Label: "msg", Kind: RefData}, obj.Relocations[0])

	// LOAD takes it in the address slot.
	assert.Equal(uint16(5), obj.Instructions[1].Word3)
	assert.Equal(Reference{Label: "val", Kind: RefData}, obj.Relocations[1])
}

func TestAssembleDataBytes(t *testing.T) {
	assert := assert.New(t)

	obj := assemble(t, `
.data
tbl:	.byte 1, 2, 0x10
`)

	assert.Empty(obj.Errors)
	assert.Equal(ByteList{1, 2, 16}, obj.MemoryData)
	assert.Equal(uint32(2), obj.DataLabels["tbl"])
}

func TestAssembleUnresolved(t *testing.T) {
	assert := assert.New(t)

	obj := assemble(t, `
	jal helper
	halt
`)

	assert.Empty(obj.Errors)
	assert.Equal(Reference{Label: "helper", Kind: RefAbsolute}, obj.Unresolved[0])
	assert.Empty(obj.Relocations)
	// Placeholder words stay zero until link time.
	assert.Equal(uint16(0), obj.Instructions[0].Word3)
}

func TestAssembleEquates(t *testing.T) {
	assert := assert.New(t)

	obj := assemble(t, `
.equ COUNT 3
	li t0, COUNT
	li t1, $(COUNT * 2 + 1)
	li t2, 'A'
`)

	assert.Empty(obj.Errors)
	assert.Equal(uint16(3), obj.Instructions[0].Word2)
	assert.Equal(uint16(7), obj.Instructions[1].Word2)
	assert.Equal(uint16(65), obj.Instructions[2].Word2)
}

func TestAssembleEquateErrors(t *testing.T) {
	assert := assert.New(t)

	obj := assemble(t, `
.equ COUNT 3
.equ COUNT 4
.equ BROKEN
`)

	assert.Len(obj.Errors, 2)
	assert.Contains(obj.Errors[0], "duplicated")
	assert.Contains(obj.Errors[1], "syntax")
}

func TestAssembleVirtualInstructions(t *testing.T) {
	assert := assert.New(t)

	obj := assemble(t, `
	push t0
	pop t1
	move a0, a1
	ret
`)

	assert.Empty(obj.Errors)
	assert.Len(obj.Instructions, 6)

	assert.Equal(isa.NewInstruction(isa.ADDI, uint16(isa.SP), uint16(isa.SP), 0xFFFF), obj.Instructions[0])
	assert.Equal(isa.NewInstruction(isa.STORE, uint16(isa.T0), uint16(isa.SB), uint16(isa.SP)), obj.Instructions[1])
	assert.Equal(isa.NewInstruction(isa.LOAD, uint16(isa.T1), uint16(isa.SB), uint16(isa.SP)), obj.Instructions[2])
	assert.Equal(isa.NewInstruction(isa.ADDI, uint16(isa.SP), uint16(isa.SP), 1), obj.Instructions[3])
	assert.Equal(isa.NewInstruction(isa.ADD, uint16(isa.A0), uint16(isa.A1), uint16(isa.R0)), obj.Instructions[4])
	assert.Equal(isa.NewInstruction(isa.JALR, uint16(isa.R0), uint16(isa.R0), uint16(isa.RA)), obj.Instructions[5])
}

func TestAssembleErrors(t *testing.T) {
	assert := assert.New(t)

	obj := assemble(t, `
dup:	nop
dup:	nop
	frobnicate t0
	add t0, t1
`)

	assert.Len(obj.Errors, 3)
	assert.Contains(obj.Errors[0], "already defined")
	assert.Contains(obj.Errors[1], "unknown instruction")
	assert.Contains(obj.Errors[2], "requires 3 operands")
	assert.Contains(obj.Errors[1], "line 4")
}

func TestAssembleTwoLabelOperands(t *testing.T) {
	assert := assert.New(t)

	// Only one operand per instruction can be fixed up.
	obj := assemble(t, `
	load t0, bankLbl, addrLbl
`)

	assert.Len(obj.Errors, 1)
	assert.Contains(obj.Errors[0], "bankLbl")
	assert.Contains(obj.Errors[0], "addrLbl")
	assert.Empty(obj.Instructions)
}

func TestAssembleIdempotent(t *testing.T) {
	assert := assert.New(t)

	source := `
.equ COUNT 3
.data
msg:	.asciiz "hi"
.code
start:	li a0, msg
	li t0, COUNT
loop:	addi t0, t0, -1
	bne t0, r0, loop
	jal helper
	halt
`

	asm := NewAssembler(DefaultOptions())
	first, err := asm.Assemble(strings.NewReader(source))
	assert.NoError(err)
	second, err := asm.Assemble(strings.NewReader(source))
	assert.NoError(err)

	assert.Empty(first.Errors)
	assert.Equal(first.Instructions, second.Instructions)
	assert.Equal(first.Labels, second.Labels)
	assert.Equal(first.DataLabels, second.DataLabels)
	assert.Equal(first.MemoryData, second.MemoryData)
	assert.Equal(first.Relocations, second.Relocations)
	assert.Equal(first.Unresolved, second.Unresolved)
}

func TestAssembleEntryPointFallback(t *testing.T) {
	assert := assert.New(t)

	obj := assemble(t, `
_start:	nop
`)
	assert.Equal("_start", obj.EntryPoint)

	obj = assemble(t, `
helper:	nop
`)
	assert.Equal("", obj.EntryPoint)
}

func TestObjectRoundTrip(t *testing.T) {
	assert := assert.New(t)

	obj := assemble(t, `
.data
msg:	.asciiz "ok"
.code
start:	li a0, msg
	jal helper
	halt
`)

	data, err := json.Marshal(obj)
	assert.NoError(err)
	// Data segments interchange as number arrays, not base64 text.
	assert.Contains(string(data), `"memoryData":[111,107,0]`)

	loaded, err := LoadObject(data)
	assert.NoError(err)
	assert.Equal(obj.Instructions, loaded.Instructions)
	assert.Equal(obj.MemoryData, loaded.MemoryData)
	assert.Equal(obj.Labels, loaded.Labels)
	assert.Equal(obj.DataLabels, loaded.DataLabels)
	assert.Equal(obj.Unresolved, loaded.Unresolved)
	assert.Equal(obj.EntryPoint, loaded.EntryPoint)
}

func TestObjectBinary(t *testing.T) {
	assert := assert.New(t)

	obj := &Object{
		Version:      1,
		Instructions: []isa.Instruction{isa.NewInstruction(isa.ADD, 1, 2, 3)},
		MemoryData:   ByteList{0xAA},
	}

	bin := obj.Binary()
	assert.Equal([]byte("RASM"), bin[:4])
	assert.Equal([]byte{1, 0, 0, 0}, bin[4:8])  // version
	assert.Equal([]byte{1, 0, 0, 0}, bin[8:12]) // instruction count
	assert.Equal([]byte{byte(isa.ADD), byte(isa.ADD), 1, 0, 2, 0, 3, 0}, bin[12:20])
	assert.Equal([]byte{1, 0, 0, 0, 0xAA}, bin[20:])
}
