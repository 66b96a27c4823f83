package isa

import (
	"slices"
	"strings"
	"sync"
)

// Register is a register index in the 32-entry register file.
type Register byte

const (
	R0  = Register(0)  // hard-wired zero
	PC  = Register(1)  // program counter
	PCB = Register(2)  // program counter bank
	RA  = Register(3)  // return address
	RAB = Register(4)  // return address bank
	RV0 = Register(5)  // return value 0
	RV1 = Register(6)  // return value 1
	A0  = Register(7)  // argument 0
	A1  = Register(8)
	A2  = Register(9)
	A3  = Register(10)
	X0  = Register(11) // extended/reserved 0
	X1  = Register(12)
	X2  = Register(13)
	X3  = Register(14)
	T0  = Register(15) // temporary 0
	T1  = Register(16)
	T2  = Register(17)
	T3  = Register(18)
	T4  = Register(19)
	T5  = Register(20)
	T6  = Register(21)
	T7  = Register(22)
	S0  = Register(23) // saved 0
	S1  = Register(24)
	S2  = Register(25)
	S3  = Register(26)
	SC  = Register(27) // allocator scratch
	SB  = Register(28) // stack bank
	SP  = Register(29) // stack pointer
	FP  = Register(30) // frame pointer
	GP  = Register(31) // global pointer
)

// RegisterCount is the size of the register file.
const RegisterCount = 32

// registerNames is the canonical index-to-name rendering table.
var registerNames = [RegisterCount]string{
	"R0", "PC", "PCB", "RA", "RAB", "RV0", "RV1",
	"A0", "A1", "A2", "A3",
	"X0", "X1", "X2", "X3",
	"T0", "T1", "T2", "T3", "T4", "T5", "T6", "T7",
	"S0", "S1", "S2", "S3",
	"SC", "SB", "SP", "FP", "GP",
}

// Valid reports whether reg is inside the register file.
func (reg Register) Valid() bool {
	return reg < RegisterCount
}

// String returns the symbolic register name.
func (reg Register) String() (name string) {
	if !reg.Valid() {
		return "R?"
	}
	return registerNames[reg]
}

var registerMap = sync.OnceValue(func() map[string]Register {
	m := make(map[string]Register, RegisterCount)
	for n, name := range registerNames {
		m[name] = Register(n)
	}
	return m
})

// RegisterFromString looks a register name up, case-insensitively.
func RegisterFromString(name string) (reg Register, ok bool) {
	reg, ok = registerMap()[strings.ToUpper(name)]
	return
}

// RegisterNames returns the index-ordered list of register names.
func RegisterNames() []string {
	return slices.Clone(registerNames[:])
}
