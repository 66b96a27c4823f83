// Package isa describes the Ripple instruction set: the opcode and format
// tables, the register file, the fixed instruction word layout, and the
// bank-addressed memory constants.
//
// Everything in this package is static data consumed by the assembler,
// linker, disassembler, and macro formatter. The per-opcode format table is
// the single source of truth for operand interpretation; the few opcodes
// with irregular operand layouts (LOAD/STORE) are expressed as overrides on
// top of it, never as special cases downstream.
package isa
