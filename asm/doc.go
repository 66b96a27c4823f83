// Package asm implements the Ripple assembler: a line-oriented parser, a
// per-format instruction encoder, and a single-pass assembler with deferred
// label fixups.
//
// A source unit assembles into an Object: encoded instructions, a data
// segment, code and data label tables, and any references to labels the unit
// does not define itself. Objects with unresolved references are completed
// by the linker; an object without them is already a loadable program.
//
// The assembler supports macros in the small: virtual instructions (MOVE,
// PUSH, CALL, ...) expand to real opcodes before encoding, `.equ` equates
// substitute into operands, and `$( ... )` expressions are evaluated at
// assembly time with equates bound as variables.
package asm
