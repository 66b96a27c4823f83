// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/ripplevm/rasm/isa"
)

// Section selects where assembled output lands.
type Section int

const (
	SectionCode = Section(0)
	SectionData = Section(1)
)

// Options configures an assembly run.
type Options struct {
	CaseInsensitive bool
	StartBank       uint16
	BankSize        uint16
	MaxImmediate    uint32
	DataOffset      uint16 // data addresses below this are reserved by the VM
}

// DefaultOptions returns the standard Ripple target configuration.
func DefaultOptions() Options {
	return Options{
		CaseInsensitive: true,
		StartBank:       0,
		BankSize:        isa.DefaultBankSize,
		MaxImmediate:    isa.DefaultMaxImmediate,
		DataOffset:      isa.DefaultDataOffset,
	}
}

// Assembler converts source text into an Object. One Assembler may be
// reused across runs; each run owns its own working state.
type Assembler struct {
	Verbose bool              // If set, verbosely logs each source line.
	Equate  map[string]string // Equates visible to the current run.

	options  Options
	parser   *Parser
	encoder  *Encoder
	virtuals *VirtualRegistry

	predefine map[string]string
}

// NewAssembler creates an Assembler for the given target options.
func NewAssembler(options Options) *Assembler {
	return &Assembler{
		options:  options,
		parser:   &Parser{CaseInsensitive: options.CaseInsensitive},
		encoder:  NewEncoder(options.MaxImmediate, options.BankSize),
		virtuals: NewVirtualRegistry(),
	}
}

// Predefine adds an equate visible to every subsequent run.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// Virtuals exposes the virtual instruction registry for extension.
func (asm *Assembler) Virtuals() *VirtualRegistry {
	return asm.virtuals
}

// state is the mutable working set of a single assembly run.
type state struct {
	bank    uint16
	offset  uint16
	section Section
	dataOff uint32

	labels     map[string]Label
	dataLabels map[string]uint32
	pending    map[int]Reference
	done       map[int]Reference

	instructions []isa.Instruction
	data         []byte
	errors       []string
}

func (st *state) fail(line ParsedLine, err error) {
	wrapped := ErrSyntax{LineNo: line.LineNo, Line: strings.TrimSpace(line.Raw), Err: err}
	st.errors = append(st.errors, wrapped.Error())
}

// Assemble runs a single linear pass with deferred fixups over the source.
// The returned error reports only input stream failures; assembly problems
// accumulate in the Object's error list so one run reports everything.
func (asm *Assembler) Assemble(input io.Reader) (obj *Object, err error) {
	st := &state{
		bank:       asm.options.StartBank,
		section:    SectionCode,
		dataOff:    uint32(asm.options.DataOffset),
		labels:     make(map[string]Label),
		dataLabels: make(map[string]uint32),
		pending:    make(map[int]Reference),
	}

	asm.Equate = map[string]string{
		"LINENO":      "0",
		"BANK_SIZE":   fmt.Sprintf("%v", asm.options.BankSize),
		"DATA_OFFSET": fmt.Sprintf("%v", asm.options.DataOffset),
	}
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	scanner := bufio.NewScanner(input)
	var lineno int
	for scanner.Scan() {
		lineno += 1
		raw := scanner.Text()
		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, raw)
		}

		// Character literals and $() expressions rewrite on the whole
		// line, before tokenizing splits them on whitespace. The
		// comment is stripped first so its text stays inert.
		text, expErr := asm.expandText(stripComment(raw), lineno)
		if expErr != nil {
			st.fail(ParsedLine{LineNo: lineno, Raw: raw}, expErr)
			continue
		}

		parsed := asm.parser.ParseLine(text, lineno)
		parsed.Raw = raw
		if parsed.Empty() {
			continue
		}
		asm.processLine(parsed, st)
	}
	if err = scanner.Err(); err != nil {
		return
	}

	asm.resolve(st)

	obj = &Object{
		Version:      1,
		Instructions: st.instructions,
		MemoryData:   st.data,
		Labels:       st.labels,
		DataLabels:   st.dataLabels,
		Relocations:  make(map[int]Reference),
		Unresolved:   make(map[int]Reference),
		Errors:       st.errors,
	}

	// Anything still pending is exported for the linker.
	for idx, ref := range st.pending {
		obj.Unresolved[idx] = ref
	}
	for idx, ref := range st.done {
		obj.Relocations[idx] = ref
	}

	if _, ok := st.labels["start"]; ok {
		obj.EntryPoint = "start"
	} else if _, ok := st.labels["_start"]; ok {
		obj.EntryPoint = "_start"
	}

	return
}

// processLine handles one parsed line: label binding, directives, and
// instruction encoding.
func (asm *Assembler) processLine(parsed ParsedLine, st *state) {
	// Rewrite character literals and $() expressions in operand position.
	operands, err := asm.expandOperands(parsed)
	if err != nil {
		st.fail(parsed, err)
		return
	}
	parsed.Operands = operands

	if parsed.Label != "" {
		asm.defineLabel(parsed, st)
	}

	if parsed.Directive != "" {
		asm.processDirective(parsed, st)
		return
	}

	if parsed.Mnemonic == "" {
		return
	}

	// Virtual instructions expand to real lines sharing this line's
	// number.
	if vi, ok := asm.virtuals.Get(parsed.Mnemonic); ok {
		expanded, err := vi.Expand(parsed.Operands)
		if err != nil {
			st.fail(parsed, err)
			return
		}
		for _, exp := range expanded {
			exp.LineNo = parsed.LineNo
			exp.Raw = parsed.Raw
			asm.processLine(exp, st)
		}
		return
	}

	asm.processInstruction(parsed, st)
}

// expandOperands applies equate substitution and expression evaluation to
// the operand tokens.
func (asm *Assembler) expandOperands(parsed ParsedLine) (operands []string, err error) {
	if len(parsed.Operands) == 0 {
		return parsed.Operands, nil
	}

	operands = make([]string, len(parsed.Operands))
	for n, operand := range parsed.Operands {
		if equate, ok := asm.Equate[operand]; ok {
			operand = equate
		}
		operand, err = asm.expandText(operand, parsed.LineNo)
		if err != nil {
			return
		}
		operands[n] = operand
	}

	return
}

func (asm *Assembler) defineLabel(parsed ParsedLine, st *state) {
	name := parsed.Label

	if st.section == SectionData {
		if _, ok := st.dataLabels[name]; ok {
			st.fail(parsed, ErrLabelDuplicate(name))
			return
		}
		st.dataLabels[name] = st.dataOff
		return
	}

	if _, ok := st.labels[name]; ok {
		st.fail(parsed, ErrLabelDuplicate(name))
		return
	}
	st.labels[name] = Label{
		Name:            name,
		Bank:            st.bank,
		Offset:          st.offset,
		AbsoluteAddress: uint32(st.bank)*uint32(asm.options.BankSize) + uint32(st.offset),
	}
}

func (asm *Assembler) processDirective(parsed ParsedLine, st *state) {
	switch parsed.Directive {
	case "code", "text":
		st.section = SectionCode
	case "data":
		st.section = SectionData
	case "equ":
		asm.processEquate(parsed, st)
	case "byte", "db", "word", "dw", "asciiz", "string":
		if st.section != SectionData {
			st.fail(parsed, ErrDirectiveUnknown(parsed.Directive+" outside .data"))
			return
		}
		asm.processDataDirective(parsed, st)
	default:
		st.fail(parsed, ErrDirectiveUnknown(parsed.Directive))
	}
}

func (asm *Assembler) processEquate(parsed ParsedLine, st *state) {
	if len(parsed.DirectiveArgs) != 2 {
		st.fail(parsed, ErrEquateSyntax)
		return
	}
	name := parsed.DirectiveArgs[0]
	if _, ok := asm.Equate[name]; ok {
		st.fail(parsed, ErrEquateDuplicate)
		return
	}
	asm.Equate[name] = parsed.DirectiveArgs[1]
}

func (asm *Assembler) processDataDirective(parsed ParsedLine, st *state) {
	appendByte := func(b byte) {
		st.data = append(st.data, b)
		st.dataOff += 1
	}

	switch parsed.Directive {
	case "byte", "db":
		for _, arg := range parsed.DirectiveArgs {
			value, err := asm.encoder.ParseImmediate(arg)
			if err != nil {
				st.fail(parsed, err)
				continue
			}
			appendByte(byte(value))
		}
	case "word", "dw":
		for _, arg := range parsed.DirectiveArgs {
			value, err := asm.encoder.ParseImmediate(arg)
			if err != nil {
				st.fail(parsed, err)
				continue
			}
			appendByte(byte(value))
			appendByte(byte(value >> 8))
		}
	case "asciiz", "string":
		for _, arg := range parsed.DirectiveArgs {
			text, ok := unquote(arg)
			if !ok {
				st.fail(parsed, ErrStringUnquoted)
				continue
			}
			for _, b := range []byte(text) {
				appendByte(b)
			}
			if parsed.Directive == "asciiz" {
				appendByte(0)
			}
		}
	}
}

// unquote strips surrounding quotes and rewrites escape sequences.
func unquote(arg string) (text string, ok bool) {
	if len(arg) < 2 {
		return
	}
	quote := arg[0]
	if (quote != '"' && quote != '\'') || arg[len(arg)-1] != quote {
		return
	}

	var out strings.Builder
	body := arg[1 : len(arg)-1]
	for n := 0; n < len(body); n++ {
		ch := body[n]
		if ch == '\\' && n+1 < len(body) {
			n += 1
			switch body[n] {
			case 'n':
				ch = '\n'
			case 'r':
				ch = '\r'
			case 't':
				ch = '\t'
			case '0':
				ch = 0
			default:
				ch = body[n]
			}
		}
		out.WriteByte(ch)
	}

	return out.String(), true
}

// referenceKind classifies a label operand by the opcode consuming it.
func referenceKind(op isa.Opcode) RefKind {
	switch op {
	case isa.BEQ, isa.BNE, isa.BLT, isa.BGE:
		return RefBranch
	case isa.LOAD, isa.STORE, isa.LI:
		return RefData
	default:
		return RefAbsolute
	}
}

func (asm *Assembler) processInstruction(parsed ParsedLine, st *state) {
	// HALT is not an opcode: it is NOP with all-zero operands.
	if parsed.Mnemonic == "HALT" {
		if len(parsed.Operands) != 0 {
			st.fail(parsed, ErrOperandArity{Mnemonic: "HALT", Want: "0", Got: len(parsed.Operands)})
			return
		}
		st.emit(isa.NewInstruction(isa.NOP, 0, 0, 0), asm.options.BankSize)
		return
	}

	op, ok := isa.OpcodeFromString(parsed.Mnemonic)
	if !ok {
		st.fail(parsed, ErrMnemonicUnknown(parsed.Mnemonic))
		return
	}

	// Label operands encode with a placeholder and are fixed up once the
	// whole unit has been walked.
	operands := parsed.Operands
	var ref *Reference
	for n, operand := range operands {
		if _, isReg := isa.RegisterFromString(operand); isReg || isNumber(operand) {
			continue
		}
		if ref != nil {
			st.fail(parsed, ErrLabelOperands{First: ref.Label, Second: operand})
			return
		}
		operands = append([]string{}, parsed.Operands...)
		ref = &Reference{Label: operand, Kind: referenceKind(op)}
		operands[n] = "0"
	}

	inst, err := asm.encoder.Encode(op, operands)
	if err != nil {
		st.fail(parsed, err)
		return
	}

	if ref != nil {
		st.pending[len(st.instructions)] = *ref
	}
	st.emit(inst, asm.options.BankSize)
}

// emit appends an instruction and advances the bank/offset position.
func (st *state) emit(inst isa.Instruction, bankSize uint16) {
	st.instructions = append(st.instructions, inst)
	st.offset += isa.InstructionSize
	if st.offset >= bankSize {
		st.bank += 1
		st.offset = 0
	}
}

// resolve patches every pending reference whose label the unit defines,
// moving it to the resolved set. References to labels defined elsewhere
// stay pending for the linker.
func (asm *Assembler) resolve(st *state) {
	st.done = make(map[int]Reference)
	instPerBank := int(asm.options.BankSize / isa.InstructionSize)

	for idx, ref := range st.pending {
		bank := asm.options.StartBank + uint16(idx/instPerBank)
		ok, err := Patch(&st.instructions[idx], bank, ref, st.labels, st.dataLabels)
		if err != nil {
			st.errors = append(st.errors, err.Error())
			delete(st.pending, idx)
			continue
		}
		if ok {
			st.done[idx] = ref
			delete(st.pending, idx)
		}
	}
}

// Patch overwrites the operand word of inst addressed by ref, returning
// ok false when the label is not in the given tables. bank is the bank the
// referencing instruction itself occupies, used to reject branches whose
// target lives in another bank. The same patching rules apply at assembly
// and at link time.
func Patch(inst *isa.Instruction, bank uint16, ref Reference, labels map[string]Label, dataLabels map[string]uint32) (ok bool, err error) {
	switch ref.Kind {
	case RefBranch:
		label, found := labels[ref.Label]
		if !found {
			return
		}
		if label.Bank != bank {
			err = ErrBranchCrossBank{Label: ref.Label, From: bank, To: label.Bank}
			return
		}
		inst.Word3 = label.Offset
	case RefAbsolute:
		if label, found := labels[ref.Label]; found {
			inst.Word2 = label.Bank
			inst.Word3 = label.Offset
		} else if addr, found := dataLabels[ref.Label]; found {
			inst.Word2 = uint16(addr >> 16)
			inst.Word3 = uint16(addr)
		} else {
			return
		}
	case RefData:
		addr, found := dataLabels[ref.Label]
		if !found {
			return
		}
		if isa.Opcode(inst.Opcode) == isa.LI {
			inst.Word2 = uint16(addr)
		} else {
			inst.Word3 = uint16(addr)
		}
	default:
		return
	}

	ok = true
	return
}
