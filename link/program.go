package link

import (
	"encoding/binary"
	"fmt"
	"slices"
	"strings"

	"github.com/ripplevm/rasm/asm"
	"github.com/ripplevm/rasm/isa"
)

// Program is a fully linked, addressable instruction stream plus its data
// segment and merged symbol tables.
type Program struct {
	Instructions []isa.Instruction    `json:"instructions"`
	Data         asm.ByteList         `json:"data"`
	Labels       map[string]asm.Label `json:"labels"`
	DataLabels   map[string]uint32    `json:"dataLabels"`
	EntryPoint   string               `json:"entryPoint,omitempty"`
	BankSize     uint16               `json:"bankSize"`
}

// EntryAddress resolves the entry label to its absolute word address, or 0
// when no entry label was recorded.
func (prg *Program) EntryAddress() uint32 {
	if label, ok := prg.Labels[prg.EntryPoint]; ok {
		return label.AbsoluteAddress
	}
	return 0
}

var (
	programMagic = []byte("RLINK")
	debugMagic   = []byte("DEBUG")
)

const symbolData = byte(1)

// Binary emits the program's flat binary form: header, instruction words,
// data segment, then a DEBUG symbol section for the VM debugger.
func (prg *Program) Binary() (out []byte) {
	out = append(out, programMagic...)
	out = binary.LittleEndian.AppendUint32(out, uint32(prg.BankSize))
	out = binary.LittleEndian.AppendUint32(out, prg.EntryAddress())
	out = binary.LittleEndian.AppendUint32(out, uint32(len(prg.Instructions)))
	for _, inst := range prg.Instructions {
		out = append(out, inst.Opcode, inst.Word0)
		out = binary.LittleEndian.AppendUint16(out, inst.Word1)
		out = binary.LittleEndian.AppendUint16(out, inst.Word2)
		out = binary.LittleEndian.AppendUint16(out, inst.Word3)
	}
	out = binary.LittleEndian.AppendUint32(out, uint32(len(prg.Data)))
	out = append(out, prg.Data...)

	out = append(out, debugMagic...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(prg.Labels)+len(prg.DataLabels)))
	appendSymbol := func(name string, kind byte, addr uint32) {
		out = binary.LittleEndian.AppendUint16(out, uint16(len(name)))
		out = append(out, name...)
		out = append(out, kind)
		out = binary.LittleEndian.AppendUint32(out, addr)
	}
	for _, name := range sortedKeys(prg.Labels) {
		appendSymbol(name, 0, prg.Labels[name].AbsoluteAddress)
	}
	for _, name := range sortedKeys(prg.DataLabels) {
		appendSymbol(name, symbolData, prg.DataLabels[name])
	}

	return
}

// Text renders a bank-annotated hex listing with symbol names in the
// margin.
func (prg *Program) Text() string {
	byAddr := make(map[uint32]string)
	for name, label := range prg.Labels {
		byAddr[label.AbsoluteAddress] = name
	}

	var out strings.Builder
	for n, inst := range prg.Instructions {
		addr := uint32(n) * uint32(isa.InstructionSize)
		bank := addr / uint32(prg.BankSize)
		offset := addr % uint32(prg.BankSize)

		if name, ok := byAddr[addr]; ok {
			fmt.Fprintf(&out, "%v:\n", name)
		}
		fmt.Fprintf(&out, "  %02d:%02d  %02x %02x %04x %04x %04x\n",
			bank, offset, inst.Opcode, inst.Word0, inst.Word1, inst.Word2, inst.Word3)
	}

	if len(prg.Data) > 0 {
		fmt.Fprintf(&out, "data (%d bytes):\n", len(prg.Data))
		for n := 0; n < len(prg.Data); n += 16 {
			end := min(n+16, len(prg.Data))
			fmt.Fprintf(&out, "  %04x ", n)
			for _, b := range prg.Data[n:end] {
				fmt.Fprintf(&out, " %02x", b)
			}
			fmt.Fprintln(&out)
		}
	}

	return out.String()
}

// LoadBinary decodes a program from its flat binary form, including the
// DEBUG symbol section when present.
func LoadBinary(data []byte) (prg *Program, err error) {
	r := &reader{data: data}

	if !r.magic(programMagic) {
		err = ErrBadMagic
		return
	}

	prg = &Program{
		BankSize:   uint16(r.u32()),
		Labels:     make(map[string]asm.Label),
		DataLabels: make(map[string]uint32),
	}
	entry := r.u32()

	count := r.u32()
	for n := uint32(0); n < count && r.err == nil; n++ {
		prg.Instructions = append(prg.Instructions, isa.Instruction{
			Opcode: r.u8(),
			Word0:  r.u8(),
			Word1:  r.u16(),
			Word2:  r.u16(),
			Word3:  r.u16(),
		})
	}
	prg.Data = r.bytes(int(r.u32()))

	if r.err == nil && len(r.data)-r.pos >= len(debugMagic) && r.magic(debugMagic) {
		symbols := r.u32()
		for n := uint32(0); n < symbols && r.err == nil; n++ {
			name := string(r.bytes(int(r.u16())))
			kind := r.u8()
			addr := r.u32()
			if kind == symbolData {
				prg.DataLabels[name] = addr
			} else {
				bank := uint16(addr / uint32(prg.BankSize))
				offset := uint16(addr % uint32(prg.BankSize))
				prg.Labels[name] = asm.Label{Name: name, Bank: bank, Offset: offset, AbsoluteAddress: addr}
				if addr == entry && prg.EntryPoint == "" {
					prg.EntryPoint = name
				}
			}
		}
	}

	if r.err != nil {
		return nil, r.err
	}
	return
}

// reader walks the binary layout, latching the first short read.
type reader struct {
	data []byte
	pos  int
	err  error
}

func (r *reader) bytes(n int) (out []byte) {
	if r.err != nil {
		return
	}
	if r.pos+n > len(r.data) {
		r.err = ErrTruncated
		return
	}
	out = r.data[r.pos : r.pos+n]
	r.pos += n
	return
}

func (r *reader) magic(want []byte) bool {
	got := r.bytes(len(want))
	return r.err == nil && string(got) == string(want)
}

func (r *reader) u8() byte {
	b := r.bytes(1)
	if r.err != nil {
		return 0
	}
	return b[0]
}

func (r *reader) u16() uint16 {
	b := r.bytes(2)
	if r.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *reader) u32() uint32 {
	b := r.bytes(4)
	if r.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func sortedKeys[V any](m map[string]V) (keys []string) {
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return
}
