// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

package link

import (
	"log"

	"github.com/ripplevm/rasm/asm"
	"github.com/ripplevm/rasm/isa"
)

// Linker lays added objects out bank by bank and resolves their references
// against the merged symbol tables.
type Linker struct {
	Verbose    bool   // If set, verbosely logs placement decisions.
	BankSize   uint16 // words per bank
	DataOffset uint16 // data addresses below this are reserved by the VM

	units []*unit
}

// unit is one object plus its placement in the combined layout.
type unit struct {
	name     string
	obj      *asm.Object
	baseBank uint16
	dataBase uint32
}

// NewLinker creates a Linker for the standard Ripple target geometry.
func NewLinker() *Linker {
	return &Linker{
		BankSize:   isa.DefaultBankSize,
		DataOffset: isa.DefaultDataOffset,
	}
}

// Add appends an object to the layout. Placement order is Add order.
func (ln *Linker) Add(name string, obj *asm.Object) {
	ln.units = append(ln.units, &unit{name: name, obj: obj})
}

// banks reports how many whole banks a unit's instructions occupy.
func (ln *Linker) banks(obj *asm.Object) uint16 {
	words := uint16(len(obj.Instructions)) * isa.InstructionSize
	return (words + ln.BankSize - 1) / ln.BankSize
}

// Link combines the added objects. Any duplicate or undefined symbol is
// fatal; no partial program is produced.
func (ln *Linker) Link() (prg *Program, err error) {
	if len(ln.units) == 0 {
		err = ErrNoObjects
		return
	}

	labels := make(map[string]asm.Label)
	dataLabels := make(map[string]uint32)
	entry := ""

	// Placement pass: assign each unit its base bank and data base, and
	// translate its symbols into the combined space.
	baseBank := uint16(0)
	dataBase := uint32(ln.DataOffset)
	for _, u := range ln.units {
		if len(u.obj.Errors) > 0 {
			err = ErrObjectErrors{Name: u.name, Count: len(u.obj.Errors)}
			return
		}

		u.baseBank = baseBank
		u.dataBase = dataBase
		if ln.Verbose {
			log.Printf("%v: bank %v, data %v\n", u.name, u.baseBank, u.dataBase)
		}

		for name, label := range u.obj.Labels {
			if _, ok := labels[name]; ok {
				err = ErrSymbolDuplicate{Symbol: name, Name: u.name}
				return
			}
			bank := label.Bank + baseBank
			labels[name] = asm.Label{
				Name:            name,
				Bank:            bank,
				Offset:          label.Offset,
				AbsoluteAddress: uint32(bank)*uint32(ln.BankSize) + uint32(label.Offset),
			}
		}
		for name, addr := range u.obj.DataLabels {
			if _, ok := dataLabels[name]; ok {
				err = ErrSymbolDuplicate{Symbol: name, Name: u.name}
				return
			}
			dataLabels[name] = addr - uint32(ln.DataOffset) + dataBase
		}

		if entry == "" && u.obj.EntryPoint != "" {
			entry = u.obj.EntryPoint
		}

		baseBank += ln.banks(u.obj)
		dataBase += uint32(len(u.obj.MemoryData))
	}

	prg = &Program{
		BankSize:   ln.BankSize,
		Labels:     labels,
		DataLabels: dataLabels,
		EntryPoint: entry,
	}

	// Emission pass: copy each unit's instructions, re-patch every
	// recorded reference against the merged tables, and pad the unit out
	// to its bank boundary.
	instPerBank := int(ln.BankSize / isa.InstructionSize)
	for _, u := range ln.units {
		insts := append([]isa.Instruction{}, u.obj.Instructions...)

		for idx, ref := range u.obj.Relocations {
			bank := u.baseBank + uint16(idx/instPerBank)
			ok, perr := asm.Patch(&insts[idx], bank, ref, labels, dataLabels)
			if perr != nil {
				return nil, perr
			}
			if !ok {
				err = ErrSymbolUndefined{Symbol: ref.Label, Name: u.name, Index: idx}
				return nil, err
			}
		}
		for idx, ref := range u.obj.Unresolved {
			bank := u.baseBank + uint16(idx/instPerBank)
			ok, perr := asm.Patch(&insts[idx], bank, ref, labels, dataLabels)
			if perr != nil {
				return nil, perr
			}
			if !ok {
				err = ErrSymbolUndefined{Symbol: ref.Label, Name: u.name, Index: idx}
				return nil, err
			}
		}

		for len(insts)%instPerBank != 0 {
			insts = append(insts, isa.NewInstruction(isa.NOP, 0, 0, 0))
		}

		prg.Instructions = append(prg.Instructions, insts...)
		prg.Data = append(prg.Data, u.obj.MemoryData...)
	}

	return
}
