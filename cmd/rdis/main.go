// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ripplevm/rasm/asm"
	"github.com/ripplevm/rasm/dis"
	"github.com/ripplevm/rasm/isa"
	"github.com/ripplevm/rasm/link"
)

func main() {
	var bankSize uint

	flag.UintVar(&bankSize, "b", uint(isa.DefaultBankSize), "Bank size in words")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("%v: expected one program or object file", os.Args[0])
	}

	input := flag.Arg(0)
	var data []byte
	var err error
	if input == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(input)
	}
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}

	// Linked program binaries self-identify; anything else is taken as an
	// object in JSON interchange form.
	if bytes.HasPrefix(data, []byte("RLINK")) {
		prg, err := link.LoadBinary(data)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		printListing(prg.Instructions, prg.BankSize, prg.Labels)
		return
	}

	obj, err := asm.LoadObject(data)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}
	printListing(obj.Instructions, uint16(bankSize), obj.Labels)
}

// printListing writes the disassembly with label names in the margin.
func printListing(instructions []isa.Instruction, bankSize uint16, labels map[string]asm.Label) {
	byAddr := make(map[uint32]string)
	for name, label := range labels {
		byAddr[label.AbsoluteAddress] = name
	}

	for n, inst := range instructions {
		addr := uint32(n) * uint32(isa.InstructionSize)
		if name, ok := byAddr[addr]; ok {
			fmt.Printf("%v:\n", name)
		}
		bank := addr / uint32(bankSize)
		offset := addr % uint32(bankSize)
		fmt.Printf("  %02d:%02d  %v\n", bank, offset, dis.Instruction(inst))
	}
}
