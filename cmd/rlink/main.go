// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/ripplevm/rasm/asm"
	"github.com/ripplevm/rasm/bfm"
	"github.com/ripplevm/rasm/isa"
	"github.com/ripplevm/rasm/link"
)

func main() {
	var format string
	var output string
	var bankSize uint
	var dataOffset uint
	var verbose bool

	flag.StringVar(&format, "f", "binary", "Output format: json, binary, macro, text")
	flag.StringVar(&output, "o", "-", "Output file")
	flag.UintVar(&bankSize, "b", uint(isa.DefaultBankSize), "Bank size in words")
	flag.UintVar(&dataOffset, "d", uint(isa.DefaultDataOffset), "Data segment offset")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatalf("%v: expected one or more object files", os.Args[0])
	}

	linker := link.NewLinker()
	linker.Verbose = verbose
	linker.BankSize = uint16(bankSize)
	linker.DataOffset = uint16(dataOffset)

	for _, name := range flag.Args() {
		data, err := os.ReadFile(name)
		if err != nil {
			log.Fatalf("%v: %v", name, err)
		}
		obj, err := asm.LoadObject(data)
		if err != nil {
			log.Fatalf("%v: %v", name, err)
		}
		linker.Add(name, obj)
	}

	prg, err := linker.Link()
	if err != nil {
		log.Fatal(err)
	}

	var out []byte
	switch format {
	case "json":
		out, err = json.MarshalIndent(prg, "", "  ")
		if err != nil {
			log.Fatal(err)
		}
		out = append(out, '\n')
	case "binary":
		out = prg.Binary()
	case "macro":
		out = []byte(bfm.New().Full(prg.Instructions, prg.Data, nil, "") + "\n")
	case "text":
		out = []byte(prg.Text())
	default:
		log.Fatalf("unknown output format: %v", format)
	}

	if output == "-" {
		os.Stdout.Write(out)
		return
	}
	if err := os.WriteFile(output, out, 0644); err != nil {
		log.Fatalf("%v: %v", output, err)
	}
}
