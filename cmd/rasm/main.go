// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ripplevm/rasm/asm"
	"github.com/ripplevm/rasm/bfm"
	"github.com/ripplevm/rasm/dis"
	"github.com/ripplevm/rasm/isa"
)

func main() {
	var format string
	var output string
	var bankSize uint
	var maxImmediate uint
	var dataOffset uint
	var caseSensitive bool
	var verbose bool
	var reference bool

	flag.StringVar(&format, "f", "json", "Output format: json, binary, macro, text")
	flag.StringVar(&output, "o", "-", "Output file")
	flag.UintVar(&bankSize, "b", uint(isa.DefaultBankSize), "Bank size in words")
	flag.UintVar(&maxImmediate, "m", uint(isa.DefaultMaxImmediate), "Maximum immediate value")
	flag.UintVar(&dataOffset, "d", uint(isa.DefaultDataOffset), "Data segment offset")
	flag.BoolVar(&caseSensitive, "c", false, "Case-sensitive mnemonics and registers")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&reference, "r", false, "Print the instruction reference")

	flag.Parse()

	if reference {
		printReference()
		return
	}

	if flag.NArg() != 1 {
		log.Fatalf("%v: expected one source file", os.Args[0])
	}

	input := flag.Arg(0)
	inf := os.Stdin
	if input != "-" {
		var err error
		inf, err = os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
	}

	options := asm.DefaultOptions()
	options.CaseInsensitive = !caseSensitive
	options.BankSize = uint16(bankSize)
	options.MaxImmediate = uint32(maxImmediate)
	options.DataOffset = uint16(dataOffset)

	assembler := asm.NewAssembler(options)
	assembler.Verbose = verbose

	obj, err := assembler.Assemble(inf)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}

	for _, msg := range obj.Errors {
		log.Printf("%v: %v", input, msg)
	}
	if len(obj.Errors) > 0 {
		os.Exit(1)
	}

	var out []byte
	switch format {
	case "json":
		out, err = json.MarshalIndent(obj, "", "  ")
		if err != nil {
			log.Fatal(err)
		}
		out = append(out, '\n')
	case "binary":
		out = obj.Binary()
	case "macro":
		out = []byte(bfm.New().Full(obj.Instructions, obj.MemoryData, nil, input) + "\n")
	case "text":
		out = []byte(dis.Listing(obj.Instructions, options.BankSize))
	default:
		log.Fatalf("unknown output format: %v", format)
	}

	writeOutput(output, out)
}

func writeOutput(output string, data []byte) {
	if output == "-" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		log.Fatalf("%v: %v", output, err)
	}
}

// referenceGroups orders the reference listing by instruction category.
var referenceGroups = []struct {
	title   string
	opcodes []isa.Opcode
}{
	{"ARITHMETIC", []isa.Opcode{isa.ADD, isa.SUB, isa.MUL, isa.DIV, isa.MOD, isa.ADDI, isa.MULI, isa.DIVI, isa.MODI}},
	{"LOGICAL", []isa.Opcode{isa.AND, isa.OR, isa.XOR, isa.ANDI, isa.ORI, isa.XORI}},
	{"SHIFT", []isa.Opcode{isa.SLL, isa.SRL, isa.SLLI, isa.SRLI}},
	{"COMPARISON", []isa.Opcode{isa.SLT, isa.SLTU}},
	{"MEMORY", []isa.Opcode{isa.LI, isa.LOAD, isa.STORE}},
	{"CONTROL FLOW", []isa.Opcode{isa.JAL, isa.JALR, isa.BEQ, isa.BNE, isa.BLT, isa.BGE}},
	{"SPECIAL", []isa.Opcode{isa.NOP, isa.BRK}},
}

func printReference() {
	fmt.Println("RIPPLE ASSEMBLER INSTRUCTION REFERENCE")
	fmt.Println("======================================")
	fmt.Println()

	for _, group := range referenceGroups {
		fmt.Printf("%v INSTRUCTIONS\n", group.title)
		for _, op := range group.opcodes {
			fmt.Printf("  %-8v %-20v # %v\n", op, op.OperandHint(), op.Describe())
		}
		fmt.Println()
	}

	fmt.Println("ALIASES")
	fmt.Printf("  %-8v %-20v # %v\n", "HALT", "", "Stop execution (NOP with all zeros)")
	fmt.Println()

	fmt.Println("VIRTUAL INSTRUCTIONS")
	for _, name := range asm.NewVirtualRegistry().Names() {
		fmt.Printf("  %v\n", name)
	}
	fmt.Println()

	fmt.Println("REGISTERS")
	for _, name := range isa.RegisterNames() {
		fmt.Printf("  %v\n", name)
	}
	fmt.Println()

	fmt.Println("DIRECTIVES")
	for _, dir := range []struct{ use, desc string }{
		{".data", "Start data section"},
		{".code/.text", "Start code section"},
		{".equ NAME value", "Define an equate"},
		{".byte/.db v,...", "Define bytes"},
		{".word/.dw v,...", "Define 16-bit words"},
		{`.asciiz "text"`, "Define null-terminated string"},
		{`.string "text"`, "Define string (no terminator)"},
	} {
		fmt.Printf("  %-20v # %v\n", dir.use, dir.desc)
	}
}
