package asm

import (
	"encoding/binary"
	"encoding/json"

	"github.com/ripplevm/rasm/isa"
)

// Label is a code-segment symbol bound to a bank-relative position.
type Label struct {
	Name            string `json:"name"`
	Bank            uint16 `json:"bank"`
	Offset          uint16 `json:"offset"`
	AbsoluteAddress uint32 `json:"absoluteAddress"`
}

// RefKind classifies which operand word a label reference patches.
type RefKind string

const (
	RefBranch   = RefKind("branch")   // bank-local branch displacement
	RefAbsolute = RefKind("absolute") // bank + offset target
	RefData     = RefKind("data")     // data-segment address
)

// Reference names a label from an instruction's operand slot.
type Reference struct {
	Label string  `json:"label"`
	Kind  RefKind `json:"kind"`
}

// ByteList is a data segment that interchanges as a JSON number array
// rather than base64 text.
type ByteList []byte

func (bl ByteList) MarshalJSON() ([]byte, error) {
	values := make([]uint16, len(bl))
	for n, b := range bl {
		values[n] = uint16(b)
	}
	return json.Marshal(values)
}

func (bl *ByteList) UnmarshalJSON(data []byte) (err error) {
	var values []uint16
	if err = json.Unmarshal(data, &values); err != nil {
		return
	}
	*bl = make(ByteList, len(values))
	for n, v := range values {
		(*bl)[n] = byte(v)
	}
	return
}

// Object is the result of assembling one source unit. An object with no
// unresolved references is already a complete, addressable program; one
// with unresolved references must pass through the linker.
type Object struct {
	Version      uint32            `json:"version"`
	Instructions []isa.Instruction `json:"instructions"`
	MemoryData   ByteList          `json:"memoryData"`
	Labels       map[string]Label  `json:"labels"`
	DataLabels   map[string]uint32 `json:"dataLabels"`

	// Relocations records references resolved within this unit, so the
	// linker can re-translate them when the unit moves in the combined
	// layout. Unresolved holds references to labels this unit never
	// defined.
	Relocations map[int]Reference `json:"relocations,omitempty"`
	Unresolved  map[int]Reference `json:"unresolvedReferences,omitempty"`

	EntryPoint string   `json:"entryPoint,omitempty"`
	Errors     []string `json:"errors"`
}

// objectMagic tags the object binary layout.
var objectMagic = []byte("RASM")

// Binary emits the object's flat binary form: magic, version, instruction
// count and words, then the data segment.
func (obj *Object) Binary() (out []byte) {
	out = append(out, objectMagic...)
	out = binary.LittleEndian.AppendUint32(out, obj.Version)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(obj.Instructions)))
	for _, inst := range obj.Instructions {
		out = append(out, inst.Opcode, inst.Word0)
		out = binary.LittleEndian.AppendUint16(out, inst.Word1)
		out = binary.LittleEndian.AppendUint16(out, inst.Word2)
		out = binary.LittleEndian.AppendUint16(out, inst.Word3)
	}
	out = binary.LittleEndian.AppendUint32(out, uint32(len(obj.MemoryData)))
	out = append(out, obj.MemoryData...)

	return
}

// LoadObject decodes an object from its JSON interchange form.
func LoadObject(data []byte) (obj *Object, err error) {
	obj = &Object{}
	err = json.Unmarshal(data, obj)
	if err != nil {
		obj = nil
	}
	return
}
