// Package decoder turns raw SBPF bytecode into fixed-width instruction records.
package decoder

import "fmt"

// Opcode is the operation selected by an instruction's first byte.
// Unrecognized bytes are carried as Unknown(b) so the set stays closed.
type Opcode uint16

const (
	// Load/Store
	LdAbs Opcode = iota
	LdInd
	Ldx
	St
	Stx
	// ALU
	Add
	Sub
	Mul
	Div
	Or
	And
	Lsh
	Rsh
	Mod
	Xor
	Mov
	Arsh
	// Jump
	Ja
	Jeq
	Jgt
	Jge
	Jlt
	Jle
	Jset
	Jne
	Jsgt
	Jsge
	Jslt
	Jsle
	Call
	Exit

	numOpcodes

	unknownBase Opcode = 0x100
)

var opcodeNames = [numOpcodes]string{
	LdAbs: "ldabs",
	LdInd: "ldind",
	Ldx:   "ldx",
	St:    "st",
	Stx:   "stx",
	Add:   "add",
	Sub:   "sub",
	Mul:   "mul",
	Div:   "div",
	Or:    "or",
	And:   "and",
	Lsh:   "lsh",
	Rsh:   "rsh",
	Mod:   "mod",
	Xor:   "xor",
	Mov:   "mov",
	Arsh:  "arsh",
	Ja:    "ja",
	Jeq:   "jeq",
	Jgt:   "jgt",
	Jge:   "jge",
	Jlt:   "jlt",
	Jle:   "jle",
	Jset:  "jset",
	Jne:   "jne",
	Jsgt:  "jsgt",
	Jsge:  "jsge",
	Jslt:  "jslt",
	Jsle:  "jsle",
	Call:  "call",
	Exit:  "exit",
}

// Unknown returns the catch-all opcode for an unmapped byte.
func Unknown(b byte) Opcode {
	return unknownBase | Opcode(b)
}

// IsUnknown reports whether op is an Unknown(b) value.
func (op Opcode) IsUnknown() bool {
	return op >= unknownBase
}

// UnknownByte returns the raw byte of an Unknown opcode.
func (op Opcode) UnknownByte() (byte, bool) {
	if !op.IsUnknown() {
		return 0, false
	}
	return byte(op & 0xff), true
}

// String returns the lowercase mnemonic, or unknown_XX for unmapped bytes.
func (op Opcode) String() string {
	if b, ok := op.UnknownByte(); ok {
		return fmt.Sprintf("unknown_%02x", b)
	}
	if op < numOpcodes {
		return opcodeNames[op]
	}
	return fmt.Sprintf("opcode(%d)", uint16(op))
}

// Opcodes lists every named opcode in declaration order.
func Opcodes() []Opcode {
	ops := make([]Opcode, 0, numOpcodes)
	for op := LdAbs; op < numOpcodes; op++ {
		ops = append(ops, op)
	}
	return ops
}

// Category groups opcodes by what they do.
type Category int

const (
	LoadStore Category = iota
	Arithmetic
	Logic
	ControlFlow
	Misc
)

var categoryNames = [...]string{
	LoadStore:   "LoadStore",
	Arithmetic:  "Arithmetic",
	Logic:       "Logic",
	ControlFlow: "ControlFlow",
	Misc:        "Misc",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// Categories lists every category in report order.
func Categories() []Category {
	return []Category{LoadStore, Arithmetic, Logic, ControlFlow, Misc}
}

// Category classifies op. Every opcode has exactly one category.
func (op Opcode) Category() Category {
	switch op {
	case LdAbs, LdInd, Ldx, St, Stx:
		return LoadStore
	case Add, Sub, Mul, Div, Mod, Mov, Arsh:
		return Arithmetic
	case Or, And, Xor, Lsh, Rsh:
		return Logic
	case Ja, Jeq, Jgt, Jge, Jlt, Jle, Jset, Jne, Jsgt, Jsge, Jslt, Jsle, Call, Exit:
		return ControlFlow
	default:
		return Misc
	}
}

// IsJump reports whether op is one of the conditional or unconditional jumps.
func (op Opcode) IsJump() bool {
	switch op {
	case Ja, Jeq, Jgt, Jge, Jlt, Jle, Jset, Jne, Jsgt, Jsge, Jslt, Jsle:
		return true
	}
	return false
}

// hasBranchTarget reports whether the branch target of op can be computed.
// The signed and bit-test compares are not included.
func (op Opcode) hasBranchTarget() bool {
	switch op {
	case Ja, Jeq, Jne, Jgt, Jge, Jlt, Jle:
		return true
	}
	return false
}
