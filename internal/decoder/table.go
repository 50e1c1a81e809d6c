package decoder

// Classification is table driven. The high nibble of the opcode byte picks a
// load/store/ALU class; the 0xF row is split by the low nibble into the
// move/shift/jump/call/exit family. The canonical SBPF encodings emitted by
// the toolchain are laid over that grid for the bytes they occupy.

var nibbleClass = [15]Opcode{
	0x0: LdAbs,
	0x1: LdInd,
	0x2: Ldx,
	0x3: St,
	0x4: Stx,
	0x5: Add,
	0x6: Sub,
	0x7: Mul,
	0x8: Div,
	0x9: Or,
	0xa: And,
	0xb: Lsh,
	0xc: Rsh,
	0xd: Mod,
	0xe: Xor,
}

var nibbleFamily = [16]Opcode{
	0x0: Mov,
	0x1: Arsh,
	0x2: Ja,
	0x3: Jeq,
	0x4: Jgt,
	0x5: Jge,
	0x6: Jlt,
	0x7: Jle,
	0x8: Jset,
	0x9: Jne,
	0xa: Jsgt,
	0xb: Jsge,
	0xc: Jslt,
	0xd: Jsle,
	0xe: Call,
	0xf: Exit,
}

// eBPF instruction classes and field bits.
const (
	classLD    = 0x00
	classLDX   = 0x01
	classST    = 0x02
	classSTX   = 0x03
	classALU   = 0x04
	classJMP   = 0x05
	classALU64 = 0x07

	sourceReg = 0x08

	modeABS = 0x20
	modeIND = 0x40
	modeMEM = 0x60
)

var sizes = [4]byte{0x00, 0x08, 0x10, 0x18}

var aluOps = map[byte]Opcode{
	0x00: Add,
	0x10: Sub,
	0x20: Mul,
	0x30: Div,
	0x40: Or,
	0x50: And,
	0x60: Lsh,
	0x70: Rsh,
	0x90: Mod,
	0xa0: Xor,
	0xb0: Mov,
	0xc0: Arsh,
}

var jmpOps = map[byte]Opcode{
	0x10: Jeq,
	0x20: Jgt,
	0x30: Jge,
	0x40: Jset,
	0x50: Jne,
	0x60: Jsgt,
	0x70: Jsge,
	0xa0: Jlt,
	0xb0: Jle,
	0xc0: Jslt,
	0xd0: Jsle,
}

var (
	opcodeTable [256]Opcode
	canonical   [256]bool
)

func init() {
	for b := 0; b < 256; b++ {
		hi := b >> 4
		if hi < len(nibbleClass) {
			opcodeTable[b] = nibbleClass[hi]
			continue
		}
		opcodeTable[b] = nibbleFamily[b&0x0f]
	}

	set := func(b byte, op Opcode) {
		opcodeTable[b] = op
		canonical[b] = true
	}
	for _, sz := range sizes {
		set(classLD|modeABS|sz, LdAbs)
		set(classLD|modeIND|sz, LdInd)
		set(classLDX|modeMEM|sz, Ldx)
		set(classST|modeMEM|sz, St)
		set(classSTX|modeMEM|sz, Stx)
	}
	for code, op := range aluOps {
		for _, class := range []byte{classALU, classALU64} {
			set(code|class, op)
			set(code|class|sourceReg, op)
		}
	}
	for code, op := range jmpOps {
		set(code|classJMP, op)
		set(code|classJMP|sourceReg, op)
	}
	set(0x00|classJMP, Ja)
	set(0x80|classJMP, Call)
	set(0x90|classJMP, Exit)
}

// Lookup classifies an opcode byte. Bytes outside both tables map to Unknown(b).
func Lookup(b byte) Opcode {
	op := opcodeTable[b]
	if op >= numOpcodes {
		return Unknown(b)
	}
	return op
}

// IsCanonical reports whether b is one of the standard SBPF encodings.
func IsCanonical(b byte) bool {
	return canonical[b]
}
