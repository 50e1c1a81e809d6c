package decoder

import "encoding/binary"

// Decode decodes the instruction slot starting at off.
// It returns false when fewer than InstructionSize bytes remain.
func Decode(code []byte, off int) (Instruction, bool) {
	if off < 0 || off+InstructionSize > len(code) {
		return Instruction{}, false
	}
	b := code[off : off+InstructionSize]

	// [opcode:8] [dst:4 src:4] [off:16] [imm:32]
	return Instruction{
		Address: uint64(off),
		Opcode:  Lookup(b[0]),
		Code:    b[0],
		Dst:     b[1] & 0x0f,
		Src:     b[1] >> 4,
		Off:     int16(binary.LittleEndian.Uint16(b[2:4])),
		Imm:     int64(int32(binary.LittleEndian.Uint32(b[4:8]))),
		Size:    InstructionSize,
	}, true
}

// DecodeAll decodes every complete slot in code. A trailing fragment shorter
// than one slot is skipped.
func DecodeAll(code []byte) []Instruction {
	insts := make([]Instruction, 0, len(code)/InstructionSize)
	for off := 0; off < len(code); {
		inst, ok := Decode(code, off)
		if !ok {
			off += InstructionSize
			continue
		}
		insts = append(insts, inst)
		off += inst.Size
	}
	return insts
}
