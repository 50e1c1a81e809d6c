package decoder

import "fmt"

// InstructionSize is the width of every SBPF instruction slot in bytes.
const InstructionSize = 8

// Instruction is one decoded instruction slot.
type Instruction struct {
	Address uint64 // byte offset from the start of the code
	Opcode  Opcode
	Code    byte  // raw opcode byte
	Dst     uint8 // destination register (0-10)
	Src     uint8 // source register (0-10)
	Off     int16
	Imm     int64 // 32-bit immediate, sign extended
	Size    int
}

// Category returns the category of the instruction's opcode.
func (i Instruction) Category() Category {
	return i.Opcode.Category()
}

// IsSyscall reports whether the instruction calls into the host runtime.
func (i Instruction) IsSyscall() bool {
	return i.Opcode == Call && i.Imm > 0
}

// SyscallNumber returns the immediate of a syscall instruction.
func (i Instruction) SyscallNumber() (uint64, bool) {
	if !i.IsSyscall() {
		return 0, false
	}
	return uint64(i.Imm), true
}

// HashedSyscallNumber returns the unsigned immediate of a call that is not
// pc-relative and whose immediate is negative. Runtime syscall hashes at or
// above 2^31 sign-extend to such immediates and fail IsSyscall.
func (i Instruction) HashedSyscallNumber() (uint64, bool) {
	if i.Opcode != Call || i.Src == 1 || i.Imm >= 0 {
		return 0, false
	}
	return uint64(uint32(i.Imm)), true
}

// End returns the address one past the instruction.
func (i Instruction) End() uint64 {
	return i.Address + uint64(i.Size)
}

// JumpTarget applies the branch formula address + imm + 1 without checking
// the opcode. The displacement is added to the byte address unscaled.
func (i Instruction) JumpTarget() uint64 {
	return uint64(int64(i.Address) + i.Imm + 1)
}

// BranchTarget returns the jump target for Ja and the unsigned/equality
// conditional jumps. Call, Exit and the signed or bit-test compares have none.
func (i Instruction) BranchTarget() (uint64, bool) {
	if !i.Opcode.hasBranchTarget() {
		return 0, false
	}
	return i.JumpTarget(), true
}

// HasImmediate reports whether the immediate is an operand of the instruction.
// Canonical ALU and jump encodings say so explicitly through their source bit;
// other encodings fall back to treating a zero immediate as absent.
func (i Instruction) HasImmediate() bool {
	if IsCanonical(i.Code) {
		switch i.Code & 0x07 {
		case classALU, classALU64, classJMP:
			return i.Code&sourceReg == 0
		case classST:
			return true
		}
	}
	return i.Imm != 0
}

func (i Instruction) String() string {
	return fmt.Sprintf("%#x: %s dst=r%d src=r%d off=%d imm=%d",
		i.Address, i.Opcode, i.Dst, i.Src, i.Off, i.Imm)
}
