// Package disasm renders decoded SBPF instructions as assembly text.
package disasm

import (
	"fmt"
	"strings"

	"sbpf/internal/decoder"
	"sbpf/internal/syscalls"
)

// Inst is one disassembled instruction.
type Inst struct {
	Address  uint64 // byte offset from the start of the code region
	Mnemonic string // lowercase opcode name, or unknown_XX
	Operands string
	Comment  string // empty when there is nothing to note
}

// Text returns the instruction as a single assembly line.
func (i Inst) Text() string {
	var sb strings.Builder
	sb.WriteString(i.Mnemonic)
	if i.Operands != "" {
		sb.WriteByte(' ')
		sb.WriteString(i.Operands)
	}
	if i.Comment != "" {
		sb.WriteString(" ; ")
		sb.WriteString(i.Comment)
	}
	return sb.String()
}

// Stream is a linear sequence of instructions.
type Stream []Inst

// String lists the stream one instruction per line, prefixed by address.
func (s Stream) String() string {
	var sb strings.Builder
	for _, in := range s {
		fmt.Fprintf(&sb, "0x%x: %s\n", in.Address, in.Text())
	}
	return sb.String()
}

// Disassemble formats every instruction in order.
func Disassemble(insts []decoder.Instruction) Stream {
	out := make(Stream, 0, len(insts))
	for _, inst := range insts {
		out = append(out, Inst{
			Address:  inst.Address,
			Mnemonic: inst.Opcode.String(),
			Operands: operands(inst),
			Comment:  comment(inst),
		})
	}
	return out
}

func operands(inst decoder.Instruction) string {
	switch op := inst.Opcode; {
	case op == decoder.Call:
		if inst.IsSyscall() {
			return fmt.Sprintf("syscall_%d", inst.Imm)
		}
		return fmt.Sprintf("%d", inst.Imm)
	case op.IsJump():
		return fmt.Sprintf("r%d, r%d, 0x%x", inst.Dst, inst.Src, inst.JumpTarget())
	case op == decoder.LdAbs, op == decoder.LdInd:
		return fmt.Sprintf("r%d, [%d]", inst.Dst, inst.Imm)
	case op == decoder.Ldx:
		return fmt.Sprintf("r%d, [r%d+%d]", inst.Dst, inst.Src, inst.Off)
	case op == decoder.St:
		return fmt.Sprintf("[r%d+%d], %d", inst.Dst, inst.Off, inst.Imm)
	case op == decoder.Stx:
		return fmt.Sprintf("[r%d+%d], r%d", inst.Dst, inst.Off, inst.Src)
	case op == decoder.Mov:
		if inst.HasImmediate() {
			return fmt.Sprintf("r%d, %d", inst.Dst, inst.Imm)
		}
		return fmt.Sprintf("r%d, r%d", inst.Dst, inst.Src)
	case op == decoder.Exit:
		return fmt.Sprintf("r%d", inst.Dst)
	}
	if inst.Imm != 0 {
		return fmt.Sprintf("r%d, r%d, %d", inst.Dst, inst.Src, inst.Imm)
	}
	return fmt.Sprintf("r%d, r%d", inst.Dst, inst.Src)
}

func comment(inst decoder.Instruction) string {
	if num, ok := inst.SyscallNumber(); ok {
		if name, ok := syscalls.Name(num); ok {
			return fmt.Sprintf("syscall %d (%s)", num, name)
		}
		return fmt.Sprintf("syscall %d", num)
	}
	if num, ok := inst.HashedSyscallNumber(); ok {
		if name, ok := syscalls.Name(num); ok {
			return fmt.Sprintf("syscall 0x%x (%s)", num, name)
		}
	}
	return ""
}
