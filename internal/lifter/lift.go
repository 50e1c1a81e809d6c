package lifter

import "sbpf/internal/decoder"

var conditions = map[decoder.Opcode]string{
	decoder.Jeq: "==",
	decoder.Jne: "!=",
	decoder.Jgt: ">",
	decoder.Jge: ">=",
	decoder.Jlt: "<",
	decoder.Jle: "<=",
}

// Lift maps a single instruction to its IR form. It never fails:
// anything without a better image becomes Return, including St, Arsh,
// the signed and bit-test compares, and the packet loads.
func Lift(inst decoder.Instruction) Inst {
	switch inst.Opcode {
	case decoder.Ldx:
		return Load{Dst: inst.Dst, Src: inst.Src, Offset: inst.Off}
	case decoder.Stx:
		return Store{Dst: inst.Dst, Src: inst.Src, Offset: inst.Off}
	case decoder.Add, decoder.Sub, decoder.Mul, decoder.Div, decoder.Mod, decoder.Mov:
		a := Arithmetic{Op: inst.Opcode.String(), Dst: inst.Dst, Src: inst.Src}
		if inst.HasImmediate() {
			a.Imm, a.HasImm = inst.Imm, true
		}
		return a
	case decoder.Or, decoder.And, decoder.Xor, decoder.Lsh, decoder.Rsh:
		l := Logic{Op: inst.Opcode.String(), Dst: inst.Dst, Src: inst.Src}
		if inst.HasImmediate() {
			l.Imm, l.HasImm = inst.Imm, true
		}
		return l
	case decoder.Call:
		return Call{Target: inst.Imm, IsSyscall: inst.IsSyscall()}
	case decoder.Exit:
		return Exit{}
	}

	if target, ok := inst.BranchTarget(); ok {
		j := Jump{Cond: conditions[inst.Opcode], Target: target, Dst: inst.Dst, Src: inst.Src}
		if inst.HasImmediate() {
			j.Imm, j.HasImm = inst.Imm, true
		}
		return j
	}
	return Return{}
}

// LiftAll lifts insts in order.
func LiftAll(insts []decoder.Instruction) []Inst {
	out := make([]Inst, len(insts))
	for i, inst := range insts {
		out[i] = Lift(inst)
	}
	return out
}
