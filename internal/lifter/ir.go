// Package lifter translates decoded SBPF instructions into a small
// intermediate representation grouped by basic block.
package lifter

// Inst is one lifted instruction. The set of implementations is closed.
type Inst interface {
	isInst()
}

// Load reads a 64-bit word at Src+Offset into Dst.
type Load struct {
	Dst    uint8
	Src    uint8
	Offset int16
}

// Store writes Src to Dst+Offset.
type Store struct {
	Dst    uint8
	Src    uint8
	Offset int16
}

// Arithmetic is add, sub, mul, div, mod or mov.
type Arithmetic struct {
	Op     string
	Dst    uint8
	Src    uint8
	Imm    int64
	HasImm bool
}

// Logic is or, and, xor, lsh or rsh.
type Logic struct {
	Op     string
	Dst    uint8
	Src    uint8
	Imm    int64
	HasImm bool
}

// Jump transfers control to Target. Cond is empty for unconditional jumps.
type Jump struct {
	Cond   string
	Target uint64
	Dst    uint8
	Src    uint8
	Imm    int64
	HasImm bool
}

// Conditional reports whether the jump has a comparison.
func (j Jump) Conditional() bool { return j.Cond != "" }

// Call invokes a syscall or an in-program function.
type Call struct {
	Target    int64
	IsSyscall bool
}

// Return stands in for instructions the lifter has no richer form for.
type Return struct{}

// Exit terminates the program.
type Exit struct{}

func (Load) isInst()       {}
func (Store) isInst()      {}
func (Arithmetic) isInst() {}
func (Logic) isInst()      {}
func (Jump) isInst()       {}
func (Call) isInst()       {}
func (Return) isInst()     {}
func (Exit) isInst()       {}
