package analysis

import (
	"sbpf/internal/decoder"
	"sbpf/internal/lifter"
	"sbpf/internal/syscalls"
)

// CallFinding is one call site and what is known about its callee.
type CallFinding struct {
	Address   uint64 // address of the call instruction
	Imm       int64
	Syscall   bool
	Target    uint64 // code address of a local call, when HasTarget
	HasTarget bool
	Hashed    bool   // syscall named through the unsigned form of a negative immediate
	Name      string // syscall or function name, empty when unknown
	Kind      string // set by detectors, e.g. "cpi" or "log"
	Comment   string
}

// Detector interface for pattern detection on call findings
type Detector interface {
	// Detect analyzes call findings and enriches them with pattern-specific information
	// It can modify existing findings or add new ones
	Detect(findings []CallFinding) []CallFinding
}

// DetectorChain runs multiple detectors in sequence
type DetectorChain struct {
	detectors []Detector
}

// NewDetectorChain creates a new detector chain
func NewDetectorChain(detectors ...Detector) *DetectorChain {
	return &DetectorChain{
		detectors: detectors,
	}
}

// Detect runs all detectors in sequence
func (dc *DetectorChain) Detect(findings []CallFinding) []CallFinding {
	result := findings
	for _, detector := range dc.detectors {
		result = detector.Detect(result)
	}
	return result
}

// CollectCalls returns a finding for every call instruction, with syscall
// names resolved.
func CollectCalls(insts []decoder.Instruction) []CallFinding {
	var findings []CallFinding
	for _, inst := range insts {
		if inst.Opcode != decoder.Call {
			continue
		}
		f := CallFinding{Address: inst.Address, Imm: inst.Imm}
		if num, ok := inst.SyscallNumber(); ok {
			f.Syscall = true
			f.Name, _ = syscalls.Name(num)
		} else if num, ok := inst.HashedSyscallNumber(); ok {
			f.Name, f.Hashed = syscalls.Name(num)
		}
		if target, ok := lifter.CallTarget(inst); ok {
			f.Target, f.HasTarget = target, true
		}
		findings = append(findings, f)
	}
	return findings
}
