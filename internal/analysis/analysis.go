package analysis

import (
	"log/slog"

	"sbpf/internal/decoder"
	"sbpf/internal/program"
)

// Analysis is the complete report for one program.
type Analysis struct {
	Metadata     Metadata
	Instructions InstructionStats
	Syscalls     SyscallInfo
	Calls        []CallFinding
	Strings      []StringResult
}

// Analyze decodes bin and builds its report. det enriches the call
// findings and may be nil.
func Analyze(bin *program.Binary, det Detector) *Analysis {
	insts := decoder.DecodeAll(bin.Bytecode)

	calls := CollectCalls(insts)
	if det != nil {
		calls = det.Detect(calls)
	}

	a := &Analysis{
		Metadata:     ExtractMetadata(bin, insts),
		Instructions: CountInstructions(insts),
		Syscalls:     CountSyscalls(insts),
		Calls:        calls,
		Strings:      ExtractStrings(bin.Metadata, MinStringLength),
	}
	slog.Debug("analyzed",
		"instructions", a.Metadata.InstructionCount,
		"syscalls", a.Syscalls.Total,
		"strings", len(a.Strings))
	return a
}
