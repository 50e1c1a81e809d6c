package analysis

import (
	"sbpf/internal/decoder"
	"sbpf/internal/program"
)

// Metadata describes the program as a whole.
type Metadata struct {
	ProgramSize      int
	EntryPoint       uint64
	InstructionCount int
	Version          *decoder.Version
	MetadataSections int
}

// ExtractMetadata summarizes bin. The version comes from the container when
// it records one, otherwise from the decoded code.
func ExtractMetadata(bin *program.Binary, insts []decoder.Instruction) Metadata {
	md := Metadata{
		ProgramSize:      len(bin.Bytecode),
		EntryPoint:       bin.EntryPoint,
		InstructionCount: len(insts),
		Version:          bin.Version,
		MetadataSections: len(bin.Metadata),
	}
	if md.Version == nil {
		if v, ok := decoder.DetectVersion(insts); ok {
			md.Version = &v
		}
	}
	return md
}
