package output

import (
	"encoding/json"
	"fmt"
	"strconv"

	"sbpf/internal/analysis"
)

// JSONFormatter renders the report as indented JSON. Addresses are 0x-prefixed
// hex strings and numeric map keys are decimal strings.
type JSONFormatter struct{}

type analysisJSON struct {
	Metadata     metadataJSON         `json:"metadata"`
	Instructions instructionStatsJSON `json:"instructions"`
	Syscalls     syscallInfoJSON      `json:"syscalls"`
	Calls        []callJSON           `json:"calls"`
	Strings      []stringJSON         `json:"strings"`
}

type metadataJSON struct {
	ProgramSize      int     `json:"program_size"`
	EntryPoint       string  `json:"entry_point"`
	InstructionCount int     `json:"instruction_count"`
	Version          *string `json:"version"`
	MetadataSections int     `json:"metadata_sections"`
}

type instructionStatsJSON struct {
	Total       int             `json:"total"`
	ByCategory  map[string]int  `json:"by_category"`
	ByOpcode    map[string]int  `json:"by_opcode"`
	ControlFlow controlFlowJSON `json:"control_flow"`
}

type controlFlowJSON struct {
	Jumps       int      `json:"jumps"`
	Calls       int      `json:"calls"`
	Exits       int      `json:"exits"`
	JumpTargets []string `json:"jump_targets"`
}

type syscallInfoJSON struct {
	Total     int            `json:"total"`
	Frequency map[string]int `json:"frequency"`
	Syscalls  []uint64       `json:"syscalls"`
}

type callJSON struct {
	Address string `json:"address"`
	Syscall bool   `json:"syscall"`
	Hashed  bool   `json:"hashed,omitempty"`
	Target  string `json:"target,omitempty"`
	Name    string `json:"name,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

type stringJSON struct {
	Section string `json:"section"`
	Offset  string `json:"offset"`
	Value   string `json:"value"`
}

func hex(v uint64) string {
	return fmt.Sprintf("0x%x", v)
}

func (JSONFormatter) Format(a *analysis.Analysis) (string, error) {
	out := analysisJSON{
		Metadata: metadataJSON{
			ProgramSize:      a.Metadata.ProgramSize,
			EntryPoint:       hex(a.Metadata.EntryPoint),
			InstructionCount: a.Metadata.InstructionCount,
			MetadataSections: a.Metadata.MetadataSections,
		},
		Instructions: instructionStatsJSON{
			Total:      a.Instructions.Total,
			ByCategory: make(map[string]int, len(a.Instructions.ByCategory)),
			ByOpcode:   a.Instructions.ByOpcode,
			ControlFlow: controlFlowJSON{
				Jumps:       a.Instructions.ControlFlow.Jumps,
				Calls:       a.Instructions.ControlFlow.Calls,
				Exits:       a.Instructions.ControlFlow.Exits,
				JumpTargets: make([]string, 0, len(a.Instructions.ControlFlow.JumpTargets)),
			},
		},
		Syscalls: syscallInfoJSON{
			Total:     a.Syscalls.Total,
			Frequency: make(map[string]int, len(a.Syscalls.Frequency)),
			Syscalls:  append([]uint64{}, a.Syscalls.Syscalls...),
		},
		Calls:   make([]callJSON, 0, len(a.Calls)),
		Strings: make([]stringJSON, 0, len(a.Strings)),
	}
	if a.Metadata.Version != nil {
		v := a.Metadata.Version.String()
		out.Metadata.Version = &v
	}
	for c, n := range a.Instructions.ByCategory {
		out.Instructions.ByCategory[c.String()] = n
	}
	for _, t := range a.Instructions.ControlFlow.JumpTargets {
		out.Instructions.ControlFlow.JumpTargets = append(out.Instructions.ControlFlow.JumpTargets, hex(t))
	}
	for num, n := range a.Syscalls.Frequency {
		out.Syscalls.Frequency[strconv.FormatUint(num, 10)] = n
	}
	for _, c := range a.Calls {
		cj := callJSON{Address: hex(c.Address), Syscall: c.Syscall, Hashed: c.Hashed, Name: c.Name, Kind: c.Kind}
		if c.HasTarget {
			cj.Target = hex(c.Target)
		}
		out.Calls = append(out.Calls, cj)
	}
	for _, s := range a.Strings {
		out.Strings = append(out.Strings, stringJSON{Section: s.Section, Offset: hex(s.Offset), Value: s.Value})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal analysis: %w", err)
	}
	return string(data), nil
}
