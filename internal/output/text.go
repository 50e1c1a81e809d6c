package output

import (
	"fmt"
	"strings"

	"sbpf/internal/analysis"
	"sbpf/internal/decoder"
	"sbpf/internal/syscalls"
)

// TextFormatter renders the report as indented plain-text sections.
type TextFormatter struct{}

func (TextFormatter) Format(a *analysis.Analysis) (string, error) {
	var sb strings.Builder
	md := a.Metadata
	stats := a.Instructions
	cf := stats.ControlFlow

	sb.WriteString("=== SBPF Binary Analysis ===\n\n")

	sb.WriteString("## Metadata\n")
	fmt.Fprintf(&sb, "Program Size: %d bytes\n", md.ProgramSize)
	fmt.Fprintf(&sb, "Entry Point: 0x%x\n", md.EntryPoint)
	fmt.Fprintf(&sb, "Instruction Count: %d\n", md.InstructionCount)
	fmt.Fprintf(&sb, "SBPF Version: %s\n", versionString(a))
	fmt.Fprintf(&sb, "Metadata Sections: %d\n", md.MetadataSections)
	sb.WriteString("\n")

	sb.WriteString("## Instruction Statistics\n")
	fmt.Fprintf(&sb, "Total Instructions: %d\n", stats.Total)
	sb.WriteString("\nBy Category:\n")
	for _, c := range decoder.Categories() {
		if n, ok := stats.ByCategory[c]; ok {
			fmt.Fprintf(&sb, "  %s: %d\n", c, n)
		}
	}
	sb.WriteString("\nBy Opcode:\n")
	for _, name := range stats.TopOpcodes(analysis.TopOpcodes) {
		fmt.Fprintf(&sb, "  %s: %d\n", name, stats.ByOpcode[name])
	}
	sb.WriteString("\n")

	sb.WriteString("## Control Flow\n")
	fmt.Fprintf(&sb, "Jumps: %d\n", cf.Jumps)
	fmt.Fprintf(&sb, "Calls: %d\n", cf.Calls)
	fmt.Fprintf(&sb, "Exits: %d\n", cf.Exits)
	fmt.Fprintf(&sb, "Unique Jump Targets: %d\n", len(cf.JumpTargets))
	sb.WriteString("\n")

	sb.WriteString("## Syscalls\n")
	fmt.Fprintf(&sb, "Total Syscalls: %d\n", a.Syscalls.Total)
	if len(a.Syscalls.Syscalls) > 0 {
		sb.WriteString("Syscall Usage:\n")
		for _, num := range a.Syscalls.Syscalls {
			fmt.Fprintf(&sb, "  %s (%d): %d\n", syscalls.NameOr(num, "unknown"), num, a.Syscalls.Frequency[num])
		}
	}
	sb.WriteString("\n")

	if len(a.Calls) > 0 {
		sb.WriteString("## Call Sites\n")
		for _, c := range a.Calls {
			fmt.Fprintf(&sb, "  0x%x: %s\n", c.Address, callText(c))
		}
		sb.WriteString("\n")
	}

	if len(a.Strings) > 0 {
		sb.WriteString("## Strings\n")
		for _, s := range a.Strings {
			fmt.Fprintf(&sb, "  %s+0x%x: %q\n", s.Section, s.Offset, s.Value)
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func callText(c analysis.CallFinding) string {
	switch {
	case c.Comment != "":
		return c.Comment
	case c.Name != "":
		return c.Name
	case c.Syscall:
		return fmt.Sprintf("syscall %d", c.Imm)
	}
	return fmt.Sprintf("call %d", c.Imm)
}
