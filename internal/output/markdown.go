package output

import (
	"fmt"
	"strings"

	"sbpf/internal/analysis"
	"sbpf/internal/decoder"
	"sbpf/internal/syscalls"
)

// MarkdownFormatter renders the report as markdown tables, for display
// through a terminal markdown renderer.
type MarkdownFormatter struct{}

func (MarkdownFormatter) Format(a *analysis.Analysis) (string, error) {
	var sb strings.Builder
	md := a.Metadata
	stats := a.Instructions
	cf := stats.ControlFlow

	row := func(k string, v any) { fmt.Fprintf(&sb, "| %s | %v |\n", k, v) }

	sb.WriteString("# SBPF Binary Analysis\n\n")

	sb.WriteString("## Metadata\n\n| Field | Value |\n|---|---|\n")
	row("Program Size", fmt.Sprintf("%d bytes", md.ProgramSize))
	row("Entry Point", fmt.Sprintf("`0x%x`", md.EntryPoint))
	row("Instruction Count", md.InstructionCount)
	row("SBPF Version", versionString(a))
	row("Metadata Sections", md.MetadataSections)

	sb.WriteString("\n## Instructions\n\n| Category | Count |\n|---|---|\n")
	for _, c := range decoder.Categories() {
		if n, ok := stats.ByCategory[c]; ok {
			row(c.String(), n)
		}
	}
	row("**Total**", stats.Total)

	if len(stats.ByOpcode) > 0 {
		sb.WriteString("\n| Opcode | Count |\n|---|---|\n")
		for _, name := range stats.TopOpcodes(analysis.TopOpcodes) {
			row("`"+name+"`", stats.ByOpcode[name])
		}
	}

	sb.WriteString("\n## Control Flow\n\n| Kind | Count |\n|---|---|\n")
	row("Jumps", cf.Jumps)
	row("Calls", cf.Calls)
	row("Exits", cf.Exits)
	row("Unique Jump Targets", len(cf.JumpTargets))

	sb.WriteString("\n## Syscalls\n\n")
	if len(a.Syscalls.Syscalls) == 0 {
		sb.WriteString("No syscalls.\n")
	} else {
		sb.WriteString("| Syscall | Number | Count |\n|---|---|---|\n")
		for _, num := range a.Syscalls.Syscalls {
			fmt.Fprintf(&sb, "| %s | %d | %d |\n", syscalls.NameOr(num, "unknown"), num, a.Syscalls.Frequency[num])
		}
	}

	if len(a.Calls) > 0 {
		sb.WriteString("\n## Call Sites\n\n| Address | Call |\n|---|---|\n")
		for _, c := range a.Calls {
			fmt.Fprintf(&sb, "| `0x%x` | %s |\n", c.Address, callText(c))
		}
	}

	if len(a.Strings) > 0 {
		sb.WriteString("\n## Strings\n\n")
		for _, s := range a.Strings {
			fmt.Fprintf(&sb, "- `%s+0x%x` %s\n", s.Section, s.Offset, strings.ReplaceAll(s.Value, "`", "'"))
		}
	}

	return sb.String(), nil
}
