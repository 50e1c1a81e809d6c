package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sbpf/internal/analysis"
	"sbpf/internal/decoder"
)

func sample() *analysis.Analysis {
	v := decoder.V1
	return &analysis.Analysis{
		Metadata: analysis.Metadata{
			ProgramSize:      32,
			EntryPoint:       0x120,
			InstructionCount: 4,
			Version:          &v,
			MetadataSections: 2,
		},
		Instructions: analysis.InstructionStats{
			Total:      4,
			ByCategory: map[decoder.Category]int{decoder.ControlFlow: 3, decoder.Arithmetic: 1},
			ByOpcode:   map[string]int{"mov": 1, "call": 2, "exit": 1},
			ControlFlow: analysis.ControlFlowInfo{
				Calls:       2,
				Exits:       1,
				JumpTargets: []uint64{},
			},
		},
		Syscalls: analysis.SyscallInfo{
			Total:     2,
			Frequency: map[uint64]int{12: 1, 999: 1},
			Syscalls:  []uint64{12, 999},
		},
		Calls: []analysis.CallFinding{
			{Address: 8, Imm: 12, Syscall: true, Name: "sol_memcpy", Kind: "memory", Comment: "sol_memcpy (memory)"},
			{Address: 16, Imm: 999, Syscall: true},
		},
		Strings: []analysis.StringResult{{Section: ".rodata", Offset: 4, Value: "hello", Len: 5}},
	}
}

func TestTextFormatter(t *testing.T) {
	out, err := TextFormatter{}.Format(sample())
	require.NoError(t, err)

	want := "=== SBPF Binary Analysis ===\n\n" +
		"## Metadata\n" +
		"Program Size: 32 bytes\n" +
		"Entry Point: 0x120\n" +
		"Instruction Count: 4\n" +
		"SBPF Version: V1\n" +
		"Metadata Sections: 2\n\n" +
		"## Instruction Statistics\n" +
		"Total Instructions: 4\n\n" +
		"By Category:\n" +
		"  Arithmetic: 1\n" +
		"  ControlFlow: 3\n\n" +
		"By Opcode:\n" +
		"  call: 2\n" +
		"  exit: 1\n" +
		"  mov: 1\n\n" +
		"## Control Flow\n" +
		"Jumps: 0\n" +
		"Calls: 2\n" +
		"Exits: 1\n" +
		"Unique Jump Targets: 0\n\n" +
		"## Syscalls\n" +
		"Total Syscalls: 2\n" +
		"Syscall Usage:\n" +
		"  sol_memcpy (12): 1\n" +
		"  unknown (999): 1\n\n" +
		"## Call Sites\n" +
		"  0x8: sol_memcpy (memory)\n" +
		"  0x10: syscall 999\n\n" +
		"## Strings\n" +
		"  .rodata+0x4: \"hello\"\n\n"
	assert.Equal(t, want, out)
}

func TestTextFormatterUnknownVersion(t *testing.T) {
	a := sample()
	a.Metadata.Version = nil
	out, err := TextFormatter{}.Format(a)
	require.NoError(t, err)
	assert.Contains(t, out, "SBPF Version: Unknown\n")
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{}.Format(sample())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	md := got["metadata"].(map[string]any)
	assert.Equal(t, "0x120", md["entry_point"])
	assert.Equal(t, "V1", md["version"])
	assert.Equal(t, float64(32), md["program_size"])

	inst := got["instructions"].(map[string]any)
	assert.Equal(t, map[string]any{"ControlFlow": float64(3), "Arithmetic": float64(1)}, inst["by_category"])
	cf := inst["control_flow"].(map[string]any)
	assert.Equal(t, []any{}, cf["jump_targets"])

	sc := got["syscalls"].(map[string]any)
	assert.Equal(t, map[string]any{"12": float64(1), "999": float64(1)}, sc["frequency"])
	assert.Equal(t, []any{float64(12), float64(999)}, sc["syscalls"])

	calls := got["calls"].([]any)
	require.Len(t, calls, 2)
	assert.Equal(t, "0x8", calls[0].(map[string]any)["address"])

	assert.True(t, strings.HasPrefix(out, "{\n  \"metadata\": {"))
}

func TestJSONFormatterNullVersion(t *testing.T) {
	a := sample()
	a.Metadata.Version = nil
	out, err := JSONFormatter{}.Format(a)
	require.NoError(t, err)
	assert.Contains(t, out, "\"version\": null")
}

func TestMarkdownFormatter(t *testing.T) {
	out, err := MarkdownFormatter{}.Format(sample())
	require.NoError(t, err)
	assert.Contains(t, out, "| Entry Point | `0x120` |\n")
	assert.Contains(t, out, "| sol_memcpy | 12 | 1 |\n")
	assert.Contains(t, out, "- `.rodata+0x4` hello\n")
}

func TestForName(t *testing.T) {
	for _, name := range Formats {
		f, err := ForName(name)
		require.NoError(t, err)
		assert.NotNil(t, f)
	}
	_, err := ForName("yaml")
	assert.Error(t, err)
}
