package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mov r1, 1; jeq r1, 0, 0x18; call 1; exit
var code = []byte{
	0xb7, 0x01, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00,
	0x15, 0x01, 0x00, 0x00, 0x0f, 0x00, 0x00, 0x00,
	0x85, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00,
	0x95, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

func writeProgram(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.so")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestAnalyzeFile(t *testing.T) {
	a, err := analyzeFile(writeProgram(t, code))
	require.NoError(t, err)
	assert.Equal(t, 4, a.Instructions.Total)
	assert.Equal(t, 1, a.Syscalls.Total)

	_, err = analyzeFile(filepath.Join(t.TempDir(), "missing.so"))
	assert.Error(t, err)
}

func TestRenderReport(t *testing.T) {
	a, err := analyzeFile(writeProgram(t, code))
	require.NoError(t, err)

	out, err := renderReport(a, "json", false)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc, "metadata")

	out, err = renderReport(a, "text", false)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "=== SBPF Binary Analysis ===\n"))

	out, err = renderReport(a, "text", true)
	require.NoError(t, err)
	assert.Contains(t, out, "Metadata")

	_, err = renderReport(a, "yaml", false)
	assert.Error(t, err)
}

func TestAnalyzerCommand(t *testing.T) {
	path := writeProgram(t, code)

	var out bytes.Buffer
	analyzerCmd.SetOut(&out)
	analyzerCmd.SetArgs([]string{"-f", "json", path})
	t.Cleanup(func() { analyzerCmd.SetArgs(nil) })
	require.NoError(t, analyzerCmd.Execute())

	var doc struct {
		Metadata struct {
			InstructionCount int `json:"instruction_count"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, 4, doc.Metadata.InstructionCount)
}

func TestDiffReports(t *testing.T) {
	out, err := diffReports([]byte(`{"a":1,"b":[1,2]}`), []byte(`{"a":1,"b":[1,2]}`), false)
	require.NoError(t, err)
	assert.Equal(t, "No differences\n", out)

	out, err = diffReports([]byte(`{"a":1,"b":[1,2]}`), []byte(`{"a":2,"b":[1,2]}`), false)
	require.NoError(t, err)
	assert.Contains(t, out, `"a": 1`)
	assert.Contains(t, out, `"a": 2`)

	_, err = diffReports([]byte(`not json`), []byte(`{}`), false)
	assert.Error(t, err)
}

func TestReportJSONDiffersAcrossPrograms(t *testing.T) {
	left, err := reportJSON(writeProgram(t, code))
	require.NoError(t, err)
	right, err := reportJSON(writeProgram(t, code[:24]))
	require.NoError(t, err)

	out, err := diffReports(left, right, false)
	require.NoError(t, err)
	assert.NotEqual(t, "No differences\n", out)
	assert.Contains(t, out, "instruction_count")
}

func TestDecompilerCommandWritesFile(t *testing.T) {
	path := writeProgram(t, code)
	dest := filepath.Join(t.TempDir(), "out.rs")

	decompilerCmd.SetArgs([]string{"-o", dest, path})
	t.Cleanup(func() { decompilerCmd.SetArgs(nil) })
	require.NoError(t, decompilerCmd.Execute())

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "// Decompiled SBPF Program\n"))
	assert.Contains(t, string(data), "    // Basic block at 0x18\n")
}

func TestRenderGraph(t *testing.T) {
	res, err := decompileFile(writeProgram(t, code))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, renderGraph(&buf, "dot", "prog.so", res.Blocks))
	assert.Contains(t, buf.String(), "b_0 -> b_18;")
	assert.Contains(t, buf.String(), "b_0 -> b_10 [style=dashed];")

	buf.Reset()
	require.NoError(t, renderGraph(&buf, "tree", "prog.so", res.Blocks))
	assert.Contains(t, buf.String(), "prog.so (3 blocks)")

	buf.Reset()
	require.NoError(t, renderGraph(&buf, "html", "prog.so", res.Blocks))
	assert.Contains(t, buf.String(), "<html")

	assert.Error(t, renderGraph(&buf, "svg", "prog.so", res.Blocks))
}

func TestWriteOutput(t *testing.T) {
	var out bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)
	require.NoError(t, writeOutput(c, Config{}, "hello"))
	assert.Equal(t, "hello\n", out.String())

	dest := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, writeOutput(c, Config{Output: dest}, "hello"))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	assert.Error(t, writeOutput(c, Config{Output: filepath.Join(t.TempDir(), "no", "such", "dir")}, "x"))
}

func TestStyledRequiresTerminal(t *testing.T) {
	var out bytes.Buffer
	assert.False(t, Config{}.Styled(&out))
	assert.False(t, Config{Output: "x"}.Styled(os.Stdout))
	assert.False(t, Config{NoColor: true}.Styled(os.Stdout))
}

func TestSchemaCommand(t *testing.T) {
	var out bytes.Buffer
	schema := newSchemaCmd()
	schema.SetOut(&out)
	require.NoError(t, schema.RunE(schema, nil))

	assert.Contains(t, out.String(), `"format"`)
	assert.Contains(t, out.String(), `"noColor"`)
	assert.True(t, json.Valid(out.Bytes()))
}

func TestViewModel(t *testing.T) {
	t.Setenv("SBPF_NO_COLOR", "1")
	path := writeProgram(t, code)

	m := newModel(path)
	assert.True(t, m.loading)
	assert.Contains(t, m.View(), "Decompiling")

	msg := decompileCmd(path)()
	updated, _ := m.Update(msg)
	m = updated.(model)
	require.NoError(t, m.err)
	assert.False(t, m.loading)
	assert.Len(t, m.blocks.Items(), 3)
	assert.Contains(t, m.View(), "// Decompiled SBPF Program")

	m.mode = viewAssembly
	m.updateContent()
	assert.Contains(t, m.View(), "0x18: exit r0")
	assert.Equal(t, 3, m.assemblyLine(0x18))
}

func TestViewModelLoadError(t *testing.T) {
	t.Setenv("SBPF_NO_COLOR", "1")
	path := filepath.Join(t.TempDir(), "missing.so")

	m := newModel(path)
	updated, _ := m.Update(decompileCmd(path)())
	m = updated.(model)
	assert.Error(t, m.err)
	assert.Contains(t, m.View(), "Error:")
}

func TestBlockItems(t *testing.T) {
	res, err := decompileFile(writeProgram(t, code))
	require.NoError(t, err)

	items := blockItems(res.Program)
	require.Len(t, items, 3)
	first := items[0].(blockItem)
	assert.Equal(t, uint64(0), first.address)
	assert.Equal(t, "entry", first.function)
	assert.Equal(t, []uint64{0x18}, first.succs)
	assert.Empty(t, items[1].(blockItem).succs)
}
