package colorize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "fn main() {\n    r1 = r1 + 2;\n    return;\n}\n"

func TestDisabled(t *testing.T) {
	t.Setenv("SBPF_NO_COLOR", "1")
	assert.False(t, Enabled())

	out, err := Pseudocode(sample)
	require.NoError(t, err)
	assert.Equal(t, sample, out)

	out, err = Assembly("0x0: exit r0\n")
	require.NoError(t, err)
	assert.Equal(t, "0x0: exit r0\n", out)
}

func TestPseudocodeHighlight(t *testing.T) {
	t.Setenv("SBPF_NO_COLOR", "")
	out, err := Pseudocode(sample)
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[")
	plain := StripANSI(out)
	assert.Contains(t, plain, "r1 = r1 + 2;")
	assert.Contains(t, plain, "fn main()")
}

func TestAssemblyHighlight(t *testing.T) {
	t.Setenv("SBPF_NO_COLOR", "")
	out, err := Assembly("0x0: mov r1, 2\n0x8: exit r0\n")
	require.NoError(t, err)
	assert.Contains(t, StripANSI(out), "exit r0")
}

func TestStripANSI(t *testing.T) {
	assert.Equal(t, "mov r1", StripANSI("\x1b[38;2;1;2;3mmov\x1b[0m r1"))
	assert.Equal(t, "plain", StripANSI("plain"))
}
