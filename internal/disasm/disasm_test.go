package disasm

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sbpf/internal/decoder"
	"sbpf/internal/syscalls"
)

func encode(code byte, dst, src uint8, off int16, imm int32) []byte {
	b := make([]byte, decoder.InstructionSize)
	b[0] = code
	b[1] = dst | src<<4
	binary.LittleEndian.PutUint16(b[2:4], uint16(off))
	binary.LittleEndian.PutUint32(b[4:8], uint32(imm))
	return b
}

func TestDisassembleHashedSyscall(t *testing.T) {
	s := Disassemble(decoder.DecodeAll(encode(0x85, 0, 0, 0, int32(syscalls.Hash("abort")))))
	require.Len(t, s, 1)
	assert.Equal(t, "-1224992239", s[0].Operands)
	assert.Equal(t, "syscall 0xb6fc1a11 (abort)", s[0].Comment)

	s = Disassemble(decoder.DecodeAll(encode(0x85, 0, 0, 0, -2)))
	require.Len(t, s, 1)
	assert.Empty(t, s[0].Comment)
}

func TestDisassembleOperands(t *testing.T) {
	tests := []struct {
		name     string
		raw      []byte
		mnemonic string
		operands string
		comment  string
	}{
		{"mov imm", encode(0xb7, 1, 0, 0, 42), "mov", "r1, 42", ""},
		{"mov reg", encode(0xbf, 1, 2, 0, 0), "mov", "r1, r2", ""},
		{"ja", encode(0x05, 0, 0, 0, 2), "ja", "r0, r0, 0x3", ""},
		{"jsgt keeps target", encode(0x65, 3, 4, 0, 9), "jsgt", "r3, r4, 0xa", ""},
		{"ldabs", encode(0x20, 0, 0, 0, 12), "ldabs", "r0, [12]", ""},
		{"ldx", encode(0x79, 1, 2, 0, 0), "ldx", "r1, [r2+0]", ""},
		{"ldx negative", encode(0x61, 3, 10, -4, 0), "ldx", "r3, [r10+-4]", ""},
		{"st", encode(0x7a, 10, 0, -8, 5), "st", "[r10+-8], 5", ""},
		{"stx", encode(0x7b, 10, 1, -16, 0), "stx", "[r10+-16], r1", ""},
		{"exit", encode(0x95, 0, 0, 0, 0), "exit", "r0", ""},
		{"add imm", encode(0x07, 1, 0, 0, 8), "add", "r1, r0, 8", ""},
		{"add reg", encode(0x0f, 1, 2, 0, 0), "add", "r1, r2", ""},
		{"internal call", encode(0x85, 0, 1, 0, -1), "call", "-1", ""},
		{"legacy syscall", encode(0x85, 0, 0, 0, 12), "call", "syscall_12", "syscall 12 (sol_memcpy)"},
		{"unnamed syscall", encode(0x85, 0, 0, 0, 999), "call", "syscall_999", "syscall 999"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := Disassemble(decoder.DecodeAll(tc.raw))
			require.Len(t, s, 1)
			assert.Equal(t, tc.mnemonic, s[0].Mnemonic)
			assert.Equal(t, tc.operands, s[0].Operands)
			assert.Equal(t, tc.comment, s[0].Comment)
		})
	}
}

func TestStreamString(t *testing.T) {
	var code []byte
	code = append(code, encode(0xb7, 0, 0, 0, 0)...)
	code = append(code, encode(0x85, 0, 0, 0, 12)...)
	code = append(code, encode(0x95, 0, 0, 0, 0)...)

	s := Disassemble(decoder.DecodeAll(code))
	assert.Equal(t,
		"0x0: mov r0, 0\n"+
			"0x8: call syscall_12 ; syscall 12 (sol_memcpy)\n"+
			"0x10: exit r0\n",
		s.String())
}

func TestDisassembleEmpty(t *testing.T) {
	assert.Empty(t, Disassemble(nil))
	assert.Equal(t, "", Disassemble(nil).String())
}
