package pseudocode

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sbpf/internal/cfg"
	"sbpf/internal/decoder"
	"sbpf/internal/disasm"
	"sbpf/internal/lifter"
)

const header = "// Decompiled SBPF Program\n// Generated pseudocode\n\nfn entry() -> Result<(), Error> {\n"

func encode(code byte, dst, src uint8, off int16, imm int32) []byte {
	b := make([]byte, decoder.InstructionSize)
	b[0] = code
	b[1] = dst | src<<4
	binary.LittleEndian.PutUint16(b[2:4], uint16(off))
	binary.LittleEndian.PutUint32(b[4:8], uint32(imm))
	return b
}

func generate(code []byte) string {
	insts := decoder.DecodeAll(code)
	prog := lifter.LiftProgram(insts, cfg.Build(insts), nil)
	return Generate(prog, disasm.Disassemble(insts))
}

func TestGenerateEmpty(t *testing.T) {
	assert.Equal(t, header+"}\n\n// Assembly reference:\n", generate(nil))
}

func TestGenerateExit(t *testing.T) {
	want := header +
		"    exit();\n" +
		"}\n\n" +
		"// Assembly reference:\n" +
		"// 0x0: exit r0\n"
	assert.Equal(t, want, generate(encode(0x95, 0, 0, 0, 0)))
}

func TestGenerateBlocks(t *testing.T) {
	var code []byte
	code = append(code, encode(0xb7, 1, 0, 0, 42)...) // 0x00
	code = append(code, encode(0x15, 1, 0, 0, 15)...) // 0x08 -> 0x18
	code = append(code, encode(0x85, 0, 0, 0, 12)...) // 0x10
	code = append(code, encode(0x95, 0, 0, 0, 0)...)  // 0x18

	want := header +
		"    r1 = 42;\n" +
		"    if r1 == 15 { goto 0x18; }\n" +
		"    // Jump to 0x18\n" +
		"\n    // Basic block at 0x10\n" +
		"    syscall(12);\n" +
		"\n    // Basic block at 0x18\n" +
		"    exit();\n" +
		"}\n\n" +
		"// Assembly reference:\n" +
		"// 0x0: mov r1, 42\n" +
		"// 0x8: jeq r1, r0, 0x18\n" +
		"// 0x10: call syscall_12\n" +
		"// 0x18: exit r0\n"
	assert.Equal(t, want, generate(code))
}

func TestGenerateTruncatesAssembly(t *testing.T) {
	var code []byte
	for i := 0; i < 25; i++ {
		code = append(code, encode(0x07, 1, 0, 0, 1)...)
	}
	out := generate(code)

	assert.Equal(t, MaxAssemblyLines, strings.Count(out, ": add r1, r0, 1\n"))
	assert.True(t, strings.HasSuffix(out, "// ... (5 more instructions)\n"))
	assert.Equal(t, 25, strings.Count(out, "    r1 = r1 + 1;\n"))
}

func TestGenerateIdempotent(t *testing.T) {
	var code []byte
	code = append(code, encode(0x79, 2, 1, 8, 0)...)
	code = append(code, encode(0x05, 0, 0, 0, 7)...)
	code = append(code, encode(0x7b, 10, 2, -8, 0)...)
	code = append(code, encode(0x95, 0, 0, 0, 0)...)

	require.Equal(t, generate(code), generate(code))
}

func TestLine(t *testing.T) {
	tests := []struct {
		in   lifter.Inst
		want string
	}{
		{lifter.Load{Dst: 2, Src: 1, Offset: 16}, "let r2 = *((r1 as *const u64).offset(2));"},
		{lifter.Store{Dst: 10, Src: 3, Offset: -8}, "*((r10 as *mut u64).offset(-1)) = r3;"},
		{lifter.Arithmetic{Op: "add", Dst: 1, Src: 2}, "r1 = r1 + r2;"},
		{lifter.Arithmetic{Op: "sub", Dst: 1, Imm: 0, HasImm: true}, "r1 = r1 - 0;"},
		{lifter.Arithmetic{Op: "mov", Dst: 3, Src: 4}, "r3 = r4;"},
		{lifter.Logic{Op: "xor", Dst: 5, Src: 5}, "r5 = r5 ^ r5;"},
		{lifter.Logic{Op: "lsh", Dst: 5, Imm: 3, HasImm: true}, "r5 = r5 << 3;"},
		{lifter.Jump{Target: 0x40}, "goto 0x40;"},
		{lifter.Jump{Cond: ">=", Dst: 1, Src: 2, Target: 0x10}, "if r1 >= r2 { goto 0x10; }"},
		{lifter.Call{Target: 7, IsSyscall: true}, "syscall(7);"},
		{lifter.Call{Target: 0}, "call(0x0);"},
		{lifter.Return{}, "return;"},
		{lifter.Exit{}, "exit();"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, Line(tc.in))
		})
	}
}
