package elfx

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const segVA = 0x1000

// strippedELF builds an ELF64 image with one executable PT_LOAD segment and
// no section headers. filesz overrides the segment size when non-zero.
func strippedELF(t *testing.T, code []byte, filesz uint64) []byte {
	t.Helper()

	const ehsize, phentsize = 64, 56
	if filesz == 0 {
		filesz = uint64(len(code))
	}

	var buf bytes.Buffer
	write := func(v any) { require.NoError(t, binary.Write(&buf, binary.LittleEndian, v)) }

	var ident [elf.EI_NIDENT]byte
	copy(ident[:], elf.ELFMAG)
	ident[elf.EI_CLASS] = byte(elf.ELFCLASS64)
	ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)
	write(elf.Header64{
		Ident:     ident,
		Type:      uint16(elf.ET_DYN),
		Machine:   uint16(elf.EM_BPF),
		Version:   uint32(elf.EV_CURRENT),
		Phoff:     ehsize,
		Flags:     1,
		Ehsize:    ehsize,
		Phentsize: phentsize,
		Phnum:     1,
	})
	write(elf.Prog64{
		Type:   uint32(elf.PT_LOAD),
		Flags:  uint32(elf.PF_R | elf.PF_X),
		Off:    ehsize + phentsize,
		Vaddr:  segVA,
		Paddr:  segVA,
		Filesz: filesz,
		Memsz:  filesz,
		Align:  8,
	})
	buf.Write(code)
	return buf.Bytes()
}

func TestParseExecutableSegmentFallback(t *testing.T) {
	code := []byte{0x95, 0, 0, 0, 0, 0, 0, 0}
	im, err := Parse(strippedELF(t, code, 0))
	require.NoError(t, err)
	defer im.Close()

	require.Len(t, im.Loads, 1)
	assert.Equal(t, "LOAD(exec)", im.Text.Name)
	assert.Equal(t, code, im.Code())
	assert.Equal(t, uint64(segVA), im.EntryPoint())
	assert.Equal(t, uint32(1), im.Flags)
	assert.Empty(t, im.DataSections())
	assert.Empty(t, im.FunctionNames())
	assert.True(t, im.InText(segVA))
	assert.False(t, im.InText(segVA+8))
}

func TestParseSegmentPastEndOfFile(t *testing.T) {
	_, err := Parse(strippedELF(t, []byte{0x95, 0, 0, 0, 0, 0, 0, 0}, 64))
	assert.ErrorIs(t, err, ErrNoCode)
}

func TestParseNotELF(t *testing.T) {
	_, err := Parse([]byte("not an elf image"))
	assert.Error(t, err)
}
