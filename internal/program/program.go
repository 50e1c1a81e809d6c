// Package program loads SBPF programs from ELF images or raw bytecode.
package program

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"

	"sbpf/internal/decoder"
	"sbpf/internal/elfx"
)

var elfMagic = []byte{0x7f, 'E', 'L', 'F'}

// Section is a named data blob carried alongside the code.
type Section struct {
	Name string
	Data []byte
}

// Binary is a loaded program. It owns all of its byte slices.
type Binary struct {
	Bytecode   []byte
	EntryPoint uint64
	Version    *decoder.Version // nil when the container does not say
	Metadata   []Section
	Symbols    map[uint64]string // code offset -> function name
}

// FunctionNames returns the symbol names keyed by code offset.
func (b *Binary) FunctionNames() map[uint64]string {
	return b.Symbols
}

// Load reads the program at path.
func Load(path string) (*Binary, error) {
	isELF, err := hasELFMagic(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	if !isELF {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", path)
		}
		return raw(data), nil
	}

	im, err := elfx.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	defer im.Close()
	return fromImage(im), nil
}

// Parse interprets data as an ELF image, or as bare bytecode when it does
// not start with the ELF magic.
func Parse(data []byte) (*Binary, error) {
	if !bytes.HasPrefix(data, elfMagic) {
		return raw(data), nil
	}
	im, err := elfx.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "parse elf")
	}
	defer im.Close()
	return fromImage(im), nil
}

func hasELFMagic(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	magic := make([]byte, len(elfMagic))
	if _, err := io.ReadFull(f, magic); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(magic, elfMagic), nil
}

func raw(data []byte) *Binary {
	return &Binary{Bytecode: clone(data)}
}

func fromImage(im *elfx.Image) *Binary {
	bin := &Binary{
		Bytecode:   clone(im.Code()),
		EntryPoint: im.EntryPoint(),
		Symbols:    im.FunctionNames(),
	}
	if v, ok := decoder.VersionFromFlags(im.Flags); ok {
		bin.Version = &v
	}
	for _, s := range im.DataSections() {
		data, ok := im.SectionData(s)
		if !ok {
			continue
		}
		bin.Metadata = append(bin.Metadata, Section{Name: s.Name, Data: clone(data)})
	}
	return bin
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
