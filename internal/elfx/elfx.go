// Package elfx opens SBPF ELF images, locates their code and data sections,
// and maps virtual addresses to file offsets.
package elfx

import (
	"bytes"
	"debug/elf"
	"os"
	"sort"
	"strings"
	"syscall"

	"github.com/ianlancetaylor/demangle"
	"github.com/pkg/errors"
)

// ErrNoCode is returned for images with neither a .text section nor an
// executable segment.
var ErrNoCode = errors.New("no code section")

type Image struct {
	File     *elf.File
	All      []byte
	Loads    []Seg
	Text     Section
	Sections []Section
	Syms     []Sym
	Entry    uint64
	Flags    uint32
	f        *os.File
	mapped   bool
}

type Seg struct {
	Vaddr, Off, Filesz uint64
	Flags              elf.ProgFlag
}

type Section struct {
	Name          string
	VA, Off, Size uint64
}

// Sym is a function symbol with its demangled name.
type Sym struct {
	Name string
	Addr uint64
}

// Open maps the file at path read-only and parses it.
func Open(path string) (*Image, error) {
	of, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, errors.Wrap(err, "open file")
	}

	fi, err := of.Stat()
	if err != nil {
		of.Close()
		return nil, errors.Wrap(err, "stat file")
	}
	if fi.Size() == 0 {
		of.Close()
		return nil, errors.Errorf("%s: empty file", path)
	}

	all, err := syscall.Mmap(int(of.Fd()), 0, int(fi.Size()), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		of.Close()
		return nil, errors.Wrap(err, "mmap file")
	}

	im, err := parse(all)
	if err != nil {
		syscall.Munmap(all)
		of.Close()
		return nil, err
	}
	im.f, im.mapped = of, true
	return im, nil
}

// Parse reads an image already held in memory. data must stay valid for
// the lifetime of the image.
func Parse(data []byte) (*Image, error) {
	return parse(data)
}

func parse(all []byte) (*Image, error) {
	f, err := elf.NewFile(bytes.NewReader(all))
	if err != nil {
		return nil, errors.Wrap(err, "open elf")
	}

	im := &Image{File: f, All: all, Entry: f.Entry}
	im.Flags = headerFlags(f, all)

	for _, p := range f.Progs {
		if p.Type != elf.PT_LOAD {
			continue
		}
		im.Loads = append(im.Loads, Seg{
			Vaddr:  p.Vaddr,
			Off:    p.Off,
			Filesz: p.Filesz,
			Flags:  p.Flags,
		})
	}

	for _, s := range f.Sections {
		if s.Name == "" || s.Type == elf.SHT_NOBITS {
			continue
		}
		sec := Section{s.Name, s.Addr, s.Offset, s.Size}
		im.Sections = append(im.Sections, sec)
		if s.Name == ".text" {
			im.Text = sec
		}
	}

	// Fallback if stripped of section headers.
	if im.Text.Size == 0 {
		for _, l := range im.Loads {
			if l.Flags&elf.PF_X != 0 && l.Filesz > 0 {
				im.Text = Section{"LOAD(exec)", l.Vaddr, l.Off, l.Filesz}
				break
			}
		}
	}
	if im.Text.Size == 0 {
		f.Close()
		return nil, errors.WithStack(ErrNoCode)
	}
	if im.Text.Off+im.Text.Size > uint64(len(all)) {
		f.Close()
		return nil, errors.Wrapf(ErrNoCode, "%s extends past end of file", im.Text.Name)
	}

	im.loadSymbols()
	return im, nil
}

// headerFlags reads e_flags, which debug/elf does not expose.
func headerFlags(f *elf.File, all []byte) uint32 {
	off := 36
	if f.Class == elf.ELFCLASS64 {
		off = 48
	}
	if len(all) < off+4 {
		return 0
	}
	return f.ByteOrder.Uint32(all[off : off+4])
}

// Close unmaps the memory and closes the underlying files.
func (im *Image) Close() error {
	var err1, err2 error
	if im.mapped && im.All != nil {
		err1 = syscall.Munmap(im.All)
	}
	im.All = nil
	if im.f != nil {
		err2 = im.f.Close()
		im.f = nil
	}
	if im.File != nil {
		err3 := im.File.Close()
		if err3 != nil && err2 == nil {
			err2 = err3
		}
		im.File = nil
	}
	if err1 != nil {
		return err1
	}
	return err2
}

// Code returns the bytes of the code section.
func (im *Image) Code() []byte {
	return im.All[im.Text.Off : im.Text.Off+im.Text.Size]
}

// EntryPoint returns the program entry address, or the start of the code
// section when the header leaves it unset.
func (im *Image) EntryPoint() uint64 {
	if im.Entry != 0 {
		return im.Entry
	}
	return im.Text.VA
}

// SectionData returns the file bytes backing s.
func (im *Image) SectionData(s Section) ([]byte, bool) {
	end := s.Off + s.Size
	if end < s.Off || end > uint64(len(im.All)) {
		return nil, false
	}
	return im.All[s.Off:end], true
}

// DataSections returns the non-empty read-only data and metadata sections
// in file order.
func (im *Image) DataSections() []Section {
	var out []Section
	for _, s := range im.Sections {
		if s.Size == 0 {
			continue
		}
		if strings.HasPrefix(s.Name, ".rodata") || strings.HasPrefix(s.Name, ".metadata") {
			out = append(out, s)
		}
	}
	return out
}

// InText reports whether va lies in the code section.
func (im *Image) InText(va uint64) bool {
	return va >= im.Text.VA && va < im.Text.VA+im.Text.Size
}

// FunctionNames maps code offsets, relative to the start of the code
// section, to demangled function names.
func (im *Image) FunctionNames() map[uint64]string {
	names := make(map[uint64]string)
	for _, s := range im.Syms {
		if !im.InText(s.Addr) {
			continue
		}
		off := s.Addr - im.Text.VA
		if _, ok := names[off]; !ok {
			names[off] = s.Name
		}
	}
	return names
}

// loadSymbols collects function symbols from .symtab and .dynsym.
func (im *Image) loadSymbols() {
	var all []elf.Symbol
	if syms, err := im.File.Symbols(); err == nil {
		all = append(all, syms...)
	}
	if syms, err := im.File.DynamicSymbols(); err == nil {
		all = append(all, syms...)
	}

	seen := make(map[string]bool)
	for _, sym := range all {
		if sym.Value == 0 || sym.Name == "" || elf.ST_TYPE(sym.Info) != elf.STT_FUNC {
			continue
		}
		if seen[sym.Name] {
			continue
		}
		seen[sym.Name] = true
		im.Syms = append(im.Syms, Sym{
			Name: demangle.Filter(sym.Name, demangle.NoParams),
			Addr: sym.Value,
		})
	}
	sort.Slice(im.Syms, func(i, j int) bool { return im.Syms[i].Addr < im.Syms[j].Addr })
}
