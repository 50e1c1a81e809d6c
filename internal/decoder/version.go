package decoder

import "fmt"

// Version is an SBPF instruction set revision.
type Version uint8

const (
	V0 Version = iota
	V1
	V2
	V3
)

func (v Version) String() string {
	return fmt.Sprintf("V%d", uint8(v))
}

// VersionFromFlags maps an ELF e_flags value to a version.
func VersionFromFlags(flags uint32) (Version, bool) {
	if flags > uint32(V3) {
		return 0, false
	}
	return Version(flags), true
}

// DetectVersion guesses the version from decoded code. Programs without
// version markers are reported as V0.
func DetectVersion(insts []Instruction) (Version, bool) {
	if len(insts) == 0 {
		return 0, false
	}
	return V0, true
}
