// Package analysis extracts metadata, instruction statistics, syscall usage
// and embedded strings from SBPF programs.
package analysis

const (
	// MaxStringLength caps a single recovered string.
	MaxStringLength = 256

	// MinStringLength is the shortest printable run reported as a string.
	MinStringLength = 4

	// TopOpcodes is how many opcodes the text report lists.
	TopOpcodes = 10
)
