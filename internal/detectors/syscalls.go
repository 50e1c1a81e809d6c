// Package detectors classifies call sites found by the analyzer.
package detectors

import (
	"fmt"
	"strings"

	"sbpf/internal/analysis"
)

// SyscallDetector tags syscall findings with the kind of runtime service
// they request.
type SyscallDetector struct{}

// NewSyscallDetector creates a new syscall detector instance.
func NewSyscallDetector() *SyscallDetector {
	return &SyscallDetector{}
}

// kinds is matched in order; the first prefix that fits wins.
var kinds = []struct {
	prefix string
	kind   string
}{
	{"sol_invoke", "cpi"},
	{"sol_log", "log"},
	{"sol_mem", "memory"},
	{"sol_sha256", "crypto"},
	{"sol_keccak256", "crypto"},
	{"sol_blake3", "crypto"},
	{"sol_secp256k1", "crypto"},
	{"sol_poseidon", "crypto"},
	{"sol_curve", "crypto"},
	{"sol_alt_bn128", "crypto"},
	{"sol_big_mod_exp", "crypto"},
	{"sol_create_program_address", "pda"},
	{"sol_try_find_program_address", "pda"},
	{"sol_set_return_data", "return-data"},
	{"sol_get_return_data", "return-data"},
	{"sol_get_", "sysvar"},
	{"sol_panic", "abort"},
	{"abort", "abort"},
}

func (d *SyscallDetector) Detect(findings []analysis.CallFinding) []analysis.CallFinding {
	result := make([]analysis.CallFinding, 0, len(findings))
	for _, f := range findings {
		if (f.Syscall || f.Hashed) && f.Kind == "" {
			f.Kind = d.classify(f.Name)
			if f.Name == "" {
				f.Comment = fmt.Sprintf("unresolved syscall %d", f.Imm)
			} else {
				f.Comment = fmt.Sprintf("%s (%s)", f.Name, f.Kind)
			}
		}
		result = append(result, f)
	}
	return result
}

func (d *SyscallDetector) classify(name string) string {
	if name == "" {
		return "unknown"
	}
	for _, k := range kinds {
		if strings.HasPrefix(name, k.prefix) {
			return k.kind
		}
	}
	return "other"
}
