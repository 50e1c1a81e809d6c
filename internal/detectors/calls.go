package detectors

import (
	"fmt"

	"sbpf/internal/analysis"
)

// LocalCallDetector names pc-relative calls after the function symbol at
// their target.
type LocalCallDetector struct {
	names map[uint64]string
}

// NewLocalCallDetector creates a detector that resolves targets through
// names, a map from code offset to function name.
func NewLocalCallDetector(names map[uint64]string) *LocalCallDetector {
	return &LocalCallDetector{names: names}
}

func (d *LocalCallDetector) Detect(findings []analysis.CallFinding) []analysis.CallFinding {
	result := make([]analysis.CallFinding, 0, len(findings))
	for _, f := range findings {
		if f.HasTarget {
			f.Kind = "local"
			if name, ok := d.names[f.Target]; ok {
				f.Name = name
			} else {
				f.Name = fmt.Sprintf("sub_%x", f.Target)
			}
			f.Comment = fmt.Sprintf("call %s at 0x%x", f.Name, f.Target)
		}
		result = append(result, f)
	}
	return result
}

// Default returns the detectors the analyzer runs, in order.
func Default(names map[uint64]string) *analysis.DetectorChain {
	return analysis.NewDetectorChain(
		NewLocalCallDetector(names),
		NewSyscallDetector(),
	)
}
