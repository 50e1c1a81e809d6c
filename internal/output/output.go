// Package output renders an analysis report as text, markdown or JSON.
package output

import (
	"fmt"

	"sbpf/internal/analysis"
)

// Formatter renders a report.
type Formatter interface {
	Format(a *analysis.Analysis) (string, error)
}

// Formats lists the names accepted by ForName.
var Formats = []string{"text", "json", "markdown"}

// ForName returns the formatter registered under name.
func ForName(name string) (Formatter, error) {
	switch name {
	case "text":
		return TextFormatter{}, nil
	case "json":
		return JSONFormatter{}, nil
	case "markdown", "md":
		return MarkdownFormatter{}, nil
	}
	return nil, fmt.Errorf("unknown format %q (want one of %v)", name, Formats)
}

func versionString(a *analysis.Analysis) string {
	if a.Metadata.Version == nil {
		return "Unknown"
	}
	return a.Metadata.Version.String()
}
