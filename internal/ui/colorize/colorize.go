// Package colorize highlights decompiler output for terminal display.
package colorize

import (
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
)

// Enabled reports whether highlighting is allowed. Setting SBPF_NO_COLOR
// to any value disables it.
func Enabled() bool {
	return os.Getenv("SBPF_NO_COLOR") == ""
}

// getLexer returns the first lexer chroma knows from candidates.
func getLexer(candidates ...string) chroma.Lexer {
	for _, name := range candidates {
		if lexer := lexers.Get(name); lexer != nil {
			return lexer
		}
	}
	return nil
}

// getStyle returns the decompiler style with fallbacks
func getStyle() *chroma.Style {
	candidates := []string{SBPFDark.Name, "dracula", "monokai"}
	for _, name := range candidates {
		if style := chromastyles.Get(name); style != nil {
			return style
		}
	}
	return chromastyles.Fallback
}

// getTerminalFormatter returns an appropriate terminal formatter
func getTerminalFormatter() chroma.Formatter {
	candidates := []string{"terminal16m", "terminal256"}
	for _, name := range candidates {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

func highlight(code string, lexer chroma.Lexer) (string, error) {
	if !Enabled() || lexer == nil {
		return code, nil
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code, err
	}

	var buf strings.Builder
	if err := getTerminalFormatter().Format(&buf, getStyle(), iterator); err != nil {
		return code, err
	}
	return buf.String(), nil
}

// Pseudocode highlights generated pseudocode. Its syntax is close enough
// to Rust for that lexer to apply.
func Pseudocode(code string) (string, error) {
	return highlight(code, getLexer("rust", "c"))
}

// Assembly highlights a disassembly listing.
func Assembly(code string) (string, error) {
	return highlight(code, getLexer("nasm", "gas"))
}

// StripANSI removes ANSI escape sequences from s.
func StripANSI(s string) string {
	var result strings.Builder
	inEscape := false

	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
		} else if inEscape {
			if r == 'm' {
				inEscape = false
			}
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}
