package analysis

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"sbpf/internal/program"
)

// StringResult is a printable run recovered from a data section.
type StringResult struct {
	Section string
	Offset  uint64 // offset within the section
	Value   string // escaped string content
	Len     int    // original byte length
}

// EscapeUnprintable returns a string where printable Unicode runes are preserved.
// Control and unprintable runes are escaped as \uXXXX. Invalid UTF-8 is escaped as \xXX.
func EscapeUnprintable(b []byte) string {
	var sb strings.Builder
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size == 1 {
			sb.WriteString(fmt.Sprintf("\\x%02X", b[0]))
		} else if unicode.IsPrint(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteString(fmt.Sprintf("\\u%04X", r))
		}
		b = b[size:]
	}
	return sb.String()
}

// ExtractStrings scans sections for runs of at least minLen printable
// runes. Runs end at a NUL, an unprintable rune, or MaxStringLength bytes.
func ExtractStrings(sections []program.Section, minLen int) []StringResult {
	var out []StringResult
	for _, sec := range sections {
		data := sec.Data
		start, runes := 0, 0
		flush := func(end int) {
			if runes >= minLen {
				out = append(out, StringResult{
					Section: sec.Name,
					Offset:  uint64(start),
					Value:   EscapeUnprintable(data[start:end]),
					Len:     end - start,
				})
			}
		}

		for i := 0; i < len(data); {
			r, size := utf8.DecodeRune(data[i:])
			printable := !(r == utf8.RuneError && size == 1) && r != 0 && (unicode.IsPrint(r) || r == '\t')
			if !printable || i+size-start > MaxStringLength {
				flush(i)
				if printable {
					start, runes = i, 1
				} else {
					start, runes = i+size, 0
				}
				i += size
				continue
			}
			runes++
			i += size
		}
		flush(len(data))
	}
	return out
}
