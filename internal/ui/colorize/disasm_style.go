package colorize

import (
	"github.com/alecthomas/chroma/v2"
	chromastyles "github.com/alecthomas/chroma/v2/styles"

	"sbpf/internal/sbpf/styles"
)

// SBPFDark highlights pseudocode and assembly with the shared dark palette.
var SBPFDark = chromastyles.Register(chroma.MustNewStyle("sbpf-dark", chroma.StyleEntries{
	chroma.Text:       styles.Foreground,
	chroma.Background: "bg:" + styles.Background,
	chroma.Comment:    styles.Comment,

	chroma.Keyword:       styles.Keyword,
	chroma.KeywordType:   styles.Keyword,
	chroma.KeywordPseudo: styles.Keyword,

	// registers
	chroma.Name:         styles.Register,
	chroma.NameBuiltin:  styles.Register,
	chroma.NameVariable: styles.Register,

	chroma.NameFunction: styles.Function,
	chroma.NameLabel:    styles.Address,

	chroma.LiteralNumber:        styles.Number,
	chroma.LiteralNumberHex:     styles.Number,
	chroma.LiteralNumberInteger: styles.Number,

	chroma.Operator:    styles.Foreground,
	chroma.Punctuation: styles.Foreground,
	chroma.String:      styles.String,
}))
