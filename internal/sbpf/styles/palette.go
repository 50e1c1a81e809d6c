package styles

// Dark theme colors shared by the report renderer, the syntax highlighter
// and the interactive viewer.
const (
	Foreground = "#D4D4D4"
	Background = "#1E1E1E"
	Comment    = "#6A9955"
	Keyword    = "#569CD6"
	Function   = "#DCDCAA"
	Register   = "#9CDCFE"
	Number     = "#B5CEA8"
	String     = "#CE9178"
	Address    = "#858585"
	Selection  = "#264F78"
)
