package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"sbpf/internal/analysis"
	"sbpf/internal/detectors"
	"sbpf/internal/output"
	"sbpf/internal/program"
	"sbpf/internal/sbpf/log"
	"sbpf/internal/sbpf/styles"
)

func init() {
	analyzerCmd.PersistentFlags().BoolP("verbose", "v", false, "Report progress on stderr")
	analyzerCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")

	analyzerCmd.Flags().StringP("format", "f", "text", "Report format (text, json, markdown)")
	analyzerCmd.Flags().StringP("output", "o", "", "Write the report to a file")

	analyzerCmd.AddCommand(diffCmd)
	analyzerCmd.AddCommand(newSchemaCmd())
}

var analyzerCmd = &cobra.Command{
	Use:   "sbpf-analyzer <binary>",
	Short: "Static analysis of SBPF programs",
	Long: `sbpf-analyzer reports metadata, instruction statistics, control flow,
syscall usage and embedded strings of an SBPF program. The input may be an
ELF shared object or raw bytecode.`,
	Example: `
# Text report
sbpf-analyzer program.so

# JSON report for scripting
sbpf-analyzer -f json program.so

# Compare two builds
sbpf-analyzer diff old.so new.so
  `,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := configFromFlags(cmd)
		log.Setup(c.Verbose, c.Debug)

		a, err := analyzeFile(args[0])
		if err != nil {
			return err
		}

		report, err := renderReport(a, c.Format, c.Styled(cmd.OutOrStdout()))
		if err != nil {
			return err
		}
		return writeOutput(cmd, c, report)
	},
}

func analyzeFile(path string) (*analysis.Analysis, error) {
	slog.Info("Loading binary", "path", path)
	bin, err := program.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	slog.Info("Analyzing", "bytes", len(bin.Bytecode), "symbols", len(bin.Symbols))
	return analysis.Analyze(bin, detectors.Default(bin.FunctionNames())), nil
}

// renderReport formats a. Styled text reports go through the markdown
// renderer instead of the plain text formatter.
func renderReport(a *analysis.Analysis, format string, styled bool) (string, error) {
	if format == "text" && styled {
		md, err := output.MarkdownFormatter{}.Format(a)
		if err != nil {
			return "", err
		}
		return styles.GetMarkdownRenderer(terminalWidth() - 2).Render(md)
	}

	f, err := output.ForName(format)
	if err != nil {
		return "", err
	}
	return f.Format(a)
}
