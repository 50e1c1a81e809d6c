package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"sbpf/internal/output"
	"sbpf/internal/sbpf/log"
)

var diffCmd = &cobra.Command{
	Use:   "diff <old> <new>",
	Short: "Compare the analysis reports of two programs",
	Long: `Diff analyzes both programs and prints the differences between their
JSON reports.`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := configFromFlags(cmd)
		log.Setup(c.Verbose, c.Debug)

		left, err := reportJSON(args[0])
		if err != nil {
			return err
		}
		right, err := reportJSON(args[1])
		if err != nil {
			return err
		}

		out, err := diffReports(left, right, c.Styled(cmd.OutOrStdout()))
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	},
}

func reportJSON(path string) ([]byte, error) {
	a, err := analyzeFile(path)
	if err != nil {
		return nil, err
	}
	s, err := output.JSONFormatter{}.Format(a)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func diffReports(left, right []byte, coloring bool) (string, error) {
	d, err := gojsondiff.New().Compare(left, right)
	if err != nil {
		return "", fmt.Errorf("failed to compare reports: %w", err)
	}
	if !d.Modified() {
		return "No differences\n", nil
	}

	var base map[string]interface{}
	if err := json.Unmarshal(left, &base); err != nil {
		return "", err
	}
	f := formatter.NewAsciiFormatter(base, formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       coloring,
	})
	return f.Format(d)
}
