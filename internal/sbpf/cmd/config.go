package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"sbpf/internal/ui/colorize"
)

// Config holds the settings shared by both commands. Flags fill it in;
// SBPF_NO_COLOR and SBPF_LOG_LEVEL are read from the environment.
type Config struct {
	Format   string `json:"format,omitempty" jsonschema:"title=Format,description=Report format for the analyzer or graph format for cfg,enum=text,enum=json,enum=markdown,enum=dot,enum=tree,enum=html"`
	Output   string `json:"output,omitempty" jsonschema:"title=Output,description=File to write instead of stdout"`
	Assembly bool   `json:"assembly,omitempty" jsonschema:"title=Assembly,description=Print the disassembly instead of pseudocode"`
	Verbose  bool   `json:"verbose" jsonschema:"title=Verbose,description=Report progress on stderr"`
	Debug    bool   `json:"debug" jsonschema:"title=Debug,description=Enable debug logging"`
	NoColor  bool   `json:"noColor" jsonschema:"title=No Color,description=Disable syntax highlighting (SBPF_NO_COLOR)"`
	LogLevel string `json:"logLevel,omitempty" jsonschema:"title=Log Level,description=Overrides the level chosen by the flags (SBPF_LOG_LEVEL),enum=debug,enum=info,enum=warn,enum=error"`
}

func configFromFlags(cmd *cobra.Command) Config {
	flags := cmd.Flags()
	var c Config
	c.Format, _ = flags.GetString("format")
	c.Output, _ = flags.GetString("output")
	c.Assembly, _ = flags.GetBool("asm")
	c.Verbose, _ = flags.GetBool("verbose")
	c.Debug, _ = flags.GetBool("debug")
	c.NoColor = !colorize.Enabled()
	c.LogLevel = os.Getenv("SBPF_LOG_LEVEL")
	return c
}

// Styled reports whether output written to w should be highlighted.
func (c Config) Styled(w io.Writer) bool {
	return c.Output == "" && !c.NoColor && isTerminal(w)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

func terminalWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 100
}

// writeOutput writes s to the configured file, or to the command's
// stdout with a trailing newline.
func writeOutput(cmd *cobra.Command, c Config, s string) error {
	if c.Output != "" {
		if err := os.WriteFile(c.Output, []byte(s), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", c.Output, err)
		}
		return nil
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), s)
	return err
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "schema",
		Short:  "Generate JSON schema for configuration",
		Long:   "Generate JSON schema for the sbpf tool configuration",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			reflector := new(jsonschema.Reflector)
			bts, err := json.MarshalIndent(reflector.Reflect(&Config{}), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal schema: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(bts))
			return nil
		},
	}
}
