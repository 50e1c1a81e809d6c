package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"sbpf/internal/cfg"
	"sbpf/internal/decompiler"
	"sbpf/internal/program"
	"sbpf/internal/sbpf/log"
	"sbpf/internal/ui/colorize"
)

func init() {
	decompilerCmd.PersistentFlags().BoolP("verbose", "v", false, "Report progress on stderr")
	decompilerCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")
	decompilerCmd.PersistentFlags().StringP("output", "o", "", "Write output to a file")

	decompilerCmd.Flags().BoolP("asm", "a", false, "Print the disassembly instead of pseudocode")

	cfgCmd.Flags().StringP("format", "f", "dot", "Graph format (dot, tree, html)")

	decompilerCmd.AddCommand(cfgCmd)
	decompilerCmd.AddCommand(viewCmd)
	decompilerCmd.AddCommand(newSchemaCmd())
}

var decompilerCmd = &cobra.Command{
	Use:   "sbpf-decompiler <binary>",
	Short: "Decompile SBPF programs to pseudocode",
	Long: `sbpf-decompiler lifts an SBPF program into basic blocks and prints
Rust-like pseudocode followed by an assembly reference. The input may be an
ELF shared object or raw bytecode.`,
	Example: `
# Print pseudocode
sbpf-decompiler program.so

# Save pseudocode to a file
sbpf-decompiler -o program.rs program.so

# Control-flow graph as Graphviz
sbpf-decompiler cfg -f dot program.so | dot -Tsvg > cfg.svg

# Browse interactively
sbpf-decompiler view program.so
  `,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := configFromFlags(cmd)
		log.Setup(c.Verbose, c.Debug)

		res, err := decompileFile(args[0])
		if err != nil {
			return err
		}

		text := res.Pseudocode
		if c.Assembly {
			text = res.Assembly.String()
		}
		if c.Styled(cmd.OutOrStdout()) {
			highlight := colorize.Pseudocode
			if c.Assembly {
				highlight = colorize.Assembly
			}
			if colored, err := highlight(text); err == nil {
				text = colored
			}
		}

		if c.Output != "" {
			slog.Info("Writing output", "path", c.Output)
		}
		return writeOutput(cmd, c, text)
	},
}

var cfgCmd = &cobra.Command{
	Use:   "cfg <binary>",
	Short: "Print the control-flow graph",
	Long: `Cfg prints the basic blocks of a program and their edges as Graphviz
dot, an indented tree, or a standalone HTML page with an interactive graph.
Solid edges are branch targets; dashed edges are fall-through.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := configFromFlags(cmd)
		log.Setup(c.Verbose, c.Debug)

		res, err := decompileFile(args[0])
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := renderGraph(&buf, c.Format, filepath.Base(args[0]), res.Blocks); err != nil {
			return err
		}
		return writeOutput(cmd, c, buf.String())
	},
}

func decompileFile(path string) (*decompiler.Result, error) {
	slog.Info("Loading binary", "path", path)
	bin, err := program.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	slog.Info("Decompiling", "bytes", len(bin.Bytecode))
	return decompiler.Run(bin), nil
}

func renderGraph(w io.Writer, format, title string, blocks []cfg.Block) error {
	switch format {
	case "dot":
		_, err := io.WriteString(w, cfg.ToDot(blocks))
		return err
	case "tree":
		_, err := io.WriteString(w, cfg.Tree(title, blocks).String())
		return err
	case "html":
		return cfg.RenderHTML(w, title, blocks)
	}
	return fmt.Errorf("unknown graph format %q (want dot, tree or html)", format)
}
