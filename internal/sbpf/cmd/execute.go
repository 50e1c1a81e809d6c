package cmd

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"sbpf/internal/sbpf/log"
)

// ExecuteAnalyzer runs the sbpf-analyzer command line.
func ExecuteAnalyzer() {
	execute(analyzerCmd)
}

// ExecuteDecompiler runs the sbpf-decompiler command line.
func ExecuteDecompiler() {
	execute(decompilerCmd)
}

func execute(root *cobra.Command) {
	var err error
	if term.IsTerminal(os.Stdout.Fd()) {
		// Use fang for styled help and errors
		err = fang.Execute(
			context.Background(),
			root,
			fang.WithNotifySignal(os.Interrupt),
		)
	} else {
		// Plain cobra keeps piped output free of escape sequences
		err = root.Execute()
	}

	log.Close()
	if err != nil {
		os.Exit(1)
	}
}
