// Package cli wires the cobra command tree: a one-shot convert command for
// terminal use and a serve command exposing the HTTP API.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Run executes the CLI and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand(stdout, stderr)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

// NewRootCommand constructs the cobra command tree.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "webpbatch",
		Short:         "Batch-convert PNG directory trees to WebP",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(newConvertCommand(stdout))
	root.AddCommand(newServeCommand())
	return root
}
