// Command modulith is the project's developer CLI. Its only job today is
// stamping out new module skeletons.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "modulith",
		Short:         "Developer tooling for the modulith service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newMakeCommand())
	return root
}

func newMakeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "make",
		Short: "Generate project code",
	}

	cmd.AddCommand(newMakeModuleCommand())
	return cmd
}
