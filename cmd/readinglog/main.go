// Command readinglog is the terminal front end of the reading log: lookup, browse,
// register, edit and delete books against the configured store.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "readinglog",
		Short:         "Personal reading log",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML config file")

	cmd.AddCommand(
		newSearchCommand(),
		newListCommand(),
		newShowCommand(),
		newAddCommand(),
		newEditCommand(),
		newDeleteCommand(),
	)
	return cmd
}
