package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <amazon-url-or-title>",
		Short: "Look up book metadata candidates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()
			a.openLookup()

			res := a.lookup.Search(cmd.Context(), strings.Join(args, " "))
			printCandidates(cmd.OutOrStdout(), res)
			return nil
		},
	}
}
