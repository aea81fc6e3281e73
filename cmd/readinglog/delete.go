package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"readinglog/internal/book"
	"readinglog/internal/session"
)

func newDeleteCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a book from the log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := book.ParseRowID(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			st := session.New()
			hash, err := a.passwordHash()
			if err != nil {
				return err
			}
			if err := p.unlock(st, hash); err != nil {
				return err
			}
			if err := a.openBooks(cmd.Context()); err != nil {
				return err
			}

			rec, err := a.books.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			printRecordLine(p.out, rec)
			if !yes {
				ok, err := p.confirm("Delete this book?")
				if err != nil {
					return err
				}
				if !ok {
					return errAborted
				}
			}
			if err := a.books.Delete(cmd.Context(), id); err != nil {
				return err
			}
			_, _ = okColor.Fprintf(p.out, "deleted #%d\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
