package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"readinglog/internal/book"
)

func newListCommand() *cobra.Command {
	var (
		params  book.FilterParams
		byMonth bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse the shelf with optional filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, errs := params.Filter()
			if len(errs) > 0 {
				msgs := make([]string, 0, len(errs))
				for _, e := range errs {
					msgs = append(msgs, e.Message)
				}
				return fmt.Errorf("invalid filter: %s", strings.Join(msgs, ", "))
			}

			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.openBooks(cmd.Context()); err != nil {
				return err
			}

			res, err := a.books.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			printShelf(cmd.OutOrStdout(), res, byMonth)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&params.Keyword, "query", "q", "", "Keyword matched against title and authors")
	f.StringVar(&params.Category, "category", "", "Category name or label")
	f.StringVar(&params.Language, "language", "", "Language name or label")
	f.StringVar(&params.Status, "status", "", "Reading status name or label")
	f.StringVar(&params.StatusGroup, "status-group", "", "all, finished or unfinished")
	f.StringVar(&params.MinRating, "min-rating", "", "Minimum rating (1-5)")
	f.StringVar(&params.Year, "year", "", "Completion year")
	f.StringVar(&params.Sort, "sort", "", "newest or oldest")
	f.BoolVar(&byMonth, "by-month", false, "Group the shelf by completion month")
	return cmd
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one book",
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
			if err := a.openBooks(cmd.Context()); err != nil {
				return err
			}

			rec, err := a.books.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			printDetail(cmd.OutOrStdout(), rec)
			return nil
		},
	}
}
