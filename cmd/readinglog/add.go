package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"readinglog/internal/book"
	"readinglog/internal/lookup"
	"readinglog/internal/session"
)

func newAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add [amazon-url-or-title]",
		Short: "Register a book, starting from a metadata lookup",
		RunE: func(cmd *cobra.Command, args []string) error {
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
			a.openLookup()

			rec, err := runAdd(cmd.Context(), p, st, a.lookup, a.books, strings.Join(args, " "), time.Now())
			if err != nil {
				return err
			}
			_, _ = okColor.Fprintf(cmd.OutOrStdout(), "saved #%d %s\n", rec.RowID, rec.Title)
			return nil
		},
	}
}

func newEditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a registered book",
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

			current, err := a.books.EditForm(cmd.Context(), id)
			if err != nil {
				return err
			}
			rec, err := runEdit(cmd.Context(), p, st, current, a.books)
			if err != nil {
				return err
			}
			_, _ = okColor.Fprintf(cmd.OutOrStdout(), "updated #%d %s\n", rec.RowID, rec.Title)
			return nil
		},
	}
}

// runAdd drives the registration flow: lookup, candidate choice, form, confirmation.
func runAdd(ctx context.Context, p *prompter, st *session.State, r session.Resolver, reg session.Registrar, query string, now time.Time) (book.Record, error) {
	if strings.TrimSpace(query) == "" {
		var err error
		if query, err = p.ask("Amazon URL or title", ""); err != nil {
			return book.Record{}, err
		}
	}
	if err := st.Search(ctx, r, query); err != nil {
		return book.Record{}, err
	}
	printCandidates(p.out, lookupResult(st))

	choice, err := p.choose("Candidate (0 to enter manually)", len(st.Candidates))
	if err != nil {
		return book.Record{}, err
	}
	if choice == 0 {
		err = st.EnterManually()
	} else {
		err = st.SelectCandidate(choice - 1)
	}
	if err != nil {
		return book.Record{}, err
	}

	today := book.NewDate(now).String()
	if err := st.UpdateForm(func(f *book.Form) {
		f.StartDate = today
		f.EndDate = today
	}); err != nil {
		return book.Record{}, err
	}
	return fillAndSave(ctx, p, st, reg)
}

// runEdit opens rec in the form and replaces its row on confirmation.
func runEdit(ctx context.Context, p *prompter, st *session.State, rec book.Record, reg session.Registrar) (book.Record, error) {
	if err := st.BeginEdit(rec); err != nil {
		return book.Record{}, err
	}
	return fillAndSave(ctx, p, st, reg)
}

func fillAndSave(ctx context.Context, p *prompter, st *session.State, reg session.Registrar) (book.Record, error) {
	for {
		form := st.Pending
		if err := fillForm(p, &form); err != nil {
			st.Cancel()
			return book.Record{}, err
		}
		ok, err := p.confirm("Save this book?")
		if err != nil {
			st.Cancel()
			return book.Record{}, err
		}
		if !ok {
			st.Cancel()
			return book.Record{}, errAborted
		}
		form.Confirmed = true
		if err := st.UpdateForm(func(f *book.Form) { *f = form }); err != nil {
			return book.Record{}, err
		}

		rec, err := st.Save(ctx, reg)
		var verr *book.ValidationError
		if errors.As(err, &verr) {
			_, _ = errColor.Fprintln(p.out, verr.Error())
			continue
		}
		return rec, err
	}
}

func lookupResult(st *session.State) lookup.Result {
	return lookup.Result{Term: st.Query, Candidates: st.Candidates, Message: st.Message}
}

func fillForm(p *prompter, f *book.Form) error {
	var err error
	if f.Title, err = p.ask("Title", f.Title); err != nil {
		return err
	}
	if f.Authors, err = p.ask("Authors", f.Authors); err != nil {
		return err
	}
	if f.CoverImageURL, err = p.ask("Cover image URL", f.CoverImageURL); err != nil {
		return err
	}
	if f.Category, err = p.pick("Category", enumNames(book.Categories), orDefault(f.Category, string(book.DefaultCategory))); err != nil {
		return err
	}
	if f.Language, err = p.pick("Language", enumNames(book.Languages), orDefault(f.Language, string(book.DefaultLanguage))); err != nil {
		return err
	}
	if f.Status, err = p.pick("Status", enumNames(book.Statuses), orDefault(f.Status, string(book.DefaultStatus))); err != nil {
		return err
	}
	rating, err := p.ask("Rating (1-5)", orDefault(string(f.Rating), fmt.Sprint(book.DefaultRating)))
	if err != nil {
		return err
	}
	f.Rating = book.RatingInput(rating)
	if f.StartDate, err = p.ask("Start date (YYYY-MM-DD)", f.StartDate); err != nil {
		return err
	}
	if f.EndDate, err = p.ask("End date (YYYY-MM-DD)", orDefault(f.EndDate, f.StartDate)); err != nil {
		return err
	}
	if f.Comment, err = p.ask("Comment", f.Comment); err != nil {
		return err
	}
	return nil
}

func enumNames[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
