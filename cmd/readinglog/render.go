package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"readinglog/internal/book"
	"readinglog/internal/lookup"
)

var (
	titleColor = color.New(color.Bold)
	starColor  = color.New(color.FgYellow)
	dimColor   = color.New(color.Faint)
	okColor    = color.New(color.FgGreen)
	errColor   = color.New(color.FgRed)
)

func printCandidates(w io.Writer, res lookup.Result) {
	if res.Message != "" {
		_, _ = errColor.Fprintln(w, res.Message)
	}
	if len(res.Candidates) == 0 {
		_, _ = dimColor.Fprintf(w, "no candidates for %q\n", res.Term)
		return
	}
	for i, c := range res.Candidates {
		fmt.Fprintf(w, "%d) ", i+1)
		_, _ = titleColor.Fprint(w, c.Title)
		fmt.Fprintf(w, " / %s\n", c.Authors)
		if c.ThumbnailURL != "" {
			_, _ = dimColor.Fprintf(w, "   %s\n", c.ThumbnailURL)
		}
	}
}

// printRecordLine renders one shelf entry.
func printRecordLine(w io.Writer, r book.Record) {
	end := r.EndDate.String()
	if end == "" {
		end = "----------"
	}
	fmt.Fprintf(w, "%4d  %s  ", r.RowID, end)
	_, _ = starColor.Fprint(w, r.Stars())
	fmt.Fprint(w, "  ")
	_, _ = titleColor.Fprint(w, r.Title)
	if r.Authors != "" {
		fmt.Fprintf(w, " / %s", r.Authors)
	}
	_, _ = dimColor.Fprintf(w, "  [%s, %s, %s]\n", r.Category.Label(), r.Language.Label(), r.Status.Label())
}

func printShelf(w io.Writer, res book.ListResult, byMonth bool) {
	if !byMonth {
		for _, r := range res.Records {
			printRecordLine(w, r)
		}
	} else {
		for _, g := range book.GroupByMonth(res.Records) {
			month := g.Month
			if month == "" {
				month = "undated"
			}
			_, _ = titleColor.Fprintf(w, "%s (%d)\n", month, len(g.Records))
			for _, r := range g.Records {
				printRecordLine(w, r)
			}
		}
	}
	_, _ = dimColor.Fprintf(w, "%d book(s)\n", res.Total)
}

func printDetail(w io.Writer, r book.Record) {
	_, _ = titleColor.Fprintln(w, r.Title)
	fields := [][2]string{
		{"Authors", r.Authors},
		{"Rating", r.Stars()},
		{"Category", r.Category.Label()},
		{"Language", r.Language.Label()},
		{"Status", r.Status.Label()},
		{"Started", r.StartDate.String()},
		{"Finished", r.EndDate.String()},
		{"Cover", coverOrPlaceholder(r)},
	}
	for _, f := range fields {
		fmt.Fprintf(w, "  %-9s %s\n", f[0], f[1])
	}
	if c := strings.TrimSpace(r.Comment); c != "" {
		fmt.Fprintf(w, "\n%s\n", c)
	}
}

func coverOrPlaceholder(r book.Record) string {
	if r.HasCover() {
		return r.CoverImageURL
	}
	return "(no image)"
}
