package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"readinglog/internal/book"
)

type rowAppender interface {
	Append(ctx context.Context, row book.Row) (book.RowID, error)
}

type rowWithLine struct {
	line int
	row  book.Row
}

// readRows parses a spreadsheet CSV export. Columns are matched by header name;
// unknown columns are ignored and fully blank lines skipped.
func readRows(r io.Reader, normalize bool) ([]rowWithLine, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty file")
	}
	if err != nil {
		return nil, err
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	if !hasColumn(header, book.ColumnTitle) {
		return nil, fmt.Errorf("missing %s column", book.ColumnTitle)
	}

	var out []rowWithLine
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// csv.ParseError already carries the line.
			return nil, err
		}
		// quoted cells may span lines, so ask the reader where the record began
		line, _ := cr.FieldPos(0)
		cells := make(map[string]string, len(header))
		blank := true
		for i, h := range header {
			if i < len(rec) {
				cells[h] = rec[i]
				if strings.TrimSpace(rec[i]) != "" {
					blank = false
				}
			}
		}
		if blank {
			continue
		}
		row := book.RowFromCells(0, cells)
		if normalize {
			row = book.Decode(row).ToRow()
		}
		out = append(out, rowWithLine{line: line, row: row})
	}
	return out, nil
}

func hasColumn(header []string, name string) bool {
	for _, h := range header {
		if h == name {
			return true
		}
	}
	return false
}
