package book

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// isMissing reports the sentinels a spreadsheet export uses for empty cells.
func isMissing(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "nat", "none", "null":
		return true
	}
	return false
}

func cleanText(s string) string {
	if isMissing(s) {
		return ""
	}
	return strings.TrimSpace(s)
}

// ParseRating parses a stored rating tolerantly: as a float, truncated, clamped to [1,5].
// Anything unparsable yields DefaultRating.
func ParseRating(s string) int {
	if isMissing(s) {
		return DefaultRating
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return DefaultRating
	}
	switch t := math.Trunc(f); {
	case t < MinRating:
		return MinRating
	case t > MaxRating:
		return MaxRating
	default:
		return int(t)
	}
}

func ClampRating(n int) int {
	if n < MinRating {
		return MinRating
	}
	if n > MaxRating {
		return MaxRating
	}
	return n
}

// Decode maps a stored row into a Record, defaulting every field except the dates,
// which stay absent when missing or unparsable.
func Decode(row Row) Record {
	category, ok := ParseCategory(row.Category)
	if !ok {
		category = DefaultCategory
	}
	language, ok := ParseLanguage(row.Language)
	if !ok {
		language = DefaultLanguage
	}
	status, ok := ParseStatus(row.Status)
	if !ok {
		status = DefaultStatus
	}
	start, _ := ParseDate(row.StartDate)
	end, _ := ParseDate(row.EndDate)

	return Record{
		RowID:         row.ID,
		Title:         cleanText(row.Title),
		Authors:       cleanText(row.Authors),
		Category:      category,
		Language:      language,
		Status:        status,
		Rating:        ParseRating(row.Rating),
		Comment:       cleanText(row.Comment),
		StartDate:     start,
		EndDate:       end,
		CoverImageURL: cleanText(row.CoverURL),
	}
}

// Normalize maps a stored row into a fully populated Record for editing.
// Missing or unparsable dates become today.
func Normalize(row Row, now time.Time) Record {
	rec := Decode(row)
	today := NewDate(now)
	if rec.StartDate.IsZero() {
		rec.StartDate = today
	}
	if rec.EndDate.IsZero() {
		rec.EndDate = today
	}
	return rec
}

// DecodeAll decodes every row, preserving order.
func DecodeAll(rows []Row) []Record {
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, Decode(row))
	}
	return out
}
