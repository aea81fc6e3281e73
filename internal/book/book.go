package book

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned when a row id does not address a record.
var ErrNotFound = errors.New("book not found")

// ErrStoreUnavailable wraps any connection or write failure of a Store.
var ErrStoreUnavailable = errors.New("book store unavailable")

// RowID addresses a record by its position in the store.
type RowID int64

func (id RowID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseRowID parses a path parameter into a RowID.
func ParseRowID(s string) (RowID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 1 {
		return 0, ErrNotFound
	}
	return RowID(n), nil
}

const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = 3
)

const dateLayout = "2006-01-02"

// Date is a calendar date. The zero value means the date is absent.
type Date struct {
	t time.Time
}

// NewDate truncates t to its calendar day.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts YYYY-MM-DD and the timestamp forms spreadsheets tend to export.
func ParseDate(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	if isMissing(s) {
		return Date{}, false
	}
	for _, layout := range []string{dateLayout, "2006/01/02", "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t), true
		}
	}
	return Date{}, false
}

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) Time() time.Time { return d.t }

func (d Date) Year() int { return d.t.Year() }

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		*d = Date{}
		return nil
	}
	parsed, ok := ParseDate(s)
	if !ok {
		return errors.New("invalid date: " + s)
	}
	*d = parsed
	return nil
}

// Record is the canonical, fully typed reading-log entry.
type Record struct {
	RowID         RowID    `json:"id"`
	Title         string   `json:"title"`
	Authors       string   `json:"authors"`
	Category      Category `json:"category"`
	Language      Language `json:"language"`
	Status        Status   `json:"status"`
	Rating        int      `json:"rating"`
	Comment       string   `json:"comment"`
	StartDate     Date     `json:"start_date"`
	EndDate       Date     `json:"end_date"`
	CoverImageURL string   `json:"cover_image_url"`
}

// HasCover reports whether a cover image should be shown instead of a placeholder.
func (r Record) HasCover() bool {
	return strings.TrimSpace(r.CoverImageURL) != ""
}

// Stars renders the rating as filled and empty stars.
func (r Record) Stars() string {
	n := ClampRating(r.Rating)
	return strings.Repeat("★", n) + strings.Repeat("☆", MaxRating-n)
}

// Row is a record exactly as persisted: every cell is text.
type Row struct {
	ID        RowID
	Title     string
	Authors   string
	Rating    string
	Category  string
	Language  string
	Status    string
	Comment   string
	StartDate string
	EndDate   string
	CoverURL  string
}

// Columns are the persisted header names, in canonical order.
var Columns = []string{
	ColumnTitle, ColumnAuthors, ColumnRating, ColumnCategory, ColumnLanguage,
	ColumnStatus, ColumnComment, ColumnStartDate, ColumnEndDate, ColumnCoverURL,
}

const (
	ColumnTitle     = "タイトル"
	ColumnAuthors   = "著者"
	ColumnRating    = "評価"
	ColumnCategory  = "カテゴリ"
	ColumnLanguage  = "言語"
	ColumnStatus    = "ステータス"
	ColumnComment   = "コメント"
	ColumnStartDate = "開始日"
	ColumnEndDate   = "読了日"
	ColumnCoverURL  = "画像URL"
)

// Cells returns the row values in Columns order.
func (r Row) Cells() []string {
	return []string{
		r.Title, r.Authors, r.Rating, r.Category, r.Language,
		r.Status, r.Comment, r.StartDate, r.EndDate, r.CoverURL,
	}
}

// RowFromCells builds a Row from values keyed by header name. Missing headers yield empty cells.
func RowFromCells(id RowID, cells map[string]string) Row {
	return Row{
		ID:        id,
		Title:     cells[ColumnTitle],
		Authors:   cells[ColumnAuthors],
		Rating:    cells[ColumnRating],
		Category:  cells[ColumnCategory],
		Language:  cells[ColumnLanguage],
		Status:    cells[ColumnStatus],
		Comment:   cells[ColumnComment],
		StartDate: cells[ColumnStartDate],
		EndDate:   cells[ColumnEndDate],
		CoverURL:  cells[ColumnCoverURL],
	}
}

// ToRow encodes the record in the persisted format.
func (r Record) ToRow() Row {
	return Row{
		ID:        r.RowID,
		Title:     r.Title,
		Authors:   r.Authors,
		Rating:    strconv.Itoa(r.Rating),
		Category:  r.Category.Label(),
		Language:  r.Language.Label(),
		Status:    r.Status.Label(),
		Comment:   r.Comment,
		StartDate: r.StartDate.String(),
		EndDate:   r.EndDate.String(),
		CoverURL:  r.CoverImageURL,
	}
}
