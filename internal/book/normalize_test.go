package book

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRating(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"4", 4},
		{"4.9", 4},
		{" 2.0 ", 2},
		{"0", 1},
		{"-3", 1},
		{"9", 5},
		{"", DefaultRating},
		{"nan", DefaultRating},
		{"NaN", DefaultRating},
		{"five", DefaultRating},
		{"Inf", DefaultRating},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRating(tt.in))
		})
	}
}

func TestDecode_DefaultsAndLabels(t *testing.T) {
	rec := Decode(Row{
		ID:       3,
		Title:    "  吾輩は猫である ",
		Authors:  "None",
		Rating:   "4.0",
		Category: "小説",
		Language: "English",
		Status:   "読書中",
		Comment:  "nan",
		EndDate:  "2024/05/06",
		CoverURL: "NaN",
	})

	assert.Equal(t, RowID(3), rec.RowID)
	assert.Equal(t, "吾輩は猫である", rec.Title)
	assert.Empty(t, rec.Authors)
	assert.Equal(t, 4, rec.Rating)
	assert.Equal(t, CategoryNovel, rec.Category)
	assert.Equal(t, LanguageEnglish, rec.Language)
	assert.Equal(t, StatusReading, rec.Status)
	assert.Empty(t, rec.Comment)
	assert.True(t, rec.StartDate.IsZero())
	assert.Equal(t, "2024-05-06", rec.EndDate.String())
	assert.False(t, rec.HasCover())
}

func TestDecode_UnknownEnumsFallBack(t *testing.T) {
	rec := Decode(Row{Category: "Poetry", Language: "French", Status: "paused"})
	assert.Equal(t, DefaultCategory, rec.Category)
	assert.Equal(t, DefaultLanguage, rec.Language)
	assert.Equal(t, DefaultStatus, rec.Status)
	assert.Equal(t, DefaultRating, rec.Rating)
}

func TestNormalize_FillsMissingDatesWithToday(t *testing.T) {
	now := time.Date(2024, 7, 8, 23, 30, 0, 0, time.UTC)
	rec := Normalize(Row{Title: "x", StartDate: "2024-01-01", EndDate: "not a date"}, now)
	assert.Equal(t, "2024-01-01", rec.StartDate.String())
	assert.Equal(t, "2024-07-08", rec.EndDate.String())

	// Normalize is total: an empty row still yields a complete record
	empty := Normalize(Row{}, now)
	assert.Equal(t, "2024-07-08", empty.StartDate.String())
	assert.Equal(t, DefaultRating, empty.Rating)
}

func TestRecord_ToRowUsesLabels(t *testing.T) {
	rec := Normalize(Row{Title: "t", Category: "AI", Language: "スペイン語", Status: "WantToRead", Rating: "5"},
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	row := rec.ToRow()
	assert.Equal(t, "AI", row.Category)
	assert.Equal(t, "スペイン語", row.Language)
	assert.Equal(t, "読みたい", row.Status)
	assert.Equal(t, "5", row.Rating)
	assert.Equal(t, "2024-01-02", row.StartDate)
	assert.Equal(t, rec, Decode(row))
}

func TestRecord_Stars(t *testing.T) {
	assert.Equal(t, "★★★☆☆", Record{Rating: 3}.Stars())
	assert.Equal(t, "★☆☆☆☆", Record{Rating: 0}.Stars())
}

func TestParseRowID(t *testing.T) {
	id, err := ParseRowID(" 12 ")
	assert.NoError(t, err)
	assert.Equal(t, RowID(12), id)

	for _, s := range []string{"", "0", "-1", "abc"} {
		_, err := ParseRowID(s)
		assert.ErrorIs(t, err, ErrNotFound, s)
	}
}
