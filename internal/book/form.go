package book

import (
	"encoding/json"
	"strings"
	"time"

	"readinglog/internal/validation"
)

// RatingInput accepts a rating sent either as a JSON number or a string.
type RatingInput string

func (r *RatingInput) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*r = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = str
	}
	*r = RatingInput(s)
	return nil
}

// Form is the registration and edit form. Every write replaces the whole row.
type Form struct {
	Title         string      `json:"title" validate:"required"`
	Authors       string      `json:"authors"`
	CoverImageURL string      `json:"cover_image_url"`
	Category      string      `json:"category"`
	Language      string      `json:"language"`
	Status        string      `json:"status"`
	Rating        RatingInput `json:"rating"`
	Comment       string      `json:"comment"`
	StartDate     string      `json:"start_date" validate:"omitempty,ymd"`
	EndDate       string      `json:"end_date" validate:"omitempty,ymd"`
	Confirmed     bool        `json:"confirmed" validate:"checked"`
}

// FormFromRecord pre-fills a form for editing.
func FormFromRecord(r Record) Form {
	return Form{
		Title:         r.Title,
		Authors:       r.Authors,
		CoverImageURL: r.CoverImageURL,
		Category:      string(r.Category),
		Language:      string(r.Language),
		Status:        string(r.Status),
		Rating:        RatingInput(r.ToRow().Rating),
		Comment:       r.Comment,
		StartDate:     r.StartDate.String(),
		EndDate:       r.EndDate.String(),
	}
}

// ValidationError blocks a submission. No state is mutated when it is returned.
type ValidationError struct {
	Fields []validation.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "invalid form: " + strings.Join(msgs, "; ")
}

// Validate checks the required title and the confirmation checkbox. The title is
// checked as it will be stored, so missing-value markers such as "nan" count as blank.
func (f Form) Validate() error {
	f.Title = cleanText(f.Title)
	if errs := validation.Struct(f); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// Record runs the form through the row normalizer. The end date falls back to the start date.
func (f Form) Record(now time.Time) Record {
	end := f.EndDate
	if strings.TrimSpace(end) == "" {
		end = f.StartDate
	}
	return Normalize(Row{
		Title:     f.Title,
		Authors:   f.Authors,
		Rating:    string(f.Rating),
		Category:  f.Category,
		Language:  f.Language,
		Status:    f.Status,
		Comment:   f.Comment,
		StartDate: f.StartDate,
		EndDate:   end,
		CoverURL:  f.CoverImageURL,
	}, now)
}
