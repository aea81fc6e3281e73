package book

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"readinglog/internal/validation"
)

// All disables a filter when used as its value.
const All = "all"

// SortOrder orders records by completion date.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

func ParseSortOrder(s string) (SortOrder, bool) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortNewest:
		return SortNewest, true
	case SortOldest:
		return SortOldest, true
	}
	return SortNewest, false
}

// Filter holds the shelf filters. Zero values disable the corresponding filter.
type Filter struct {
	Keyword     string
	Category    Category
	Language    Language
	Status      Status
	StatusGroup StatusGroup
	MinRating   int
	Year        int
	Sort        SortOrder
}

// FilterParams is the textual form of a Filter, as received from a query string or flags.
type FilterParams struct {
	Keyword     string
	Category    string
	Language    string
	Status      string
	StatusGroup string
	MinRating   string
	Year        string
	Sort        string
}

func disabled(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, All)
}

// Filter parses p. Unknown values are reported per field rather than silently ignored.
func (p FilterParams) Filter() (Filter, []validation.FieldError) {
	f := Filter{Keyword: strings.TrimSpace(p.Keyword)}
	var errs []validation.FieldError
	invalid := func(field, msg string) {
		errs = append(errs, validation.FieldError{Field: field, Message: msg})
	}

	if !disabled(p.Category) {
		c, ok := ParseCategory(p.Category)
		if !ok {
			invalid("category", "category must be one of the known categories")
		}
		f.Category = c
	}
	if !disabled(p.Language) {
		l, ok := ParseLanguage(p.Language)
		if !ok {
			invalid("language", "language must be one of the known languages")
		}
		f.Language = l
	}
	if !disabled(p.Status) {
		s, ok := ParseStatus(p.Status)
		if !ok {
			invalid("status", "status must be one of the known statuses")
		}
		f.Status = s
	}
	g, ok := ParseStatusGroup(p.StatusGroup)
	if !ok {
		invalid("status_group", "status_group must be all, finished or unfinished")
	}
	f.StatusGroup = g
	if !disabled(p.MinRating) {
		n, err := strconv.Atoi(strings.TrimSpace(p.MinRating))
		if err != nil || n < MinRating || n > MaxRating {
			invalid("min_rating", "min_rating must be an integer between 1 and 5")
		}
		f.MinRating = n
	}
	if !disabled(p.Year) {
		n, err := strconv.Atoi(strings.TrimSpace(p.Year))
		if err != nil || n < 1 {
			invalid("year", "year must be a calendar year")
		}
		f.Year = n
	}
	order, ok := ParseSortOrder(p.Sort)
	if !ok {
		invalid("sort", "sort must be newest or oldest")
	}
	f.Sort = order
	return f, errs
}

func (f Filter) matches(r Record, fold cases.Caser, keyword string) bool {
	if keyword != "" &&
		!strings.Contains(fold.String(r.Title), keyword) &&
		!strings.Contains(fold.String(r.Authors), keyword) {
		return false
	}
	if f.Category != "" && r.Category != f.Category {
		return false
	}
	if f.Language != "" && r.Language != f.Language {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if !f.StatusGroup.Contains(r.Status) {
		return false
	}
	if f.MinRating > 0 && r.Rating < f.MinRating {
		return false
	}
	if f.Year != 0 && (r.EndDate.IsZero() || r.EndDate.Year() != f.Year) {
		return false
	}
	return true
}

// Apply returns the records matching every active filter, in the requested order.
// The input slice is left untouched.
func Apply(records []Record, f Filter) []Record {
	// cases.Caser is stateful and must not be shared between goroutines
	fold := cases.Fold()
	keyword := fold.String(strings.TrimSpace(f.Keyword))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.matches(r, fold, keyword) {
			out = append(out, r)
		}
	}

	asc := f.Sort == SortOldest
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].EndDate, out[j].EndDate
		switch {
		case a.IsZero() != b.IsZero():
			// undated records go last in either order
			return !a.IsZero()
		case !a.IsZero() && !a.Time().Equal(b.Time()):
			if asc {
				return a.Before(b)
			}
			return b.Before(a)
		}
		return out[i].Title < out[j].Title
	})
	return out
}

// Years lists the distinct completion years, newest first.
func Years(records []Record) []int {
	seen := make(map[int]bool)
	var years []int
	for _, r := range records {
		if r.EndDate.IsZero() || seen[r.EndDate.Year()] {
			continue
		}
		seen[r.EndDate.Year()] = true
		years = append(years, r.EndDate.Year())
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// MonthGroup is a run of records completed in the same month.
type MonthGroup struct {
	Month   string   `json:"month"` // YYYY-MM, empty for undated records
	Records []Record `json:"records"`
}

// GroupByMonth buckets consecutive records by completion month, keeping their order.
func GroupByMonth(records []Record) []MonthGroup {
	var groups []MonthGroup
	for _, r := range records {
		month := ""
		if !r.EndDate.IsZero() {
			month = r.EndDate.Time().Format("2006-01")
		}
		if n := len(groups); n > 0 && groups[n-1].Month == month {
			groups[n-1].Records = append(groups[n-1].Records, r)
			continue
		}
		groups = append(groups, MonthGroup{Month: month, Records: []Record{r}})
	}
	return groups
}
