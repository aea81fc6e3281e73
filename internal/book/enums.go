package book

import "strings"

// Category is the closed set of shelf categories.
type Category string

const (
	CategoryNovel         Category = "Novel"
	CategoryStoicism      Category = "Stoicism"
	CategoryLanguageStudy Category = "LanguageStudy"
	CategoryCareer        Category = "Career"
	CategoryAI            Category = "AI"
	CategoryBusiness      Category = "Business"
	CategoryNonfiction    Category = "Nonfiction"
	CategoryEssay         Category = "Essay"
	CategoryOther         Category = "Other"
)

// Language is the language a book was read in.
type Language string

const (
	LanguageJapanese Language = "Japanese"
	LanguageEnglish  Language = "English"
	LanguageSpanish  Language = "Spanish"
)

// Status is the reading status of a book.
type Status string

const (
	StatusFinished   Status = "Finished"
	StatusReading    Status = "Reading"
	StatusWantToRead Status = "WantToRead"
	StatusAbandoned  Status = "Abandoned"
)

const (
	DefaultCategory = CategoryOther
	DefaultLanguage = LanguageJapanese
	DefaultStatus   = StatusFinished
)

// Categories lists the categories in display order.
var Categories = []Category{
	CategoryNovel, CategoryStoicism, CategoryLanguageStudy, CategoryCareer, CategoryAI,
	CategoryBusiness, CategoryNonfiction, CategoryEssay, CategoryOther,
}

var Languages = []Language{LanguageJapanese, LanguageEnglish, LanguageSpanish}

var Statuses = []Status{StatusFinished, StatusReading, StatusWantToRead, StatusAbandoned}

// Labels as they appear in the spreadsheet.
var (
	categoryLabels = map[Category]string{
		CategoryNovel:         "小説",
		CategoryStoicism:      "Stoicism",
		CategoryLanguageStudy: "語学",
		CategoryCareer:        "キャリア",
		CategoryAI:            "AI",
		CategoryBusiness:      "ビジネス",
		CategoryNonfiction:    "ノンフィクション",
		CategoryEssay:         "エッセイ",
		CategoryOther:         "その他",
	}
	languageLabels = map[Language]string{
		LanguageJapanese: "日本語",
		LanguageEnglish:  "英語",
		LanguageSpanish:  "スペイン語",
	}
	statusLabels = map[Status]string{
		StatusFinished:   "読了",
		StatusReading:    "読書中",
		StatusWantToRead: "読みたい",
		StatusAbandoned:  "断念",
	}
)

func (c Category) Label() string { return categoryLabels[c] }

func (l Language) Label() string { return languageLabels[l] }

func (s Status) Label() string { return statusLabels[s] }

// ParseCategory accepts an API name or a spreadsheet label.
func ParseCategory(s string) (Category, bool) {
	return parseEnum(s, Categories, categoryLabels)
}

func ParseLanguage(s string) (Language, bool) {
	return parseEnum(s, Languages, languageLabels)
}

func ParseStatus(s string) (Status, bool) {
	return parseEnum(s, Statuses, statusLabels)
}

func parseEnum[T ~string](s string, values []T, labels map[T]string) (T, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		var zero T
		return zero, false
	}
	for _, v := range values {
		if strings.EqualFold(s, string(v)) || s == labels[v] {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// StatusGroup buckets statuses for the shelf toggle.
type StatusGroup string

const (
	StatusGroupAll        StatusGroup = "all"
	StatusGroupFinished   StatusGroup = "finished"
	StatusGroupUnfinished StatusGroup = "unfinished"
)

// Contains reports whether s belongs to the group. Abandoned books belong to no bucket.
func (g StatusGroup) Contains(s Status) bool {
	switch g {
	case StatusGroupFinished:
		return s == StatusFinished
	case StatusGroupUnfinished:
		return s == StatusWantToRead || s == StatusReading
	default:
		return true
	}
}

func ParseStatusGroup(s string) (StatusGroup, bool) {
	switch StatusGroup(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusGroupAll:
		return StatusGroupAll, true
	case StatusGroupFinished:
		return StatusGroupFinished, true
	case StatusGroupUnfinished:
		return StatusGroupUnfinished, true
	}
	return StatusGroupAll, false
}
