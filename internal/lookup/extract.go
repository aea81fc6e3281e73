package lookup

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	productIDPattern = regexp.MustCompile(`/(?:dp|product|ASID|ASIN|ebook)/([A-Z0-9]{10,13})`)
	slugPattern      = regexp.MustCompile(`(?:amazon\.[a-z.]+|(?:^|/)jp)/([^/?#]+)/(?:dp|product|ebook|ASID|ASIN)\b`)
	wordPattern      = regexp.MustCompile(`[\p{L}\p{N}_]+`)
)

var stopwords = map[string]struct{}{
	"novel":     {},
	"english":   {},
	"ebook":     {},
	"kindle":    {},
	"edition":   {},
	"paperback": {},
	"hardcover": {},
}

// ExtractSearchTerm turns a pasted marketplace URL or a free-text query into the term
// sent to the metadata API. It never fails: unrecognised input comes back trimmed.
func ExtractSearchTerm(raw string) string {
	input := strings.TrimSpace(raw)
	if m := productIDPattern.FindStringSubmatch(input); m != nil {
		return m[1]
	}
	if m := slugPattern.FindStringSubmatch(input); m != nil {
		if term := slugTerm(m[1]); term != "" {
			return term
		}
	}
	return input
}

func slugTerm(slug string) string {
	if decoded, err := url.PathUnescape(slug); err == nil {
		slug = decoded
	}
	var words []string
	for _, w := range wordPattern.FindAllString(slug, -1) {
		if _, skip := stopwords[strings.ToLower(w)]; skip {
			continue
		}
		words = append(words, w)
	}
	return strings.Join(words, " ")
}
